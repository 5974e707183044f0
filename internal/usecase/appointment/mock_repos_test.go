package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/metrics"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timerange"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// ======================================================
// MEMORY STORE
// ======================================================

// memStore implements every store the service needs. WithinProvider
// serializes units of work and restores the previous state when fn fails.
type memStore struct {
	txMu sync.Mutex

	mu           sync.Mutex
	nextID       uint
	appointments map[uint]models.Appointment
	serviceTypes map[uint]models.ServiceType
	ratings      map[uint]models.ProviderRating

	incrementErr error
	getErr       map[uint]error

	hasConflictCalls   int
	findConflictsCalls int
}

var (
	_ domain.Repository     = (*memStore)(nil)
	_ domain.ServiceCatalog = (*memStore)(nil)
	_ domain.RatingStore    = (*memStore)(nil)
	_ domain.Transactor     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		nextID:       1,
		appointments: map[uint]models.Appointment{},
		serviceTypes: map[uint]models.ServiceType{},
		ratings:      map[uint]models.ProviderRating{},
		getErr:       map[uint]error{},
	}
}

func (m *memStore) WithinProvider(ctx context.Context, providerID uint, fn func(s domain.Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	apSnap := make(map[uint]models.Appointment, len(m.appointments))
	for k, v := range m.appointments {
		apSnap[k] = v
	}
	ratingSnap := make(map[uint]models.ProviderRating, len(m.ratings))
	for k, v := range m.ratings {
		ratingSnap[k] = v
	}
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(domain.Stores{Appointments: m, Ratings: m}); err != nil {
		m.mu.Lock()
		m.appointments = apSnap
		m.ratings = ratingSnap
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

// seed stores ap as-is and returns its id.
func (m *memStore) seed(ap models.Appointment) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	ap.ID = m.nextID
	m.nextID++
	m.appointments[ap.ID] = ap
	return ap.ID
}

func (m *memStore) snapshot(id uint) models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appointments[id]
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}

// -------- Repository --------

func (m *memStore) Create(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ap.ID = m.nextID
	m.nextID++
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt
	m.appointments[ap.ID] = *ap
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[id]; err != nil {
		return nil, err
	}
	ap, ok := m.appointments[id]
	if !ok {
		return nil, httperr.NotFound("appointment_not_found", "appointment %d not found", id)
	}
	return &ap, nil
}

func (m *memStore) List(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Appointment
	for _, ap := range m.appointments {
		if f.ProviderID != nil && ap.ProviderID != *f.ProviderID {
			continue
		}
		if f.MemberID != nil && (ap.MemberID == nil || *ap.MemberID != *f.MemberID) {
			continue
		}
		if f.Status != nil && ap.Status != string(*f.Status) {
			continue
		}
		if f.Blocked != nil && ap.IsBlocked != *f.Blocked {
			continue
		}
		if f.From != nil && ap.ScheduledAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !ap.ScheduledAt.Before(*f.To) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })

	total := int64(len(out))
	start := (f.Page - 1) * f.PageSize
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + f.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memStore) UpdateDetails(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.appointments[ap.ID]
	if !ok {
		return httperr.NotFound("appointment_not_found", "appointment %d not found", ap.ID)
	}
	cur.ScheduledAt = ap.ScheduledAt
	cur.EndTime = ap.EndTime
	cur.ServiceTypeID = ap.ServiceTypeID
	cur.TotalAmount = ap.TotalAmount
	cur.ServiceLocation = ap.ServiceLocation
	cur.Notes = ap.Notes
	m.appointments[ap.ID] = cur
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, ap *models.Appointment, from domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.appointments[ap.ID]
	if !ok || cur.Status != string(from) {
		return httperr.InvalidTransition(string(from), ap.Status)
	}
	cur.Status = ap.Status
	cur.Notes = ap.Notes
	cur.CancelledAt = ap.CancelledAt
	cur.CompletedAt = ap.CompletedAt
	m.appointments[ap.ID] = cur
	return nil
}

func (m *memStore) SaveRating(_ context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.appointments[ap.ID]
	if cur.Status != string(domain.StatusCompleted) || cur.IsRated {
		return httperr.InvalidState("already_rated", "appointment already rated")
	}
	cur.IsRated = true
	cur.RatingScore = ap.RatingScore
	cur.RatingComment = ap.RatingComment
	cur.RatedAt = ap.RatedAt
	m.appointments[ap.ID] = cur
	return nil
}

func (m *memStore) confirmedOverlapping(providerID uint, start, end time.Time, excludeID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range m.appointments {
		if ap.ProviderID != providerID || ap.ID == excludeID {
			continue
		}
		if !domain.Status(ap.Status).IsConfirmed() {
			continue
		}
		if timerange.Overlaps(ap.ScheduledAt, ap.EndTime, start, end) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

func (m *memStore) FindConflicts(_ context.Context, providerID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findConflictsCalls++
	return m.confirmedOverlapping(providerID, start, end, excludeID), nil
}

func (m *memStore) HasConflict(_ context.Context, providerID uint, start, end time.Time, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasConflictCalls++
	return len(m.confirmedOverlapping(providerID, start, end, excludeID)) > 0, nil
}

func (m *memStore) ListConfirmedBetween(_ context.Context, providerID uint, from, to time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmedOverlapping(providerID, from, to, 0), nil
}

func (m *memStore) inStats(ap models.Appointment, f domain.StatsFilter) bool {
	if f.ProviderID != nil && ap.ProviderID != *f.ProviderID {
		return false
	}
	if f.From != nil && ap.ScheduledAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !ap.ScheduledAt.Before(*f.To) {
		return false
	}
	return true
}

func (m *memStore) CountByStatus(_ context.Context, f domain.StatsFilter) ([]domain.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct {
		status  string
		blocked bool
	}
	groups := map[key]*domain.StatusCount{}
	for _, ap := range m.appointments {
		if !m.inStats(ap, f) {
			continue
		}
		k := key{ap.Status, ap.IsBlocked}
		g, ok := groups[k]
		if !ok {
			g = &domain.StatusCount{Status: ap.Status, Blocked: ap.IsBlocked}
			groups[k] = g
		}
		g.Count++
		if ap.TotalAmount != nil {
			g.Revenue += *ap.TotalAmount
		}
	}

	out := make([]domain.StatusCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func (m *memStore) SummarizeRatings(_ context.Context, f domain.StatsFilter) (domain.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum domain.RatingSummary
	for _, ap := range m.appointments {
		if !m.inStats(ap, f) || !ap.IsRated || ap.RatingScore == nil {
			continue
		}
		sum.Count++
		sum.Points += int64(*ap.RatingScore)
	}
	return sum, nil
}

func (m *memStore) CountByDay(_ context.Context, providerID uint, from, to time.Time, loc *time.Location) ([]domain.DayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[time.Time]int64{}
	for _, ap := range m.appointments {
		if ap.ProviderID != providerID || ap.ScheduledAt.Before(from) || !ap.ScheduledAt.Before(to) {
			continue
		}
		st := domain.Status(ap.Status)
		if st == domain.StatusCancelled || st == domain.StatusRejected {
			continue
		}
		counts[timezone.StartOfDay(ap.ScheduledAt, loc)]++
	}

	out := make([]domain.DayCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, domain.DayCount{Day: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// -------- ServiceCatalog --------

func (m *memStore) GetServiceType(_ context.Context, id uint) (*models.ServiceType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.serviceTypes[id]
	if !ok {
		return nil, httperr.NotFound("service_type_not_found", "service type %d not found", id)
	}
	return &st, nil
}

// -------- RatingStore --------

func (m *memStore) IncrementRating(_ context.Context, providerID uint, score int) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ratings[providerID]
	r.ProviderID = providerID
	r.TotalRatings++
	r.TotalPoints += int64(score)
	r.AverageRating = domain.AverageRating(r.TotalPoints, r.TotalRatings)
	m.ratings[providerID] = r
	return nil
}

func (m *memStore) GetRating(_ context.Context, providerID uint) (*models.ProviderRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[providerID]
	if !ok {
		return &models.ProviderRating{ProviderID: providerID}, nil
	}
	return &r, nil
}

// ======================================================
// CACHE / AUDIT
// ======================================================

type memCache struct {
	mu          sync.Mutex
	data        map[string][]timerange.Range
	gens        map[string]int64
	invalidated []time.Time

	// beforeSet runs once, just before the next Set stores its slots.
	beforeSet func()
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]timerange.Range{}, gens: map[string]int64{}}
}

func cacheKey(providerID uint, day time.Time) string {
	return fmt.Sprintf("%d:%s", providerID, day.Format("2006-01-02"))
}

func genKey(providerID uint, day time.Time, gen int64) string {
	return fmt.Sprintf("%s:g%d", cacheKey(providerID, day), gen)
}

func (c *memCache) Get(_ context.Context, providerID uint, day time.Time) ([]timerange.Range, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[cacheKey(providerID, day)]
	v, ok := c.data[genKey(providerID, day, gen)]
	return v, gen, ok, nil
}

func (c *memCache) Set(_ context.Context, providerID uint, day time.Time, gen int64, slots []timerange.Range) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[genKey(providerID, day, gen)] = slots
	return nil
}

func (c *memCache) Invalidate(_ context.Context, providerID uint, days []time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range days {
		c.gens[cacheKey(providerID, d)]++
		c.invalidated = append(c.invalidated, d)
	}
	return nil
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, ev := range a.events {
		out[i] = ev.Action
	}
	return out
}

// ======================================================
// FIXTURE
// ======================================================

const (
	providerID = uint(7)
	memberID   = uint(42)
)

// testNow is a Saturday morning; day(0) is the same date.
var testNow = time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	store   *memStore
	cache   *memCache
	auditor *recordingAuditor
	clock   *timezone.FixedClock
	metrics *metrics.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:   newMemStore(),
		cache:   newMemCache(),
		auditor: &recordingAuditor{},
		clock:   timezone.NewFixedClock(testNow),
		metrics: metrics.NewNop(),
	}
	f.svc = NewService(Deps{
		Appointments: f.store,
		Catalog:      f.store,
		Ratings:      f.store,
		Tx:           f.store,
		Clock:        f.clock,
		Policy:       domain.DefaultPolicy(),
		Cache:        f.cache,
		Audit:        f.auditor,
		Log:          zap.NewNop(),
		Metrics:      f.metrics,
	})
	return f
}

// at returns hour:minute on the date offset days after testNow.
func at(days, hour, minute int) time.Time {
	d := testNow.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func (f *fixture) seedMember(status domain.Status, start, end time.Time) uint {
	m := memberID
	return f.store.seed(models.Appointment{
		ProviderID:  providerID,
		MemberID:    &m,
		ScheduledAt: start,
		EndTime:     end,
		Status:      string(status),
	})
}

func (f *fixture) seedBlock(status domain.Status, start, end time.Time) uint {
	return f.store.seed(models.Appointment{
		ProviderID:  providerID,
		IsBlocked:   true,
		BlockType:   "leave",
		ScheduledAt: start,
		EndTime:     end,
		Status:      string(status),
	})
}

func uintPtr(v uint) *uint { return &v }
