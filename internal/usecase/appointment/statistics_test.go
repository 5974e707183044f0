package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	amount := func(v float64) *float64 { return &v }
	score := func(v int) *int { return &v }
	m := memberID

	f.store.seed(models.Appointment{ProviderID: providerID, MemberID: &m, Status: "completed", ScheduledAt: at(-3, 10, 0), EndTime: at(-3, 11, 0), TotalAmount: amount(40), IsRated: true, RatingScore: score(5)})
	f.store.seed(models.Appointment{ProviderID: providerID, MemberID: &m, Status: "completed", ScheduledAt: at(-2, 10, 0), EndTime: at(-2, 11, 0), TotalAmount: amount(20.5), IsRated: true, RatingScore: score(4)})
	f.store.seed(models.Appointment{ProviderID: providerID, MemberID: &m, Status: "completed", ScheduledAt: at(-1, 10, 0), EndTime: at(-1, 11, 0), TotalAmount: amount(10), IsRated: true, RatingScore: score(4)})
	f.store.seed(models.Appointment{ProviderID: providerID, MemberID: &m, Status: "approved", ScheduledAt: at(1, 10, 0), EndTime: at(1, 11, 0), TotalAmount: amount(99)})
	f.seedMember(domain.StatusCancelled, at(2, 10, 0), at(2, 11, 0))
	f.seedBlock(domain.StatusApproved, at(3, 10, 0), at(3, 11, 0))
	f.store.seed(models.Appointment{ProviderID: providerID + 1, MemberID: &m, Status: "completed", ScheduledAt: at(-1, 10, 0), EndTime: at(-1, 11, 0), TotalAmount: amount(500)})

	pid := providerID
	stats, err := f.svc.Statistics(ctx, domain.StatsFilter{ProviderID: &pid})
	if err != nil {
		t.Fatal(err)
	}

	if stats.Total != 6 || stats.Blocked != 1 || stats.MemberBookings != 5 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.ByStatus["completed"] != 3 || stats.ByStatus["approved"] != 2 || stats.ByStatus["pending"] != 0 {
		t.Errorf("unexpected breakdown %v", stats.ByStatus)
	}
	if stats.Revenue != 70.5 {
		t.Errorf("revenue counts completed only, got %v", stats.Revenue)
	}
	if stats.Rated != 3 || stats.AverageScore != 4.33 {
		t.Errorf("expected 3 ratings averaging 4.33, got %d / %v", stats.Rated, stats.AverageScore)
	}

	from, to := at(0, 0, 0), at(-1, 0, 0)
	if _, err := f.svc.Statistics(ctx, domain.StatsFilter{From: &from, To: &to}); !httperr.IsKind(err, httperr.KindValidation) {
		t.Errorf("inverted range: got %v", err)
	}
}

func TestCountsByDay(t *testing.T) {
	f := newFixture(t)
	f.seedMember(domain.StatusPending, at(1, 9, 0), at(1, 10, 0))
	f.seedMember(domain.StatusApproved, at(1, 13, 0), at(1, 14, 0))
	f.seedMember(domain.StatusCancelled, at(1, 15, 0), at(1, 16, 0))
	f.seedBlock(domain.StatusApproved, at(3, 9, 0), at(3, 17, 0))

	days, err := f.svc.CountsByDay(context.Background(), providerID, at(0, 0, 0), at(7, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 || days[0].Count != 2 || !days[0].Day.Equal(at(1, 0, 0)) || days[1].Count != 1 {
		t.Fatalf("unexpected counts %+v", days)
	}

	if _, err := f.svc.CountsByDay(context.Background(), providerID, at(0, 0, 0), at(400, 0, 0)); !httperr.IsBusiness(err, "range_too_long") {
		t.Errorf("expected range_too_long, got %v", err)
	}
}

func TestList_Paging(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.seedMember(domain.StatusPending, at(1+i, 10, 0), at(1+i, 11, 0))
	}

	res, err := f.svc.List(context.Background(), domain.ListFilter{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 25 || res.PageSize != DefaultPageSize || len(res.Items) != 5 {
		t.Fatalf("unexpected page %+v", res)
	}
	if !res.Items[0].ScheduledAt.Equal(at(21, 10, 0)) {
		t.Errorf("items must be ordered by start, got %v", res.Items[0].ScheduledAt)
	}

	res, _ = f.svc.List(context.Background(), domain.ListFilter{Page: 9, PageSize: 500})
	if res.PageSize != MaxPageSize || len(res.Items) != 0 || res.Items == nil {
		t.Errorf("page size must be capped and empty pages must be non-nil, got %+v", res)
	}

	bad := domain.Status("archived")
	if _, err := f.svc.List(context.Background(), domain.ListFilter{Status: &bad}); !httperr.IsKind(err, httperr.KindValidation) {
		t.Errorf("unknown status: got %v", err)
	}
}

func TestAvailableActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soon := f.seedMember(domain.StatusApproved, testNow.Add(20*time.Hour), testNow.Add(21*time.Hour))
	done := f.seedMember(domain.StatusCompleted, at(-1, 10, 0), at(-1, 11, 0))

	got, err := f.svc.AvailableActions(ctx, soon, memberID)
	if err != nil || len(got) != 1 || got[0] != domain.ActionView {
		t.Errorf("inside the window only view is offered, got %v (%v)", got, err)
	}

	got, _ = f.svc.AvailableActions(ctx, done, memberID)
	if len(got) != 2 || got[1] != domain.ActionRate {
		t.Errorf("completed unrated offers rate, got %v", got)
	}

	if _, err := f.svc.AvailableActions(ctx, done, memberID+1); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Errorf("non-owner: expected forbidden, got %v", err)
	}
}
