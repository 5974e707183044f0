package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ListFilter struct {
	ProviderID *uint
	MemberID   *uint
	Status     *Status
	Blocked    *bool
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

type StatsFilter struct {
	ProviderID *uint
	From       *time.Time
	To         *time.Time
}

// StatusCount is one group of the statistics query.
type StatusCount struct {
	Status  string
	Blocked bool
	Count   int64
	Revenue float64
}

type RatingSummary struct {
	Count  int64
	Points int64
}

type DayCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

type Repository interface {
	// -------- Appointment (create / read) --------
	Create(ctx context.Context, ap *models.Appointment) error

	// GetByID returns a not_found business error for unknown ids.
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)

	List(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)

	// -------- Appointment (changes) --------

	// UpdateDetails writes the editable columns: times, service type,
	// amount, location and notes.
	UpdateDetails(ctx context.Context, ap *models.Appointment) error

	// UpdateStatus persists a transition only if the stored status still
	// equals from. Otherwise it returns invalid_transition.
	UpdateStatus(ctx context.Context, ap *models.Appointment, from Status) error

	// SaveRating stores the rating fields only if the row is completed and
	// not yet rated. Otherwise it returns invalid_state.
	SaveRating(ctx context.Context, ap *models.Appointment) error

	// -------- Calendar --------

	// FindConflicts returns confirmed appointments of the provider that
	// overlap [start, end), ignoring excludeID when non-zero.
	FindConflicts(ctx context.Context, providerID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error)

	HasConflict(ctx context.Context, providerID uint, start, end time.Time, excludeID uint) (bool, error)

	// ListConfirmedBetween returns confirmed appointments overlapping
	// [from, to), ordered by start.
	ListConfirmedBetween(ctx context.Context, providerID uint, from, to time.Time) ([]models.Appointment, error)

	// -------- Statistics --------
	CountByStatus(ctx context.Context, f StatsFilter) ([]StatusCount, error)
	SummarizeRatings(ctx context.Context, f StatsFilter) (RatingSummary, error)
	CountByDay(ctx context.Context, providerID uint, from, to time.Time, loc *time.Location) ([]DayCount, error)
}

type ServiceCatalog interface {
	// GetServiceType returns a not_found business error for unknown ids.
	GetServiceType(ctx context.Context, id uint) (*models.ServiceType, error)
}

type RatingStore interface {
	// IncrementRating adds one rating of score to the provider's counters
	// in a single atomic statement.
	IncrementRating(ctx context.Context, providerID uint, score int) error

	GetRating(ctx context.Context, providerID uint) (*models.ProviderRating, error)
}

// Stores are the transaction-scoped collaborators handed to a unit of work.
type Stores struct {
	Appointments Repository
	Ratings      RatingStore
}

// Transactor runs fn as one transaction serialized against every other
// writer of the same provider's calendar and rating. If fn returns an error
// nothing it did is kept.
type Transactor interface {
	WithinProvider(ctx context.Context, providerID uint, fn func(s Stores) error) error
}
