package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Price returns hours(end-start) * hourly rate, rounded half-up to cents.
// It has no side effects and backs both quotes and creation.
func Price(st *models.ServiceType, start, end time.Time) (float64, error) {
	if st == nil {
		return 0, httperr.NotFound("service_type_not_found", "service type not found")
	}
	if !st.IsActive {
		return 0, httperr.Inactive("service_type_inactive", "service type %d is not active", st.ID)
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return 0, httperr.Validation("invalid_time_range", "start must be before end")
	}

	hours := end.Sub(start).Hours()
	return RoundHalfUp(hours*st.HourlyRate, 2), nil
}

// RoundHalfUp rounds non-negative v to the given decimal places.
func RoundHalfUp(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// AverageRating is points/ratings rounded half-up to 2 places.
func AverageRating(totalPoints, totalRatings int64) float64 {
	if totalRatings == 0 {
		return 0
	}
	return RoundHalfUp(float64(totalPoints)/float64(totalRatings), 2)
}
