package models

import "time"

// ProviderRating holds the aggregate counters for one provider. Rows are
// only ever changed by incrementing, never written from application memory.
type ProviderRating struct {
	ProviderID    uint    `gorm:"primaryKey;autoIncrement:false" json:"provider_id"`
	TotalRatings  int64   `gorm:"not null;default:0" json:"total_ratings"`
	TotalPoints   int64   `gorm:"not null;default:0" json:"total_points"`
	AverageRating float64 `gorm:"type:numeric(3,2);not null;default:0" json:"average_rating"`

	UpdatedAt time.Time `json:"updated_at"`
}
