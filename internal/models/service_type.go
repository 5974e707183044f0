package models

import "time"

// ServiceType is a catalogue entry priced by the hour.
type ServiceType struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	HourlyRate float64 `gorm:"type:numeric(12,2);not null" json:"hourly_rate"`
	IsActive   bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
