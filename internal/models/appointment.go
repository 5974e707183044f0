package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint  `gorm:"not null;index:idx_appointments_provider_schedule,priority:1" json:"provider_id"`
	MemberID   *uint `gorm:"index" json:"member_id"`

	IsBlocked bool   `gorm:"not null;default:false" json:"is_blocked"`
	BlockType string `gorm:"size:50" json:"block_type,omitempty"`

	ScheduledAt time.Time `gorm:"not null;index:idx_appointments_provider_schedule,priority:2" json:"scheduled_at"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	ServiceTypeID   *uint    `json:"service_type_id"`
	TotalAmount     *float64 `gorm:"type:numeric(12,2)" json:"total_amount"`
	ServiceLocation string   `gorm:"size:255" json:"service_location"`
	Notes           string   `gorm:"type:text" json:"notes"`

	IsRated       bool       `gorm:"not null;default:false" json:"is_rated"`
	RatingScore   *int       `json:"rating_score"`
	RatingComment string     `gorm:"type:text" json:"rating_comment,omitempty"`
	RatedAt       *time.Time `json:"rated_at"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
