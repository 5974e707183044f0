package dto

import "time"

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProviderID uint      `json:"provider_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`

	// Staff only. Members always book for themselves.
	MemberID  *uint  `json:"member_id"`
	IsBlocked bool   `json:"is_blocked"`
	BlockType string `json:"block_type"`

	ServiceTypeID   *uint  `json:"service_type_id"`
	ServiceLocation string `json:"service_location"`
	Notes           string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Start           *time.Time `json:"start"`
	End             *time.Time `json:"end"`
	ServiceTypeID   *uint      `json:"service_type_id"`
	ServiceLocation *string    `json:"service_location"`
	Notes           *string    `json:"notes"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type RatingRequest struct {
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

type BatchStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1,max=500"`
	Status string `json:"status" binding:"required"`
}

type AvailabilityCheckRequest struct {
	ProviderID uint      `json:"provider_id" binding:"required"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type QuoteRequest struct {
	ServiceTypeID uint      `json:"service_type_id" binding:"required"`
	Start         time.Time `json:"start" binding:"required"`
	End           time.Time `json:"end" binding:"required"`
}

// ======================================================
// RESPONSES
// ======================================================

type SlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type QuoteResponse struct {
	ServiceTypeID uint    `json:"service_type_id"`
	Hours         float64 `json:"hours"`
	TotalAmount   float64 `json:"total_amount"`
}

type BatchStatusResponse struct {
	Updated int `json:"updated"`
}
