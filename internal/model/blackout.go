package model

import (
	"time"

	"github.com/google/uuid"
)

// Blackout is a staff-specific unavailability window independent of
// bookings. Bounds are UTC instants.
type Blackout struct {
	Base
	StaffID  uuid.UUID `db:"staff_id" json:"staff_id"`
	Reason   *string   `db:"reason" json:"reason,omitempty"`
	StartsAt time.Time `db:"starts_at" json:"starts_at"`
	EndsAt   time.Time `db:"ends_at" json:"ends_at"`
}

// CreateBlackoutRequest is the admin payload for a new blackout window.
// Times are local wall-clock "YYYY-MM-DD HH:MM" literals.
type CreateBlackoutRequest struct {
	StaffID    uuid.UUID `json:"staff_id" binding:"required"`
	Reason     string    `json:"reason"`
	StartLocal string    `json:"start_local" binding:"required,localdatetime"`
	EndLocal   string    `json:"end_local" binding:"required,localdatetime"`
}
