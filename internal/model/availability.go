package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a bookable start time offered to a customer, formatted as a
// local "HH:MM" wall-clock literal.
type Slot struct {
	TimeLocal string `json:"time_local"`
}

// StaffAvailability is the per-staff availability result. Staff with no
// schedule for the requested day still appear, with an empty slot list.
type StaffAvailability struct {
	StaffID   uuid.UUID `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	DateLocal string    `json:"date_local"`
	ServiceID uuid.UUID `json:"service_id"`
	Slots     []Slot    `json:"slots"`
}

// BusyInterval is one occupied [StartsAt, EndsAt) window in UTC, drawn
// from confirmed bookings and blackouts alike.
type BusyInterval struct {
	StartsAt time.Time `db:"starts_at"`
	EndsAt   time.Time `db:"ends_at"`
}
