package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is an open-ended string. The named values are the ones
// the flows produce; admin patches may introduce others, and only
// BookingStatusConfirmed occupies staff time.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a customer appointment. StartsAt and EndsAt are UTC
// instants; EndsAt is always server-computed from the service duration.
// Only confirmed bookings occupy staff time.
type Booking struct {
	Base
	StaffID       uuid.UUID     `db:"staff_id" json:"staff_id"`
	ServiceID     uuid.UUID     `db:"service_id" json:"service_id"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerPhone string        `db:"customer_phone" json:"customer_phone"`
	Status        BookingStatus `db:"status" json:"status"`
	StartsAt      time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt        time.Time     `db:"ends_at" json:"ends_at"`
	Price         int64         `db:"price" json:"price"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
}

// CreateBookingRequest is the public booking payload. StartsAt may
// carry any offset; it is normalized to UTC server-side.
type CreateBookingRequest struct {
	ServiceID     uuid.UUID `json:"service_id" binding:"required"`
	StaffID       uuid.UUID `json:"staff_id" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required,min=2"`
	CustomerPhone string    `json:"customer_phone"`
	StartsAt      time.Time `json:"starts_at" binding:"required"`
}

// PatchBookingRequest is the admin patch payload. StartLocal is a
// "YYYY-MM-DD HH:MM" wall-clock literal in the business timezone.
type PatchBookingRequest struct {
	Status     *BookingStatus `json:"status"`
	StartLocal *string        `json:"start_local" binding:"omitempty,localdatetime"`
	StaffID    *uuid.UUID     `json:"staff_id"`
	Notes      *string        `json:"notes"`
}

// BookingFilters narrows admin appointment listings.
type BookingFilters struct {
	StaffID  *uuid.UUID
	Status   *BookingStatus
	FromUTC  time.Time
	UntilUTC time.Time
}

// AdminBookingRow is the admin listing shape, joined with service and
// staff names.
type AdminBookingRow struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	ServiceID   uuid.UUID     `db:"service_id" json:"service_id"`
	ServiceName *string       `db:"service_name" json:"service_name,omitempty"`
	StaffID     uuid.UUID     `db:"staff_id" json:"staff_id"`
	StaffName   *string       `db:"staff_name" json:"staff_name,omitempty"`
	ClientName  string        `db:"client_name" json:"client_name"`
	ClientPhone string        `db:"client_phone" json:"client_phone"`
	Status      BookingStatus `db:"status" json:"status"`
	StartUTC    time.Time     `db:"start_utc" json:"start_utc"`
	EndUTC      time.Time     `db:"end_utc" json:"end_utc"`
}
