package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
)

// ErrSlotTaken is returned by booking writes when the requested
// interval collides with a confirmed booking for the same staff.
var ErrSlotTaken = errors.New("slot already taken")

// All repository interfaces in one file
type (
	// ServiceRepository handles the treatment catalog
	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		GetByName(ctx context.Context, category, name string) (*model.Service, error)
		List(ctx context.Context) ([]*model.Service, error)
	}

	// StaffRepository handles staff members and their weekly schedules
	StaffRepository interface {
		Create(ctx context.Context, staff *model.Staff) error
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		GetByFullName(ctx context.Context, fullName string) (*model.Staff, error)
		ListActive(ctx context.Context, idFilter *uuid.UUID) ([]*model.Staff, error)
		CreateSchedule(ctx context.Context, schedule *model.StaffSchedule) error
		GetScheduleEntries(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffSchedule, error)
		ListSchedules(ctx context.Context, staffID uuid.UUID) ([]*model.StaffSchedule, error)
	}

	// BlackoutRepository handles staff unavailability windows
	BlackoutRepository interface {
		Create(ctx context.Context, blackout *model.Blackout) error
		List(ctx context.Context, staffID *uuid.UUID) ([]*model.Blackout, error)
	}

	// BookingRepository handles appointments. Write methods that accept
	// an outbox event persist booking and event in one transaction,
	// with the staff row locked so check-then-insert is serialized per
	// staff member at the database level.
	BookingRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		CreateConfirmed(ctx context.Context, booking *model.Booking, event *model.OutboxEvent) error
		UpdateBooking(ctx context.Context, booking *model.Booking, recheckConflict bool, event *model.OutboxEvent) error
		FindConflict(ctx context.Context, staffID uuid.UUID, startUTC, endUTC time.Time, excludeID *uuid.UUID) (bool, error)
		GetBusyIntervals(ctx context.Context, staffID uuid.UUID, windowStartUTC, windowEndUTC time.Time) ([]model.BusyInterval, error)
		ListAdmin(ctx context.Context, filters *model.BookingFilters) ([]*model.AdminBookingRow, error)
	}

	// OutboxRepository is the worker-side view of pending events.
	// ClaimPendingEvents must move claimed rows out of pending
	// atomically so concurrent workers never pick up the same event.
	OutboxRepository interface {
		ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		RequeueStale(ctx context.Context, olderThan time.Time) (int64, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
