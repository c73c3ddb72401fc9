package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/metrics"
	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

// AvailabilityCache is notified after every booking mutation so cached
// slot listings are dropped.
type AvailabilityCache interface {
	Invalidate()
}

// Config carries the write-path knobs.
type Config struct {
	Timezone string
}

// Service is the booking mutation guard: every create and reschedule
// re-verifies the slot against confirmed bookings before persisting.
// The check-then-insert sequence is serialized per staff member by an
// in-process keyed lock on top of the repository's row-level lock.
type Service struct {
	bookings repository.BookingRepository
	services repository.ServiceRepository
	cfg      Config
	cache    AvailabilityCache
	metrics  *metrics.Metrics
	now      func() time.Time

	mu         sync.Mutex
	staffLocks map[uuid.UUID]*sync.Mutex
}

func NewService(
	bookings repository.BookingRepository,
	services repository.ServiceRepository,
	cfg Config,
	cache AvailabilityCache,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings:   bookings,
		services:   services,
		cfg:        cfg,
		cache:      cache,
		metrics:    m,
		now:        time.Now,
		staffLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// WithClock overrides the service clock. Injected in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TodayLocal returns the current calendar day in the business timezone.
func (s *Service) TodayLocal() (time.Time, error) {
	loc, err := timeutil.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	now := s.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CreateBooking validates the request, computes the end server-side,
// re-checks for overlap and persists a confirmed booking with the
// service price captured at booking time.
func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.BadRequest("unknown service", err)
		}
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}

	startsAt := req.StartsAt.UTC()
	endsAt := startsAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	booking := &model.Booking{
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        model.BookingStatusConfirmed,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Price:         svc.Price,
	}

	event := &model.OutboxEvent{EventType: model.EventBookingCreated}

	lock := s.staffLock(req.StaffID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.bookings.CreateConfirmed(ctx, booking, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.Conflict("slot already taken, pick another time", err)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.invalidateCache()
	return booking, nil
}

// PatchBooking applies an admin patch: status, reschedule or
// reassignment. The conflict check re-runs against the new staff and
// interval, excluding the record itself, whenever the start time or
// staff changes; status-only patches skip it.
func (s *Service) PatchBooking(ctx context.Context, id uuid.UUID, req *model.PatchBookingRequest) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	rescheduled := false

	if req.StaffID != nil && *req.StaffID != booking.StaffID {
		booking.StaffID = *req.StaffID
		rescheduled = true
	}
	if req.Status != nil {
		// The status set is open-ended, only blank is rejected.
		if *req.Status == "" {
			return nil, apperrors.BadRequest("status must not be empty", nil)
		}
		booking.Status = *req.Status
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	if req.StartLocal != nil {
		startLocal, err := timeutil.ParseLocalDateTime(*req.StartLocal, s.cfg.Timezone)
		if err != nil {
			return nil, apperrors.BadRequest("start_local must be formatted as 'YYYY-MM-DD HH:MM'", err)
		}

		svc, err := s.services.Get(ctx, booking.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service: %w", err)
		}

		booking.StartsAt = startLocal.UTC()
		booking.EndsAt = booking.StartsAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)
		rescheduled = true
	}

	event := &model.OutboxEvent{EventType: model.EventBookingPatched}

	lock := s.staffLock(booking.StaffID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.bookings.UpdateBooking(ctx, booking, rescheduled, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.Conflict("the new time overlaps another confirmed booking", err)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsPatched.Inc()
	}
	s.invalidateCache()
	return booking, nil
}

// ListAdmin returns bookings whose start falls inside the local date
// range [dateFrom, dateTo], inclusive on both calendar days.
func (s *Service) ListAdmin(ctx context.Context, dateFrom, dateTo time.Time, staffID *uuid.UUID, status *model.BookingStatus) ([]*model.AdminBookingRow, error) {
	fromUTC, _, err := timeutil.LocalDayBoundsUTC(dateFrom, s.cfg.Timezone)
	if err != nil {
		return nil, err
	}
	_, untilUTC, err := timeutil.LocalDayBoundsUTC(dateTo, s.cfg.Timezone)
	if err != nil {
		return nil, err
	}

	rows, err := s.bookings.ListAdmin(ctx, &model.BookingFilters{
		StaffID:  staffID,
		Status:   status,
		FromUTC:  fromUTC,
		UntilUTC: untilUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return rows, nil
}

func (s *Service) staffLock(staffID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.staffLocks[staffID]
	if !ok {
		lock = &sync.Mutex{}
		s.staffLocks[staffID] = lock
	}
	return lock
}

func (s *Service) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
