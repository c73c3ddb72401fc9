package booking

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/timeslot"
)

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *model.Service) error { return nil }

func (f *fakeServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	if svc, ok := f.services[id]; ok {
		return svc, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeServiceRepo) GetByName(ctx context.Context, category, name string) (*model.Service, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeServiceRepo) List(ctx context.Context) ([]*model.Service, error) { return nil, nil }

// fakeBookingRepo mimics the transactional conflict check: writes fail
// with ErrSlotTaken when the interval overlaps a stored confirmed
// booking for the same staff.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.Booking
	events   []*model.OutboxEvent
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (f *fakeBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBookingRepo) CreateConfirmed(ctx context.Context, booking *model.Booking, event *model.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasConflict(booking.StaffID, booking.StartsAt, booking.EndsAt, nil) {
		return repository.ErrSlotTaken
	}

	booking.ID = uuid.New()
	stored := *booking
	f.bookings[booking.ID] = &stored
	if event != nil {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, booking *model.Booking, recheckConflict bool, event *model.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if recheckConflict && f.hasConflict(booking.StaffID, booking.StartsAt, booking.EndsAt, &booking.ID) {
		return repository.ErrSlotTaken
	}

	stored := *booking
	f.bookings[booking.ID] = &stored
	if event != nil {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeBookingRepo) FindConflict(ctx context.Context, staffID uuid.UUID, startUTC, endUTC time.Time, excludeID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasConflict(staffID, startUTC, endUTC, excludeID), nil
}

func (f *fakeBookingRepo) GetBusyIntervals(ctx context.Context, staffID uuid.UUID, windowStartUTC, windowEndUTC time.Time) ([]model.BusyInterval, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListAdmin(ctx context.Context, filters *model.BookingFilters) ([]*model.AdminBookingRow, error) {
	return nil, nil
}

func (f *fakeBookingRepo) hasConflict(staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) bool {
	for _, b := range f.bookings {
		if b.StaffID != staffID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if timeslot.Overlaps(start, end, b.StartsAt, b.EndsAt) {
			return true
		}
	}
	return false
}

type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Invalidate() { f.invalidations++ }

func newFixture() (*Service, *fakeBookingRepo, *fakeCache, uuid.UUID, uuid.UUID) {
	serviceID := uuid.New()
	staffID := uuid.New()

	services := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		serviceID: {
			Base:            model.Base{ID: serviceID},
			Category:        "Faciales",
			Name:            "BB Glow",
			DurationMinutes: 60,
			Price:           250000,
		},
	}}
	repo := newFakeBookingRepo()
	cache := &fakeCache{}

	svc := NewService(repo, services, Config{Timezone: "America/Asuncion"}, cache, nil)
	return svc, repo, cache, serviceID, staffID
}

var slotStart = time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

func TestCreateBooking(t *testing.T) {
	svc, repo, cache, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusConfirmed, created.Status)
	assert.Equal(t, int64(250000), created.Price)
	// End is server-computed from the service duration.
	assert.True(t, created.EndsAt.Equal(slotStart.Add(time.Hour)))
	assert.Equal(t, 1, cache.invalidations)

	require.Len(t, repo.events, 1)
	assert.Equal(t, model.EventBookingCreated, repo.events[0].EventType)
}

func TestCreateBookingNormalizesToUTC(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	offset := time.FixedZone("PYT", -3*60*60)
	localStart := time.Date(2026, 3, 10, 10, 0, 0, 0, offset)

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     localStart,
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.StartsAt.Location())
	assert.True(t, created.StartsAt.Equal(slotStart))
}

func TestCreateBookingConflict(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// Thirty minutes into the taken hour.
	_, err = svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Berta",
		StartsAt:     slotStart.Add(30 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCreateBookingBackToBack(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// Starting exactly at the previous end is allowed: half-open
	// intervals do not collide on a shared endpoint.
	_, err = svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Berta",
		StartsAt:     slotStart.Add(time.Hour),
	})
	require.NoError(t, err)
}

func TestCreateBookingOtherStaffUnaffected(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      uuid.New(),
		CustomerName: "Berta",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)
}

func TestCreateBookingUnknownService(t *testing.T) {
	svc, _, _, _, staffID := newFixture()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    uuid.New(),
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestTodayLocalCrossesUTCMidnight(t *testing.T) {
	svc, _, _, _, _ := newFixture()
	// 01:30 UTC on March 11 is still 22:30 on March 10 in Asuncion.
	svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 11, 1, 30, 0, 0, time.UTC)
	})

	today, err := svc.TodayLocal()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), today)
}

func TestPatchBookingStatusOnly(t *testing.T) {
	svc, repo, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	cancelled := model.BookingStatusCancelled
	updated, err := svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, updated.Status)
	// Times stay untouched on a status-only patch.
	assert.True(t, updated.StartsAt.Equal(created.StartsAt))

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, stored.Status)
}

func TestPatchBookingOpenEndedStatus(t *testing.T) {
	svc, repo, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// Values outside the named set are accepted as-is.
	booked := model.BookingStatusBooked
	updated, err := svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		Status: &booked,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusBooked, updated.Status)

	noShow := model.BookingStatus("no_show")
	_, err = svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		Status: &noShow,
	})
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, noShow, stored.Status)
}

func TestPatchBookingEmptyStatus(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	blank := model.BookingStatus("")
	_, err = svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		Status: &blank,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestPatchBookingReschedule(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// 16:00 local in Paraguay is 19:00 UTC.
	newStart := "2026-03-10 16:00"
	updated, err := svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		StartLocal: &newStart,
	})
	require.NoError(t, err)
	assert.True(t, updated.StartsAt.Equal(time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)))
	assert.True(t, updated.EndsAt.Equal(time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)))
}

func TestPatchBookingRescheduleSkipsSelfConflict(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// Moving thirty minutes forward overlaps only the booking itself.
	newStart := "2026-03-10 10:30"
	_, err = svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		StartLocal: &newStart,
	})
	require.NoError(t, err)
}

func TestPatchBookingRescheduleConflict(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	other, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Berta",
		StartsAt:     slotStart.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	// Moving the second booking onto the first must fail.
	newStart := "2026-03-10 10:30"
	_, err = svc.PatchBooking(context.Background(), other.ID, &model.PatchBookingRequest{
		StartLocal: &newStart,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestPatchBookingReassignConflict(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()
	otherStaff := uuid.New()

	_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	moved, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      otherStaff,
		CustomerName: "Berta",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	// Reassigning onto the first staff at the same time must fail.
	_, err = svc.PatchBooking(context.Background(), moved.ID, &model.PatchBookingRequest{
		StaffID: &staffID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestPatchBookingInvalidStartLocal(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	bad := "next tuesday"
	_, err = svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		StartLocal: &bad,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestPatchBookingNotFound(t *testing.T) {
	svc, _, _, _, _ := newFixture()

	cancelled := model.BookingStatusCancelled
	_, err := svc.PatchBooking(context.Background(), uuid.New(), &model.PatchBookingRequest{
		Status: &cancelled,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	created, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Ana",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)

	cancelled := model.BookingStatusCancelled
	_, err = svc.PatchBooking(context.Background(), created.ID, &model.PatchBookingRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)

	// The same interval is bookable again.
	_, err = svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
		ServiceID:    serviceID,
		StaffID:      staffID,
		CustomerName: "Berta",
		StartsAt:     slotStart,
	})
	require.NoError(t, err)
}

func TestConcurrentBookingsOnlyOneWins(t *testing.T) {
	svc, _, _, serviceID, staffID := newFixture()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), &model.CreateBookingRequest{
				ServiceID:    serviceID,
				StaffID:      staffID,
				CustomerName: "Racer",
				StartsAt:     slotStart,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
		}
	}
	assert.Equal(t, 1, succeeded)
}
