package staff

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidiabooking/booking-api/internal/model"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
)

type fakeStaffRepo struct {
	staff []*model.Staff
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *model.Staff) error { return nil }

func (f *fakeStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	for _, st := range f.staff {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStaffRepo) GetByFullName(ctx context.Context, fullName string) (*model.Staff, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeStaffRepo) ListActive(ctx context.Context, idFilter *uuid.UUID) ([]*model.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffRepo) CreateSchedule(ctx context.Context, schedule *model.StaffSchedule) error {
	return nil
}

func (f *fakeStaffRepo) GetScheduleEntries(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffSchedule, error) {
	return nil, nil
}

func (f *fakeStaffRepo) ListSchedules(ctx context.Context, staffID uuid.UUID) ([]*model.StaffSchedule, error) {
	return nil, nil
}

type fakeBlackoutRepo struct {
	created []*model.Blackout
}

func (f *fakeBlackoutRepo) Create(ctx context.Context, blackout *model.Blackout) error {
	f.created = append(f.created, blackout)
	return nil
}

func (f *fakeBlackoutRepo) List(ctx context.Context, staffID *uuid.UUID) ([]*model.Blackout, error) {
	return f.created, nil
}

func newFixture() (*Service, *fakeBlackoutRepo, uuid.UUID) {
	staffID := uuid.New()
	staffRepo := &fakeStaffRepo{staff: []*model.Staff{{
		Base:     model.Base{ID: staffID},
		FullName: "Lidia Imlach",
		Active:   true,
	}}}
	blackouts := &fakeBlackoutRepo{}
	svc := NewService(staffRepo, blackouts, Config{Timezone: "America/Asuncion"})
	return svc, blackouts, staffID
}

func TestCreateBlackout(t *testing.T) {
	svc, blackouts, staffID := newFixture()

	created, err := svc.CreateBlackout(context.Background(), &model.CreateBlackoutRequest{
		StaffID:    staffID,
		Reason:     "vacation",
		StartLocal: "2026-03-10 09:00",
		EndLocal:   "2026-03-10 13:00",
	})
	require.NoError(t, err)

	// Local bounds land as UTC instants, Paraguay is UTC-3.
	assert.True(t, created.StartsAt.Equal(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.True(t, created.EndsAt.Equal(time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)))
	require.NotNil(t, created.Reason)
	assert.Equal(t, "vacation", *created.Reason)
	assert.Len(t, blackouts.created, 1)
}

func TestCreateBlackoutUnknownStaff(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateBlackout(context.Background(), &model.CreateBlackoutRequest{
		StaffID:    uuid.New(),
		StartLocal: "2026-03-10 09:00",
		EndLocal:   "2026-03-10 13:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestCreateBlackoutInvalidBounds(t *testing.T) {
	svc, _, staffID := newFixture()

	_, err := svc.CreateBlackout(context.Background(), &model.CreateBlackoutRequest{
		StaffID:    staffID,
		StartLocal: "2026-03-10 13:00",
		EndLocal:   "2026-03-10 09:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = svc.CreateBlackout(context.Background(), &model.CreateBlackoutRequest{
		StaffID:    staffID,
		StartLocal: "tomorrow",
		EndLocal:   "2026-03-10 13:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestCreateBlackoutEmptyReason(t *testing.T) {
	svc, _, staffID := newFixture()

	created, err := svc.CreateBlackout(context.Background(), &model.CreateBlackoutRequest{
		StaffID:    staffID,
		StartLocal: "2026-03-10 09:00",
		EndLocal:   "2026-03-10 13:00",
	})
	require.NoError(t, err)
	assert.Nil(t, created.Reason)
}
