package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

type Config struct {
	Timezone string
}

// Service exposes staff members, their weekly schedules and the admin
// blackout flow.
type Service struct {
	staff     repository.StaffRepository
	blackouts repository.BlackoutRepository
	cfg       Config
}

func NewService(staff repository.StaffRepository, blackouts repository.BlackoutRepository, cfg Config) *Service {
	return &Service{staff: staff, blackouts: blackouts, cfg: cfg}
}

func (s *Service) ListActiveStaff(ctx context.Context) ([]*model.Staff, error) {
	staff, err := s.staff.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *Service) ListSchedules(ctx context.Context, staffID uuid.UUID) ([]*model.StaffSchedule, error) {
	schedules, err := s.staff.ListSchedules(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// CreateBlackout converts the local wall-clock bounds to UTC and
// persists the unavailability window for the staff member.
func (s *Service) CreateBlackout(ctx context.Context, req *model.CreateBlackoutRequest) (*model.Blackout, error) {
	if _, err := s.staff.Get(ctx, req.StaffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("staff", err)
		}
		return nil, fmt.Errorf("failed to resolve staff: %w", err)
	}

	startLocal, err := timeutil.ParseLocalDateTime(req.StartLocal, s.cfg.Timezone)
	if err != nil {
		return nil, apperrors.BadRequest("start_local must be formatted as 'YYYY-MM-DD HH:MM'", err)
	}
	endLocal, err := timeutil.ParseLocalDateTime(req.EndLocal, s.cfg.Timezone)
	if err != nil {
		return nil, apperrors.BadRequest("end_local must be formatted as 'YYYY-MM-DD HH:MM'", err)
	}
	if !endLocal.After(startLocal) {
		return nil, apperrors.BadRequest("end_local must be after start_local", nil)
	}

	blackout := &model.Blackout{
		StaffID:  req.StaffID,
		StartsAt: startLocal.UTC(),
		EndsAt:   endLocal.UTC(),
	}
	if req.Reason != "" {
		blackout.Reason = &req.Reason
	}

	if err := s.blackouts.Create(ctx, blackout); err != nil {
		return nil, fmt.Errorf("failed to create blackout: %w", err)
	}
	return blackout, nil
}

func (s *Service) ListBlackouts(ctx context.Context, staffID *uuid.UUID) ([]*model.Blackout, error) {
	blackouts, err := s.blackouts.List(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blackouts: %w", err)
	}
	return blackouts, nil
}
