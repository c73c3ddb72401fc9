package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
)

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	query := `
		INSERT INTO staff (
			id, full_name, phone, active, timezone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	staff.ID = uuid.New()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		staff.ID,
		staff.FullName,
		staff.Phone,
		staff.Active,
		staff.Timezone,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, full_name, phone, active, timezone, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByFullName(ctx context.Context, fullName string) (*model.Staff, error) {
	query := `
		SELECT id, full_name, phone, active, timezone, created_at, updated_at
		FROM staff
		WHERE full_name = $1
	`
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, query, fullName); err != nil {
		return nil, fmt.Errorf("failed to get staff by name: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) ListActive(ctx context.Context, idFilter *uuid.UUID) ([]*model.Staff, error) {
	query := `
		SELECT id, full_name, phone, active, timezone, created_at, updated_at
		FROM staff
		WHERE active = TRUE
	`
	args := []interface{}{}
	if idFilter != nil {
		query += " AND id = $1"
		args = append(args, *idFilter)
	}
	query += " ORDER BY full_name"

	var staff []*model.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	return staff, nil
}

func (r *staffRepository) CreateSchedule(ctx context.Context, schedule *model.StaffSchedule) error {
	query := `
		INSERT INTO staff_schedules (
			id, staff_id, day_of_week, start_time, end_time, break_minutes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.StaffID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.BreakMinutes,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *staffRepository) GetScheduleEntries(ctx context.Context, staffID uuid.UUID, dayOfWeek int) ([]*model.StaffSchedule, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time, break_minutes,
			   created_at, updated_at
		FROM staff_schedules
		WHERE staff_id = $1 AND day_of_week = $2
		ORDER BY start_time
	`
	var schedules []*model.StaffSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, staffID, dayOfWeek); err != nil {
		return nil, fmt.Errorf("failed to get schedule entries: %w", err)
	}
	return schedules, nil
}

func (r *staffRepository) ListSchedules(ctx context.Context, staffID uuid.UUID) ([]*model.StaffSchedule, error) {
	query := `
		SELECT id, staff_id, day_of_week, start_time, end_time, break_minutes,
			   created_at, updated_at
		FROM staff_schedules
		WHERE staff_id = $1
		ORDER BY day_of_week, start_time
	`
	var schedules []*model.StaffSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, staffID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}
