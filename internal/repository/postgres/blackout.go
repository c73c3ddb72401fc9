package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
)

func (r *blackoutRepository) Create(ctx context.Context, blackout *model.Blackout) error {
	query := `
		INSERT INTO blackouts (
			id, staff_id, reason, starts_at, ends_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	blackout.ID = uuid.New()
	blackout.CreatedAt = time.Now()
	blackout.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		blackout.ID,
		blackout.StaffID,
		blackout.Reason,
		blackout.StartsAt,
		blackout.EndsAt,
		blackout.CreatedAt,
		blackout.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blackout: %w", err)
	}
	return nil
}

func (r *blackoutRepository) List(ctx context.Context, staffID *uuid.UUID) ([]*model.Blackout, error) {
	query := `
		SELECT id, staff_id, reason, starts_at, ends_at, created_at, updated_at
		FROM blackouts
	`
	args := []interface{}{}
	if staffID != nil {
		query += " WHERE staff_id = $1"
		args = append(args, *staffID)
	}
	query += " ORDER BY starts_at"

	var blackouts []*model.Blackout
	if err := r.db.SelectContext(ctx, &blackouts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list blackouts: %w", err)
	}
	return blackouts, nil
}
