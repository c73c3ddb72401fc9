package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
)

const conflictExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE staff_id = $1
		AND status = 'confirmed'
		AND starts_at < $3
		AND ends_at > $2
`

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, staff_id, service_id, customer_name, customer_phone,
			   status, starts_at, ends_at, price, notes, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// CreateConfirmed inserts a confirmed booking after re-checking for
// overlap inside a transaction that holds the staff row lock. Two
// concurrent bookings for the same staff serialize on that lock, so
// both cannot observe "no conflict".
func (r *bookingRepository) CreateConfirmed(ctx context.Context, booking *model.Booking, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockStaffRow(ctx, tx, booking.StaffID); err != nil {
		return err
	}

	conflict, err := conflictInTx(ctx, tx, booking.StaffID, booking.StartsAt, booking.EndsAt, nil)
	if err != nil {
		return err
	}
	if conflict {
		return repository.ErrSlotTaken
	}

	query := `
		INSERT INTO bookings (
			id, staff_id, service_id, customer_name, customer_phone,
			status, starts_at, ends_at, price, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, query,
		booking.ID,
		booking.StaffID,
		booking.ServiceID,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.Status,
		booking.StartsAt,
		booking.EndsAt,
		booking.Price,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if event != nil {
		if err := insertOutboxEvent(ctx, tx, booking, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// UpdateBooking rewrites the mutable booking fields. When
// recheckConflict is set (the start time or staff changed), the new
// interval is re-validated against confirmed bookings excluding this
// record, under the same staff row lock as creation.
func (r *bookingRepository) UpdateBooking(ctx context.Context, booking *model.Booking, recheckConflict bool, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if recheckConflict {
		if err := lockStaffRow(ctx, tx, booking.StaffID); err != nil {
			return err
		}

		conflict, err := conflictInTx(ctx, tx, booking.StaffID, booking.StartsAt, booking.EndsAt, &booking.ID)
		if err != nil {
			return err
		}
		if conflict {
			return repository.ErrSlotTaken
		}
	}

	query := `
		UPDATE bookings
		SET staff_id = $1, status = $2, starts_at = $3, ends_at = $4,
			notes = $5, updated_at = $6
		WHERE id = $7
	`
	booking.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, query,
		booking.StaffID,
		booking.Status,
		booking.StartsAt,
		booking.EndsAt,
		booking.Notes,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}

	if event != nil {
		if err := insertOutboxEvent(ctx, tx, booking, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking update: %w", err)
	}
	return nil
}

func (r *bookingRepository) FindConflict(ctx context.Context, staffID uuid.UUID, startUTC, endUTC time.Time, excludeID *uuid.UUID) (bool, error) {
	query := conflictExistsQuery
	args := []interface{}{staffID, startUTC, endUTC}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}
	query += ")"

	var hasConflict bool
	if err := r.db.GetContext(ctx, &hasConflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return hasConflict, nil
}

// GetBusyIntervals returns every confirmed booking and blackout window
// for the staff member intersecting [windowStartUTC, windowEndUTC),
// half-open on both sides of the comparison.
func (r *bookingRepository) GetBusyIntervals(ctx context.Context, staffID uuid.UUID, windowStartUTC, windowEndUTC time.Time) ([]model.BusyInterval, error) {
	query := `
		SELECT starts_at, ends_at
		FROM bookings
		WHERE staff_id = $1
		AND status = 'confirmed'
		AND starts_at < $3
		AND ends_at > $2
		UNION ALL
		SELECT starts_at, ends_at
		FROM blackouts
		WHERE staff_id = $1
		AND starts_at < $3
		AND ends_at > $2
		ORDER BY starts_at
	`
	var intervals []model.BusyInterval
	if err := r.db.SelectContext(ctx, &intervals, query, staffID, windowStartUTC, windowEndUTC); err != nil {
		return nil, fmt.Errorf("failed to get busy intervals: %w", err)
	}
	return intervals, nil
}

func (r *bookingRepository) ListAdmin(ctx context.Context, filters *model.BookingFilters) ([]*model.AdminBookingRow, error) {
	query := `
		SELECT
			b.id,
			b.service_id,
			s.name AS service_name,
			b.staff_id,
			st.full_name AS staff_name,
			b.customer_name AS client_name,
			b.customer_phone AS client_phone,
			b.status,
			b.starts_at AS start_utc,
			b.ends_at AS end_utc
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		LEFT JOIN staff st ON st.id = b.staff_id
		WHERE b.starts_at >= $1
		AND b.starts_at < $2
	`
	args := []interface{}{filters.FromUTC, filters.UntilUTC}
	argCount := 3

	if filters.StaffID != nil {
		query += fmt.Sprintf(" AND b.staff_id = $%d", argCount)
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND b.status = $%d", argCount)
		args = append(args, *filters.Status)
		argCount++
	}

	query += " ORDER BY b.starts_at"

	var rows []*model.AdminBookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return rows, nil
}

func lockStaffRow(ctx context.Context, tx *sqlx.Tx, staffID uuid.UUID) error {
	var id uuid.UUID
	if err := tx.GetContext(ctx, &id, "SELECT id FROM staff WHERE id = $1 FOR UPDATE", staffID); err != nil {
		return fmt.Errorf("failed to lock staff row: %w", err)
	}
	return nil
}

func conflictInTx(ctx context.Context, tx *sqlx.Tx, staffID uuid.UUID, startUTC, endUTC time.Time, excludeID *uuid.UUID) (bool, error) {
	query := conflictExistsQuery
	args := []interface{}{staffID, startUTC, endUTC}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}
	query += ")"

	var hasConflict bool
	if err := tx.GetContext(ctx, &hasConflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return hasConflict, nil
}

func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, event *model.OutboxEvent) error {
	if event.Payload == nil {
		payload, err := json.Marshal(booking)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
		event.Payload = payload
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}
