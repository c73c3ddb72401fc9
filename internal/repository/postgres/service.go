package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
)

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (
			id, category, name, description, price, duration_minutes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	service.ID = uuid.New()
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		service.ID,
		service.Category,
		service.Name,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, category, name, description, price, duration_minutes,
			   created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) GetByName(ctx context.Context, category, name string) (*model.Service, error) {
	query := `
		SELECT id, category, name, description, price, duration_minutes,
			   created_at, updated_at
		FROM services
		WHERE category = $1 AND name = $2
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, category, name); err != nil {
		return nil, fmt.Errorf("failed to get service by name: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, category, name, description, price, duration_minutes,
			   created_at, updated_at
		FROM services
		ORDER BY category, name
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
