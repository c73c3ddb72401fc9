package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/repository"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
)

// Service exposes the read-only treatment catalog.
type Service struct {
	services repository.ServiceRepository
}

func NewService(services repository.ServiceRepository) *Service {
	return &Service{services: services}
}

func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.services.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}
