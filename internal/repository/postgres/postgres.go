package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/lidiabooking/booking-api/internal/repository"
)

type serviceRepository struct {
	db *sqlx.DB
}

type staffRepository struct {
	db *sqlx.DB
}

type blackoutRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func NewBlackoutRepository(db *sqlx.DB) repository.BlackoutRepository {
	return &blackoutRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
