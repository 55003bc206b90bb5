package repository

import (
	"cargo-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking    BookingRepository
	Driver     DriverRepository
	Adjustment AdjustmentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking:    NewBookingRepository(db, log),
		Driver:     NewDriverRepository(db, log),
		Adjustment: NewAdjustmentRepository(db, log),
	}
}
