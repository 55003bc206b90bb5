package usecase

import (
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/ephemeral"
	"cargo-booking/pkg/tasks"
	"cargo-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Draft      DraftService
	Booking    BookingService
	Driver     DriverService
	Assignment AssignmentService
}

func NewService(repo *repository.Repository, store ephemeral.Store, dispatcher tasks.Dispatcher, config *utils.Config, log *zap.Logger) *Service {
	draft := NewDraftService(store, config, log)
	return &Service{
		Draft:      draft,
		Booking:    NewBookingService(repo, draft, dispatcher, config, log),
		Driver:     NewDriverService(repo.Driver, log),
		Assignment: NewAssignmentService(repo, dispatcher, log),
	}
}
