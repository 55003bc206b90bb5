package usecase

import (
	"context"
	"fmt"
	"time"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/dto/response"
	"cargo-booking/pkg/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// assignableStatuses are the booking states a driver may be bound in.
// Delivered is included on purpose: it permits correcting a mis-assignment
// on an already-delivered booking, which triggers counter compensation.
var assignableStatuses = map[entity.BookingStatus]bool{
	entity.BookingStatusConfirmed:      true,
	entity.BookingStatusPickedUp:       true,
	entity.BookingStatusInTransit:      true,
	entity.BookingStatusOutForDelivery: true,
	entity.BookingStatusDelivered:      true,
}

type AssignmentService interface {
	Assign(ctx context.Context, bookingID, driverID string) (*response.AssignmentResponse, error)
}

type assignmentService struct {
	repo  *repository.Repository
	tasks tasks.Dispatcher
	log   *zap.Logger
}

func NewAssignmentService(repo *repository.Repository, dispatcher tasks.Dispatcher, log *zap.Logger) AssignmentService {
	return &assignmentService{
		repo:  repo,
		tasks: dispatcher,
		log:   log.With(zap.String("service", "assignment")),
	}
}

func (s *assignmentService) Assign(ctx context.Context, bookingID, driverID string) (*response.AssignmentResponse, error) {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError("invalid booking ID format %s", bookingID)
	}
	driverUUID, err := uuid.Parse(driverID)
	if err != nil {
		return nil, NewValidationError("invalid driver ID format %s", driverID)
	}

	driver, err := s.repo.Driver.FindByID(ctx, driverUUID)
	if err != nil {
		return nil, fmt.Errorf("assign driver %s: %w", driverID, err)
	}
	if driver == nil {
		return nil, NewNotFoundError("driver %s not found", driverID)
	}
	if driver.Status != entity.DriverStatusActive {
		return nil, NewConflictError("driver %s is not active", driverID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		return nil, fmt.Errorf("assign booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}
	if !assignableStatuses[booking.Status] {
		return nil, NewValidationError("booking in status %s cannot be assigned a driver", booking.Status)
	}

	previousDriverID := booking.DriverID

	// Detected before mutation: reassignment away from a delivered booking
	// is what triggers the counter compensation below.
	reassignedDelivered := previousDriverID != nil &&
		*previousDriverID != driverUUID &&
		booking.Status == entity.BookingStatusDelivered

	now := time.Now()
	booking.DriverID = &driverUUID
	booking.UpdatedAt = now

	// Assignment-triggered auto-advance applies to the confirmed ->
	// picked_up edge only; already-moving bookings keep their status.
	if booking.Status == entity.BookingStatusConfirmed {
		booking.Status = entity.BookingStatusPickedUp
		if booking.PickedUpAt == nil {
			booking.PickedUpAt = &now
		}
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.log.Error("Failed to assign driver",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("driver_id", driverID),
		)
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	s.log.Info("Driver assigned",
		zap.String("booking_id", bookingID),
		zap.String("driver_id", driverID),
		zap.String("status", string(booking.Status)),
		zap.Bool("reassigned_delivered", reassignedDelivered),
	)

	var prevIDStr *string
	if previousDriverID != nil {
		str := previousDriverID.String()
		prevIDStr = &str
	}

	// The assignment above is the primary effect. The counter pair below is
	// a derived statistic: it runs in the background and its failure is
	// logged, never surfaced.
	if reassignedDelivered {
		fromDriver := *previousDriverID
		s.tasks.Dispatch("delivery-counter-compensation", func(ctx context.Context) error {
			return s.compensateDeliveryCounters(ctx, bookingUUID, fromDriver, driverUUID)
		})
	}

	resp := response.BookingToResponse(booking)
	return &response.AssignmentResponse{
		Booking:          resp,
		PreviousDriverID: prevIDStr,
		Reassigned:       previousDriverID != nil && *previousDriverID != driverUUID,
	}, nil
}

// compensateDeliveryCounters moves one delivered-count from the previous
// driver to the new one. The insert-once adjustment record makes a retried
// reassignment a no-op; the decrement floors at zero in the repository.
func (s *assignmentService) compensateDeliveryCounters(ctx context.Context, bookingID, fromDriverID, toDriverID uuid.UUID) error {
	adj := &entity.DeliveryAdjustment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID:    bookingID,
		FromDriverID: fromDriverID,
		ToDriverID:   toDriverID,
	}

	applied, err := s.repo.Adjustment.InsertOnce(ctx, adj)
	if err != nil {
		return fmt.Errorf("record delivery adjustment: %w", err)
	}
	if !applied {
		s.log.Info("Delivery adjustment already applied, skipping",
			zap.String("booking_id", bookingID.String()),
			zap.String("from_driver_id", fromDriverID.String()),
			zap.String("to_driver_id", toDriverID.String()),
		)
		return nil
	}

	// The decrement/increment pair is not atomic; each half is retryable on
	// its own and the adjustment record above keeps retries idempotent.
	if err := s.repo.Driver.DecrementDeliveries(ctx, fromDriverID); err != nil {
		return fmt.Errorf("decrement deliveries: %w", err)
	}
	if err := s.repo.Driver.IncrementDeliveries(ctx, toDriverID); err != nil {
		return fmt.Errorf("increment deliveries: %w", err)
	}

	s.log.Info("Delivery counters compensated",
		zap.String("booking_id", bookingID.String()),
		zap.String("from_driver_id", fromDriverID.String()),
		zap.String("to_driver_id", toDriverID.String()),
	)
	return nil
}
