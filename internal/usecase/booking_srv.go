package usecase

import (
	"context"
	"fmt"
	"time"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/dto/request"
	"cargo-booking/internal/dto/response"
	"cargo-booking/pkg/tasks"
	"cargo-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetBookingByNumber(ctx context.Context, bookingNumber string) (*response.BookingResponse, error)
	TrackByTrackingNumber(ctx context.Context, trackingNumber string) (*response.BookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, bookingID string, req *request.UpdateStatusRequest) (*response.BookingResponse, error)

	// CancelBooking cancels on behalf of a customer when customerID is
	// set, or unconditionally (admin) when nil.
	CancelBooking(ctx context.Context, bookingID string, customerID *string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	drafts DraftService
	tasks  tasks.Dispatcher
	policy utils.BookingConfig
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, drafts DraftService, dispatcher tasks.Dispatcher, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		drafts: drafts,
		tasks:  dispatcher,
		policy: config.Booking,
		log:    log.With(zap.String("service", "booking")),
	}
}

// checkAddress re-checks the business-critical address fields. Full shape
// validation already happened upstream.
func checkAddress(kind string, addr request.AddressRequest) error {
	if utils.IsBlank(addr.Line1) || utils.IsBlank(addr.City) || utils.IsBlank(addr.State) ||
		utils.IsBlank(addr.PostalCode) || utils.IsBlank(addr.Phone) {
		return NewValidationError("%s address is incomplete", kind)
	}
	return nil
}

func addressFromRequest(addr request.AddressRequest) entity.Address {
	return entity.Address{
		Label:      addr.Label,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Phone:      addr.Phone,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, NewValidationError("invalid customer ID format %s", customerID)
	}

	if err := checkAddress("pickup", req.PickupAddress); err != nil {
		return nil, err
	}
	if err := checkAddress("delivery", req.DeliveryAddress); err != nil {
		return nil, err
	}
	if req.Weight <= 0 {
		return nil, NewValidationError("weight must be positive")
	}

	serviceType := entity.ServiceType(req.ServiceType)
	if !serviceType.IsValid() {
		return nil, NewValidationError("invalid service type %s", req.ServiceType)
	}

	pickupDate, err := time.Parse("2006-01-02", req.PickupDate)
	if err != nil {
		return nil, NewValidationError("invalid pickup date %s", req.PickupDate)
	}

	// Cost is computed once here and stored; the stored breakdown is the
	// permanent record even if the rate table changes later.
	cost := Price(serviceType, req.Weight, req.Insurance, req.InsuranceValue)

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingNumber:       utils.GenerateBookingNumber(),
		TrackingNumber:      utils.GenerateTrackingNumber(),
		CustomerID:          customerUUID,
		PickupAddress:       addressFromRequest(req.PickupAddress),
		DeliveryAddress:     addressFromRequest(req.DeliveryAddress),
		PackageType:         req.PackageType,
		Weight:              req.Weight,
		ServiceType:         serviceType,
		PickupDate:          pickupDate,
		SpecialInstructions: req.SpecialInstructions,
		Insurance:           req.Insurance,
		InsuranceValue:      req.InsuranceValue,
		BaseCost:            cost.BaseCost,
		WeightCharges:       cost.WeightCharges,
		InsuranceCharges:    cost.InsuranceCharges,
		TotalCost:           cost.TotalCost,
		Status:              entity.BookingStatusPending,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("customer_id", customerID),
		zap.String("service_type", string(serviceType)),
		zap.Float64("total_cost", cost.TotalCost),
	)

	// Draft cleanup is a secondary effect: the booking is committed, so a
	// cleanup failure is logged by the runner and never reaches the caller.
	s.tasks.Dispatch("draft-cleanup", func(ctx context.Context) error {
		return s.drafts.CleanupDrafts(ctx, customerID)
	})

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBookingByNumber(ctx context.Context, bookingNumber string) (*response.BookingResponse, error) {
	if utils.IsBlank(bookingNumber) {
		return nil, NewValidationError("booking number is required")
	}

	booking, err := s.repo.Booking.FindByBookingNumber(ctx, bookingNumber)
	if err != nil {
		return nil, fmt.Errorf("get booking by number %s: %w", bookingNumber, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingNumber)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) TrackByTrackingNumber(ctx context.Context, trackingNumber string) (*response.BookingResponse, error) {
	if utils.IsBlank(trackingNumber) {
		return nil, NewValidationError("tracking number is required")
	}

	booking, err := s.repo.Booking.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("track booking %s: %w", trackingNumber, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("no booking for tracking number %s", trackingNumber)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, customerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	customerUUID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, NewValidationError("invalid customer ID format %s", customerID)
	}

	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customerUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get customer bookings",
			zap.Error(err),
			zap.String("customer_id", customerID),
		)
		return nil, fmt.Errorf("get customer bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByCustomerID(ctx, customerUUID)
	if err != nil {
		return nil, fmt.Errorf("count customer bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get bookings", zap.Error(err))
		return nil, fmt.Errorf("get bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID string, req *request.UpdateStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update status validation failed", zap.Any("errors", errs))
		return nil, NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError("invalid booking ID format %s", bookingID)
	}

	newStatus := entity.BookingStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, NewValidationError("invalid status %s", req.Status)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update status of %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}

	if !booking.Status.CanTransitionTo(newStatus, s.policy.AllowFailedRetry) {
		return nil, NewValidationError("cannot transition booking from %s to %s", booking.Status, newStatus)
	}

	if req.DriverID != nil {
		driverUUID, err := uuid.Parse(*req.DriverID)
		if err != nil {
			return nil, NewValidationError("invalid driver ID format %s", *req.DriverID)
		}
		booking.DriverID = &driverUUID
	}

	now := time.Now()
	booking.Status = newStatus
	booking.UpdatedAt = now

	// Transition timestamps are stamped once and never overwritten.
	switch newStatus {
	case entity.BookingStatusConfirmed:
		if booking.ConfirmedAt == nil {
			booking.ConfirmedAt = &now
		}
	case entity.BookingStatusPickedUp:
		if booking.PickedUpAt == nil {
			booking.PickedUpAt = &now
		}
	case entity.BookingStatusDelivered:
		if booking.DeliveredAt == nil {
			booking.DeliveredAt = &now
		}
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("status", req.Status),
		)
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", req.Status),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, customerID *string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, NewValidationError("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking %s not found", bookingID)
	}

	if customerID != nil {
		customerUUID, err := uuid.Parse(*customerID)
		if err != nil {
			return nil, NewValidationError("invalid customer ID format %s", *customerID)
		}
		if booking.CustomerID != customerUUID {
			// A foreign booking is indistinguishable from a missing one.
			return nil, NewNotFoundError("booking %s not found", bookingID)
		}
	}

	// Cancellation is allowed from any state except the two below; that
	// includes failed, regardless of the retry policy.
	if booking.Status == entity.BookingStatusDelivered || booking.Status == entity.BookingStatusCancelled {
		return nil, NewConflictError("booking %s is already %s and cannot be cancelled", bookingID, booking.Status)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", bookingID))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}
