package usecase

import (
	"context"
	"fmt"
	"time"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/data/repository"
	"cargo-booking/internal/dto/request"
	"cargo-booking/internal/dto/response"
	"cargo-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DriverService interface {
	CreateDriver(ctx context.Context, req *request.CreateDriverRequest) (*response.DriverResponse, error)
	GetDriverByID(ctx context.Context, driverID string) (*response.DriverResponse, error)
	GetDrivers(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DriverResponse], error)
	UpdateDriverStatus(ctx context.Context, driverID, status string) error
}

type driverService struct {
	repo repository.DriverRepository
	log  *zap.Logger
}

func NewDriverService(repo repository.DriverRepository, log *zap.Logger) DriverService {
	return &driverService{
		repo: repo,
		log:  log.With(zap.String("service", "driver")),
	}
}

func (s *driverService) CreateDriver(ctx context.Context, req *request.CreateDriverRequest) (*response.DriverResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create driver validation failed", zap.Any("errors", errs))
		return nil, NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	driver := &entity.Driver{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Status:      entity.DriverStatusActive,
	}

	if err := s.repo.Create(ctx, driver); err != nil {
		s.log.Error("Failed to create driver", zap.Error(err))
		return nil, fmt.Errorf("create driver: %w", err)
	}

	s.log.Info("Driver created",
		zap.String("driver_id", driver.ID.String()),
		zap.String("name", driver.Name),
	)

	resp := response.DriverToResponse(driver)
	return &resp, nil
}

func (s *driverService) GetDriverByID(ctx context.Context, driverID string) (*response.DriverResponse, error) {
	id, err := uuid.Parse(driverID)
	if err != nil {
		return nil, NewValidationError("invalid driver ID format %s", driverID)
	}

	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get driver %s: %w", driverID, err)
	}
	if driver == nil {
		return nil, NewNotFoundError("driver %s not found", driverID)
	}

	resp := response.DriverToResponse(driver)
	return &resp, nil
}

func (s *driverService) GetDrivers(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DriverResponse], error) {
	driverStatus := entity.DriverStatus(status)
	if status != "" && driverStatus != entity.DriverStatusActive && driverStatus != entity.DriverStatusInactive {
		return nil, NewValidationError("invalid driver status %s", status)
	}

	drivers, err := s.repo.FindAll(ctx, driverStatus, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get drivers", zap.Error(err))
		return nil, fmt.Errorf("get drivers: %w", err)
	}

	total, err := s.repo.CountAll(ctx, driverStatus)
	if err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}

	driverResponses := make([]response.DriverResponse, len(drivers))
	for i, driver := range drivers {
		driverResponses[i] = response.DriverToResponse(driver)
	}

	return response.NewPaginatedResponse(driverResponses, req.Page, req.PerPage, total), nil
}

func (s *driverService) UpdateDriverStatus(ctx context.Context, driverID, status string) error {
	id, err := uuid.Parse(driverID)
	if err != nil {
		return NewValidationError("invalid driver ID format %s", driverID)
	}

	driverStatus := entity.DriverStatus(status)
	if driverStatus != entity.DriverStatusActive && driverStatus != entity.DriverStatusInactive {
		return NewValidationError("invalid driver status %s", status)
	}

	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("update driver status %s: %w", driverID, err)
	}
	if driver == nil {
		return NewNotFoundError("driver %s not found", driverID)
	}

	if err := s.repo.UpdateStatus(ctx, id, driverStatus); err != nil {
		s.log.Error("Failed to update driver status",
			zap.Error(err),
			zap.String("driver_id", driverID),
			zap.String("status", status),
		)
		return fmt.Errorf("update driver status: %w", err)
	}

	s.log.Info("Driver status updated",
		zap.String("driver_id", driverID),
		zap.String("status", status),
	)
	return nil
}
