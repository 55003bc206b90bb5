package usecase

import (
	"context"
	"testing"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestDriverService() (DriverService, *fakeDriverRepo) {
	drivers := newFakeDriverRepo()
	return NewDriverService(drivers, zap.NewNop()), drivers
}

func TestCreateDriverStartsActive(t *testing.T) {
	svc, _ := newTestDriverService()

	resp, err := svc.CreateDriver(context.Background(), &request.CreateDriverRequest{
		Name:        "Budi Santoso",
		Phone:       "+628123456789",
		VehicleType: "motorcycle",
	})
	if err != nil {
		t.Fatalf("CreateDriver: %v", err)
	}
	if resp.Status != entity.DriverStatusActive {
		t.Errorf("Status = %s, want active", resp.Status)
	}
	if resp.TotalDeliveries != 0 {
		t.Errorf("TotalDeliveries = %d, want 0", resp.TotalDeliveries)
	}
}

func TestCreateDriverValidation(t *testing.T) {
	svc, _ := newTestDriverService()

	_, err := svc.CreateDriver(context.Background(), &request.CreateDriverRequest{Name: "No Phone"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateDriverStatus(t *testing.T) {
	svc, drivers := newTestDriverService()
	ctx := context.Background()
	driver := seedDriver(t, drivers, entity.DriverStatusActive, 3)
	id := driver.ID.String()

	if err := svc.UpdateDriverStatus(ctx, id, "inactive"); err != nil {
		t.Fatalf("UpdateDriverStatus: %v", err)
	}

	stored, err := drivers.FindByID(ctx, driver.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != entity.DriverStatusInactive {
		t.Errorf("Status = %s, want inactive", stored.Status)
	}
	if stored.TotalDeliveries != 3 {
		t.Errorf("TotalDeliveries = %d, want 3 after status change", stored.TotalDeliveries)
	}

	if err := svc.UpdateDriverStatus(ctx, id, "suspended"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if err := svc.UpdateDriverStatus(ctx, uuid.New().String(), "inactive"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown driver, got %v", err)
	}
}

func TestGetDriversStatusFilter(t *testing.T) {
	svc, drivers := newTestDriverService()
	ctx := context.Background()
	seedDriver(t, drivers, entity.DriverStatusActive, 0)
	seedDriver(t, drivers, entity.DriverStatusActive, 0)
	seedDriver(t, drivers, entity.DriverStatusInactive, 0)

	active, err := svc.GetDrivers(ctx, "active", &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetDrivers: %v", err)
	}
	if len(active.Data) != 2 {
		t.Errorf("got %d active drivers, want 2", len(active.Data))
	}

	all, err := svc.GetDrivers(ctx, "", &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetDrivers all: %v", err)
	}
	if len(all.Data) != 3 {
		t.Errorf("got %d drivers, want 3", len(all.Data))
	}

	if _, err := svc.GetDrivers(ctx, "suspended", &request.PaginatedRequest{Page: 1, PerPage: 10}); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown status filter, got %v", err)
	}
}
