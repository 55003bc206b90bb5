package usecase

import (
	"context"
	"testing"

	"cargo-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestAssignmentService() (AssignmentService, *fakeBookingRepo, *fakeDriverRepo, *syncDispatcher) {
	repo, bookings, drivers, _ := newTestRepos()
	disp := &syncDispatcher{}
	svc := NewAssignmentService(repo, disp, zap.NewNop())
	return svc, bookings, drivers, disp
}

func seedDriver(t *testing.T, repo *fakeDriverRepo, status entity.DriverStatus, deliveries int) *entity.Driver {
	t.Helper()
	driver := &entity.Driver{
		Base:            entity.Base{ID: uuid.New()},
		Name:            "Test Driver",
		Phone:           "+628111111111",
		VehicleType:     "van",
		Status:          status,
		TotalDeliveries: deliveries,
	}
	if err := repo.Create(context.Background(), driver); err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	return driver
}

func TestAssignAdvancesConfirmedBooking(t *testing.T) {
	svc, bookings, drivers, _ := newTestAssignmentService()
	ctx := context.Background()
	driver := seedDriver(t, drivers, entity.DriverStatusActive, 0)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusConfirmed)

	resp, err := svc.Assign(ctx, booking.ID.String(), driver.ID.String())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if resp.Booking.Status != entity.BookingStatusPickedUp {
		t.Errorf("Status = %s, want picked_up", resp.Booking.Status)
	}
	if resp.Reassigned {
		t.Error("first assignment reported as reassignment")
	}
	if resp.PreviousDriverID != nil {
		t.Errorf("PreviousDriverID = %v, want nil", *resp.PreviousDriverID)
	}

	stored, err := bookings.FindByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.DriverID == nil || *stored.DriverID != driver.ID {
		t.Errorf("stored DriverID = %v, want %s", stored.DriverID, driver.ID)
	}
	if stored.PickedUpAt == nil {
		t.Error("auto-advance did not stamp PickedUpAt")
	}
}

func TestAssignKeepsMovingBookingStatus(t *testing.T) {
	svc, bookings, drivers, _ := newTestAssignmentService()
	driver := seedDriver(t, drivers, entity.DriverStatusActive, 0)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusInTransit)

	resp, err := svc.Assign(context.Background(), booking.ID.String(), driver.ID.String())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if resp.Booking.Status != entity.BookingStatusInTransit {
		t.Errorf("Status = %s, want in_transit", resp.Booking.Status)
	}
}

func TestAssignRejectsUnassignableStatuses(t *testing.T) {
	for _, status := range []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusCancelled,
		entity.BookingStatusFailed,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, bookings, drivers, _ := newTestAssignmentService()
			driver := seedDriver(t, drivers, entity.DriverStatusActive, 0)
			booking := seedBooking(t, bookings, uuid.New(), status)

			_, err := svc.Assign(context.Background(), booking.ID.String(), driver.ID.String())
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAssignRejectsInactiveDriver(t *testing.T) {
	svc, bookings, drivers, _ := newTestAssignmentService()
	driver := seedDriver(t, drivers, entity.DriverStatusInactive, 0)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusConfirmed)

	_, err := svc.Assign(context.Background(), booking.ID.String(), driver.ID.String())
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAssignNotFound(t *testing.T) {
	svc, bookings, drivers, _ := newTestAssignmentService()
	driver := seedDriver(t, drivers, entity.DriverStatusActive, 0)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusConfirmed)

	if _, err := svc.Assign(context.Background(), booking.ID.String(), uuid.New().String()); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown driver, got %v", err)
	}
	if _, err := svc.Assign(context.Background(), uuid.New().String(), driver.ID.String()); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown booking, got %v", err)
	}
}

func assignDriver(t *testing.T, bookings *fakeBookingRepo, bookingID uuid.UUID, driverID uuid.UUID) {
	t.Helper()
	booking, err := bookings.FindByID(context.Background(), bookingID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	booking.DriverID = &driverID
	if err := bookings.Update(context.Background(), booking); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestReassignDeliveredCompensatesCounters(t *testing.T) {
	svc, bookings, drivers, disp := newTestAssignmentService()
	ctx := context.Background()

	original := seedDriver(t, drivers, entity.DriverStatusActive, 5)
	replacement := seedDriver(t, drivers, entity.DriverStatusActive, 2)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusDelivered)
	assignDriver(t, bookings, booking.ID, original.ID)

	resp, err := svc.Assign(ctx, booking.ID.String(), replacement.ID.String())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if !resp.Reassigned {
		t.Error("Reassigned = false, want true")
	}
	if resp.PreviousDriverID == nil || *resp.PreviousDriverID != original.ID.String() {
		t.Errorf("PreviousDriverID = %v, want %s", resp.PreviousDriverID, original.ID)
	}
	if resp.Booking.Status != entity.BookingStatusDelivered {
		t.Errorf("Status = %s, want delivered", resp.Booking.Status)
	}
	if !disp.dispatched("delivery-counter-compensation") {
		t.Fatal("counter compensation was not dispatched")
	}

	if got := drivers.deliveries(original.ID); got != 4 {
		t.Errorf("original driver deliveries = %d, want 4", got)
	}
	if got := drivers.deliveries(replacement.ID); got != 3 {
		t.Errorf("replacement driver deliveries = %d, want 3", got)
	}

	// Repeating the same reassignment must not move the counters again.
	if _, err := svc.Assign(ctx, booking.ID.String(), replacement.ID.String()); err != nil {
		t.Fatalf("repeat Assign: %v", err)
	}
	if got := drivers.deliveries(original.ID); got != 4 {
		t.Errorf("original driver deliveries after repeat = %d, want 4", got)
	}
	if got := drivers.deliveries(replacement.ID); got != 3 {
		t.Errorf("replacement driver deliveries after repeat = %d, want 3", got)
	}
}

func TestReassignDeliveredDecrementFloorsAtZero(t *testing.T) {
	svc, bookings, drivers, _ := newTestAssignmentService()
	ctx := context.Background()

	// Counter already drifted to zero; compensation must not go negative.
	original := seedDriver(t, drivers, entity.DriverStatusActive, 0)
	replacement := seedDriver(t, drivers, entity.DriverStatusActive, 0)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusDelivered)
	assignDriver(t, bookings, booking.ID, original.ID)

	if _, err := svc.Assign(ctx, booking.ID.String(), replacement.ID.String()); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if got := drivers.deliveries(original.ID); got != 0 {
		t.Errorf("original driver deliveries = %d, want 0", got)
	}
	if got := drivers.deliveries(replacement.ID); got != 1 {
		t.Errorf("replacement driver deliveries = %d, want 1", got)
	}
}

func TestReassignBeforeDeliveryLeavesCountersAlone(t *testing.T) {
	svc, bookings, drivers, disp := newTestAssignmentService()
	ctx := context.Background()

	original := seedDriver(t, drivers, entity.DriverStatusActive, 5)
	replacement := seedDriver(t, drivers, entity.DriverStatusActive, 2)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusInTransit)
	assignDriver(t, bookings, booking.ID, original.ID)

	resp, err := svc.Assign(ctx, booking.ID.String(), replacement.ID.String())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if !resp.Reassigned {
		t.Error("Reassigned = false, want true")
	}
	if disp.dispatched("delivery-counter-compensation") {
		t.Error("compensation dispatched for a booking that was never delivered by the original driver")
	}
	if got := drivers.deliveries(original.ID); got != 5 {
		t.Errorf("original driver deliveries = %d, want 5", got)
	}
	if got := drivers.deliveries(replacement.ID); got != 2 {
		t.Errorf("replacement driver deliveries = %d, want 2", got)
	}
}

func TestReassignSameDriverIsNoOp(t *testing.T) {
	svc, bookings, drivers, disp := newTestAssignmentService()
	ctx := context.Background()

	driver := seedDriver(t, drivers, entity.DriverStatusActive, 7)
	booking := seedBooking(t, bookings, uuid.New(), entity.BookingStatusDelivered)
	assignDriver(t, bookings, booking.ID, driver.ID)

	resp, err := svc.Assign(ctx, booking.ID.String(), driver.ID.String())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if resp.Reassigned {
		t.Error("assigning the same driver reported as reassignment")
	}
	if disp.dispatched("delivery-counter-compensation") {
		t.Error("compensation dispatched when the driver did not change")
	}
	if got := drivers.deliveries(driver.ID); got != 7 {
		t.Errorf("driver deliveries = %d, want 7", got)
	}
}
