package usecase

import (
	"context"
	"strings"
	"testing"

	"cargo-booking/internal/data/entity"
	"cargo-booking/internal/dto/request"
	"cargo-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validAddress() request.AddressRequest {
	return request.AddressRequest{
		Label:      "Office",
		Line1:      "Jl. Sudirman No. 1",
		City:       "Jakarta",
		State:      "DKI Jakarta",
		PostalCode: "10110",
		Phone:      "+628123456789",
	}
}

func validCreateRequest() *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		PickupAddress:   validAddress(),
		DeliveryAddress: validAddress(),
		PackageType:     "documents",
		Weight:          10,
		ServiceType:     "standard",
		PickupDate:      "2026-09-01",
		Insurance:       true,
		InsuranceValue:  1000,
	}
}

func newTestBookingService(config *utils.Config) (BookingService, *fakeBookingRepo, DraftService, *syncDispatcher) {
	repo, bookings, _, _ := newTestRepos()
	drafts, _ := newTestDraftService()
	disp := &syncDispatcher{}
	svc := NewBookingService(repo, drafts, disp, config, zap.NewNop())
	return svc, bookings, drafts, disp
}

func TestCreateBooking(t *testing.T) {
	svc, _, drafts, disp := newTestBookingService(testConfig())
	ctx := context.Background()
	customerID := uuid.New().String()

	// A pending draft should be swept once the booking is committed.
	if _, err := drafts.AutoSaveDraft(ctx, customerID, &request.AutoSaveDraftRequest{
		Payload: map[string]any{"weight": 10},
	}); err != nil {
		t.Fatalf("AutoSaveDraft: %v", err)
	}

	resp, err := svc.CreateBooking(ctx, customerID, validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if resp.Status != entity.BookingStatusPending {
		t.Errorf("Status = %s, want pending", resp.Status)
	}
	if !strings.HasPrefix(resp.BookingNumber, "CRG-") {
		t.Errorf("BookingNumber = %s, want CRG- prefix", resp.BookingNumber)
	}
	if !strings.HasPrefix(resp.TrackingNumber, "TRK") {
		t.Errorf("TrackingNumber = %s, want TRK prefix", resp.TrackingNumber)
	}

	if resp.BaseCost != 250 || resp.WeightCharges != 125 || resp.InsuranceCharges != 50 {
		t.Errorf("cost breakdown = %v/%v/%v, want 250/125/50",
			resp.BaseCost, resp.WeightCharges, resp.InsuranceCharges)
	}
	if resp.TotalCost != 425 {
		t.Errorf("TotalCost = %v, want 425", resp.TotalCost)
	}

	if !disp.dispatched("draft-cleanup") {
		t.Error("draft cleanup was not dispatched")
	}
	remaining, err := drafts.ListDrafts(ctx, customerID)
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("got %d drafts after booking, want 0", len(remaining))
	}
}

func TestCreateBookingDistinctNumbers(t *testing.T) {
	svc, _, _, _ := newTestBookingService(testConfig())
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, uuid.New().String(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	second, err := svc.CreateBooking(ctx, uuid.New().String(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if first.BookingNumber == second.BookingNumber {
		t.Errorf("both bookings got number %s", first.BookingNumber)
	}
	if first.TrackingNumber == second.TrackingNumber {
		t.Errorf("both bookings got tracking number %s", first.TrackingNumber)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, _, _ := newTestBookingService(testConfig())
	ctx := context.Background()
	customerID := uuid.New().String()

	tests := []struct {
		name   string
		mutate func(req *request.CreateBookingRequest)
	}{
		{"unknown service type", func(req *request.CreateBookingRequest) { req.ServiceType = "overnight" }},
		{"zero weight", func(req *request.CreateBookingRequest) { req.Weight = 0 }},
		{"negative weight", func(req *request.CreateBookingRequest) { req.Weight = -2 }},
		{"missing pickup city", func(req *request.CreateBookingRequest) { req.PickupAddress.City = "" }},
		{"blank delivery phone", func(req *request.CreateBookingRequest) { req.DeliveryAddress.Phone = "   " }},
		{"bad pickup date", func(req *request.CreateBookingRequest) { req.PickupDate = "01-09-2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			_, err := svc.CreateBooking(ctx, customerID, req)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func seedBooking(t *testing.T, repo *fakeBookingRepo, customerID uuid.UUID, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	booking := &entity.Booking{
		Base:           entity.Base{ID: uuid.New()},
		BookingNumber:  utils.GenerateBookingNumber(),
		TrackingNumber: utils.GenerateTrackingNumber(),
		CustomerID:     customerID,
		ServiceType:    entity.ServiceTypeStandard,
		Status:         status,
	}
	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.BookingStatus
		to      string
		allowed bool
	}{
		{"pending to confirmed", entity.BookingStatusPending, "confirmed", true},
		{"pending to delivered skips the chain", entity.BookingStatusPending, "delivered", false},
		{"confirmed to picked_up", entity.BookingStatusConfirmed, "picked_up", true},
		{"in_transit to out_for_delivery", entity.BookingStatusInTransit, "out_for_delivery", true},
		{"out_for_delivery to delivered", entity.BookingStatusOutForDelivery, "delivered", true},
		{"delivered is terminal", entity.BookingStatusDelivered, "in_transit", false},
		{"cancelled is terminal", entity.BookingStatusCancelled, "pending", false},
		{"no backwards move", entity.BookingStatusInTransit, "confirmed", false},
		{"failed retry off by default", entity.BookingStatusFailed, "pending", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestBookingService(testConfig())
			booking := seedBooking(t, repo, uuid.New(), tt.from)

			resp, err := svc.UpdateStatus(context.Background(), booking.ID.String(), &request.UpdateStatusRequest{Status: tt.to})
			if tt.allowed {
				if err != nil {
					t.Fatalf("UpdateStatus: %v", err)
				}
				if string(resp.Status) != tt.to {
					t.Errorf("Status = %s, want %s", resp.Status, tt.to)
				}
			} else if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateStatusFailedRetryPolicy(t *testing.T) {
	config := testConfig()
	config.Booking.AllowFailedRetry = true
	svc, repo, _, _ := newTestBookingService(config)
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusFailed)

	resp, err := svc.UpdateStatus(context.Background(), booking.ID.String(), &request.UpdateStatusRequest{Status: "pending"})
	if err != nil {
		t.Fatalf("UpdateStatus with retry policy: %v", err)
	}
	if resp.Status != entity.BookingStatusPending {
		t.Errorf("Status = %s, want pending", resp.Status)
	}
}

func TestUpdateStatusStampsTimestampsOnce(t *testing.T) {
	svc, repo, _, _ := newTestBookingService(testConfig())
	ctx := context.Background()
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusPending)
	id := booking.ID.String()

	for _, status := range []string{"confirmed", "picked_up", "in_transit", "out_for_delivery", "delivered"} {
		if _, err := svc.UpdateStatus(ctx, id, &request.UpdateStatusRequest{Status: status}); err != nil {
			t.Fatalf("UpdateStatus to %s: %v", status, err)
		}
	}

	stored, err := repo.FindByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.ConfirmedAt == nil || stored.PickedUpAt == nil || stored.DeliveredAt == nil {
		t.Fatalf("missing transition timestamps: confirmed=%v picked_up=%v delivered=%v",
			stored.ConfirmedAt, stored.PickedUpAt, stored.DeliveredAt)
	}
	if stored.ConfirmedAt.After(*stored.PickedUpAt) || stored.PickedUpAt.After(*stored.DeliveredAt) {
		t.Error("transition timestamps are out of order")
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _, _ := newTestBookingService(testConfig())

	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), &request.UpdateStatusRequest{Status: "confirmed"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.BookingStatus
		wantErr func(error) bool
	}{
		{"pending", entity.BookingStatusPending, nil},
		{"confirmed", entity.BookingStatusConfirmed, nil},
		{"in_transit", entity.BookingStatusInTransit, nil},
		{"failed", entity.BookingStatusFailed, nil},
		{"delivered", entity.BookingStatusDelivered, IsConflict},
		{"already cancelled", entity.BookingStatusCancelled, IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestBookingService(testConfig())
			customerID := uuid.New()
			booking := seedBooking(t, repo, customerID, tt.status)
			customerStr := customerID.String()

			resp, err := svc.CancelBooking(context.Background(), booking.ID.String(), &customerStr)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("expected conflict error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CancelBooking: %v", err)
			}
			if resp.Status != entity.BookingStatusCancelled {
				t.Errorf("Status = %s, want cancelled", resp.Status)
			}
		})
	}
}

func TestCancelBookingForeignCustomerLooksMissing(t *testing.T) {
	svc, repo, _, _ := newTestBookingService(testConfig())
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusPending)
	other := uuid.New().String()

	_, err := svc.CancelBooking(context.Background(), booking.ID.String(), &other)
	if !IsNotFound(err) {
		t.Fatalf("expected not found for foreign booking, got %v", err)
	}
}

func TestCancelBookingAsAdminSkipsOwnership(t *testing.T) {
	svc, repo, _, _ := newTestBookingService(testConfig())
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusConfirmed)

	resp, err := svc.CancelBooking(context.Background(), booking.ID.String(), nil)
	if err != nil {
		t.Fatalf("CancelBooking as admin: %v", err)
	}
	if resp.Status != entity.BookingStatusCancelled {
		t.Errorf("Status = %s, want cancelled", resp.Status)
	}
}

func TestGetBookingByNumber(t *testing.T) {
	svc, repo, _, _ := newTestBookingService(testConfig())
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusConfirmed)

	resp, err := svc.GetBookingByNumber(context.Background(), booking.BookingNumber)
	if err != nil {
		t.Fatalf("GetBookingByNumber: %v", err)
	}
	if resp.TrackingNumber != booking.TrackingNumber {
		t.Errorf("TrackingNumber = %s, want %s", resp.TrackingNumber, booking.TrackingNumber)
	}

	if _, err := svc.GetBookingByNumber(context.Background(), "CRG-00000000-000000"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown booking number, got %v", err)
	}
}

func TestTrackByTrackingNumber(t *testing.T) {
	svc, repo, _, _ := newTestBookingService(testConfig())
	booking := seedBooking(t, repo, uuid.New(), entity.BookingStatusInTransit)

	resp, err := svc.TrackByTrackingNumber(context.Background(), booking.TrackingNumber)
	if err != nil {
		t.Fatalf("TrackByTrackingNumber: %v", err)
	}
	if resp.BookingNumber != booking.BookingNumber {
		t.Errorf("BookingNumber = %s, want %s", resp.BookingNumber, booking.BookingNumber)
	}

	if _, err := svc.TrackByTrackingNumber(context.Background(), "TRK000"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown tracking number, got %v", err)
	}
}
