package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusPickedUp       BookingStatus = "picked_up"
	BookingStatusInTransit      BookingStatus = "in_transit"
	BookingStatusOutForDelivery BookingStatus = "out_for_delivery"
	BookingStatusDelivered      BookingStatus = "delivered"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusFailed         BookingStatus = "failed"
)

// validTransitions is the allow-list of status edges. cancelled and failed
// are reachable from every non-terminal state; delivered, cancelled and
// failed have no outgoing edges (failed -> pending is policy-gated, see
// CanTransitionTo).
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:        {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed},
	BookingStatusConfirmed:      {BookingStatusPickedUp, BookingStatusCancelled, BookingStatusFailed},
	BookingStatusPickedUp:       {BookingStatusInTransit, BookingStatusCancelled, BookingStatusFailed},
	BookingStatusInTransit:      {BookingStatusOutForDelivery, BookingStatusCancelled, BookingStatusFailed},
	BookingStatusOutForDelivery: {BookingStatusDelivered, BookingStatusCancelled, BookingStatusFailed},
	BookingStatusDelivered:      {},
	BookingStatusCancelled:      {},
	BookingStatusFailed:         {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if the edge from this status to target is
// allowed. allowFailedRetry additionally permits failed -> pending.
func (s BookingStatus) CanTransitionTo(target BookingStatus, allowFailedRetry bool) bool {
	if allowFailedRetry && s == BookingStatusFailed && target == BookingStatusPending {
		return true
	}
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are defined.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

type ServiceType string

const (
	ServiceTypeStandard ServiceType = "standard"
	ServiceTypeExpress  ServiceType = "express"
	ServiceTypeSameDay  ServiceType = "same_day"
)

func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceTypeStandard, ServiceTypeExpress, ServiceTypeSameDay:
		return true
	}
	return false
}

// Address is embedded into bookings as a snapshot. Address-book edits after
// booking creation never change historical bookings.
type Address struct {
	Label      string `db:"label"`
	Line1      string `db:"line1"`
	Line2      string `db:"line2"`
	City       string `db:"city"`
	State      string `db:"state"`
	PostalCode string `db:"postal_code"`
	Phone      string `db:"phone"`
}

type Booking struct {
	Base
	BookingNumber       string        `db:"booking_number"`
	TrackingNumber      string        `db:"tracking_number"`
	CustomerID          uuid.UUID     `db:"customer_id"`
	DriverID            *uuid.UUID    `db:"driver_id"`
	PickupAddress       Address       `db:"pickup_address"`
	DeliveryAddress     Address       `db:"delivery_address"`
	PackageType         string        `db:"package_type"`
	Weight              float64       `db:"weight"`
	ServiceType         ServiceType   `db:"service_type"`
	PickupDate          time.Time     `db:"pickup_date"`
	SpecialInstructions *string       `db:"special_instructions"`
	Insurance           bool          `db:"insurance"`
	InsuranceValue      float64       `db:"insurance_value"`
	BaseCost            float64       `db:"base_cost"`
	WeightCharges       float64       `db:"weight_charges"`
	InsuranceCharges    float64       `db:"insurance_charges"`
	TotalCost           float64       `db:"total_cost"`
	Status              BookingStatus `db:"status"`
	ConfirmedAt         *time.Time    `db:"confirmed_at"`
	PickedUpAt          *time.Time    `db:"picked_up_at"`
	DeliveredAt         *time.Time    `db:"delivered_at"`
}
