package response

import (
	"time"

	"cargo-booking/internal/data/entity"
)

// Booking responses keep the camelCase field names of the preexisting client
// contract; the status strings and the four cost field names are a hard
// compatibility surface.

type AddressResponse struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

type BookingResponse struct {
	ID                  string               `json:"id"`
	BookingNumber       string               `json:"bookingNumber"`
	TrackingNumber      string               `json:"trackingNumber"`
	CustomerID          string               `json:"customerId"`
	DriverID            *string              `json:"driverId,omitempty"`
	PickupAddress       AddressResponse      `json:"pickupAddress"`
	DeliveryAddress     AddressResponse      `json:"deliveryAddress"`
	PackageType         string               `json:"packageType"`
	Weight              float64              `json:"weight"`
	ServiceType         entity.ServiceType   `json:"serviceType"`
	PickupDate          string               `json:"pickupDate"`
	SpecialInstructions *string              `json:"specialInstructions,omitempty"`
	Insurance           bool                 `json:"insurance"`
	InsuranceValue      float64              `json:"insuranceValue"`
	BaseCost            float64              `json:"baseCost"`
	WeightCharges       float64              `json:"weightCharges"`
	InsuranceCharges    float64              `json:"insuranceCharges"`
	TotalCost           float64              `json:"totalCost"`
	Status              entity.BookingStatus `json:"status"`
	CreatedAt           time.Time            `json:"createdAt"`
	ConfirmedAt         *time.Time           `json:"confirmedAt,omitempty"`
	PickedUpAt          *time.Time           `json:"pickedUpAt,omitempty"`
	DeliveredAt         *time.Time           `json:"deliveredAt,omitempty"`
}

type AssignmentResponse struct {
	Booking          BookingResponse `json:"booking"`
	PreviousDriverID *string         `json:"previousDriverId,omitempty"`
	Reassigned       bool            `json:"reassigned"`
}

func addressToResponse(a entity.Address) AddressResponse {
	return AddressResponse{
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
	}
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	var driverID *string
	if b.DriverID != nil {
		id := b.DriverID.String()
		driverID = &id
	}

	return BookingResponse{
		ID:                  b.ID.String(),
		BookingNumber:       b.BookingNumber,
		TrackingNumber:      b.TrackingNumber,
		CustomerID:          b.CustomerID.String(),
		DriverID:            driverID,
		PickupAddress:       addressToResponse(b.PickupAddress),
		DeliveryAddress:     addressToResponse(b.DeliveryAddress),
		PackageType:         b.PackageType,
		Weight:              b.Weight,
		ServiceType:         b.ServiceType,
		PickupDate:          b.PickupDate.Format("2006-01-02"),
		SpecialInstructions: b.SpecialInstructions,
		Insurance:           b.Insurance,
		InsuranceValue:      b.InsuranceValue,
		BaseCost:            b.BaseCost,
		WeightCharges:       b.WeightCharges,
		InsuranceCharges:    b.InsuranceCharges,
		TotalCost:           b.TotalCost,
		Status:              b.Status,
		CreatedAt:           b.CreatedAt,
		ConfirmedAt:         b.ConfirmedAt,
		PickedUpAt:          b.PickedUpAt,
		DeliveredAt:         b.DeliveredAt,
	}
}
