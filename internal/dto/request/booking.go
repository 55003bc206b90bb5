package request

// AddressRequest carries the address fields snapshotted onto the booking.
// Shape validation is the gateway's job; tags here are the defense-in-depth
// re-check of business-critical fields.
type AddressRequest struct {
	Label      string `json:"label"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

type CreateBookingRequest struct {
	PickupAddress       AddressRequest `json:"pickupAddress" validate:"required"`
	DeliveryAddress     AddressRequest `json:"deliveryAddress" validate:"required"`
	PackageType         string         `json:"packageType" validate:"required"`
	Weight              float64        `json:"weight" validate:"required,gt=0"`
	ServiceType         string         `json:"serviceType" validate:"required,oneof=standard express same_day"`
	PickupDate          string         `json:"pickupDate" validate:"required"`
	SpecialInstructions *string        `json:"specialInstructions,omitempty"`
	Insurance           bool           `json:"insurance"`
	InsuranceValue      float64        `json:"insuranceValue" validate:"min=0"`
}

type UpdateStatusRequest struct {
	Status   string  `json:"status" validate:"required,oneof=pending confirmed picked_up in_transit out_for_delivery delivered cancelled failed"`
	DriverID *string `json:"driverId,omitempty" validate:"omitempty,uuid4"`
}
