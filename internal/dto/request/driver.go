package request

type CreateDriverRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	VehicleType string `json:"vehicle_type" validate:"required"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid4"`
}
