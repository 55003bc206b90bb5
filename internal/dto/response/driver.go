package response

import (
	"time"

	"cargo-booking/internal/data/entity"
)

type DriverResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	VehicleType     string              `json:"vehicle_type"`
	Status          entity.DriverStatus `json:"status"`
	TotalDeliveries int                 `json:"total_deliveries"`
	CreatedAt       time.Time           `json:"created_at"`
}

func DriverToResponse(d *entity.Driver) DriverResponse {
	return DriverResponse{
		ID:              d.ID.String(),
		Name:            d.Name,
		Phone:           d.Phone,
		VehicleType:     d.VehicleType,
		Status:          d.Status,
		TotalDeliveries: d.TotalDeliveries,
		CreatedAt:       d.CreatedAt,
	}
}
