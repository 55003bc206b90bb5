package entity

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
)

type Driver struct {
	Base
	Name            string       `db:"name"`
	Phone           string       `db:"phone"`
	VehicleType     string       `db:"vehicle_type"`
	Status          DriverStatus `db:"status"`
	TotalDeliveries int          `db:"total_deliveries"`
}
