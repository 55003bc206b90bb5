package entity

import (
	"github.com/google/uuid"
)

// DeliveryAdjustment records one applied delivery-counter compensation for a
// driver reassignment. The unique (booking_id, from_driver_id, to_driver_id)
// key makes a retried reassignment a no-op for the counters.
type DeliveryAdjustment struct {
	BaseSimple
	BookingID    uuid.UUID `db:"booking_id"`
	FromDriverID uuid.UUID `db:"from_driver_id"`
	ToDriverID   uuid.UUID `db:"to_driver_id"`
}
