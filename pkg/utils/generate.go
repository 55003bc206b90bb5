package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== BOOKING NUMBER ====================

// GenerateBookingNumber creates a human-readable, date-sortable booking
// number. Format: CRG-YYYYMMDD-RANDOM. The random suffix avoids same-day
// collisions; uniqueness is ultimately enforced by the database constraint.
func GenerateBookingNumber() string {
	datePart := time.Now().Format("20060102")
	randomPart := fmt.Sprintf("%06d", rand.Intn(1000000))

	return fmt.Sprintf("CRG-%s-%s", datePart, randomPart)
}

// ==================== TRACKING NUMBER ====================

// GenerateTrackingNumber creates an opaque carrier-facing tracking number in
// a namespace independent from booking numbers.
// Format: TRK + unix timestamp + RANDOM.
func GenerateTrackingNumber() string {
	randomPart := fmt.Sprintf("%05d", rand.Intn(100000))

	return fmt.Sprintf("TRK%d%s", time.Now().Unix(), randomPart)
}
