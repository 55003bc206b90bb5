package usecase

import (
	"math"

	"cargo-booking/internal/data/entity"
)

// Pricing is a pure function of the booking attributes: no I/O, no clock, no
// randomness. The breakdown is computed once at booking creation and stored;
// it is never re-derived from these rates afterwards.

var baseRates = map[entity.ServiceType]float64{
	entity.ServiceTypeStandard: 250,
	entity.ServiceTypeExpress:  450,
	entity.ServiceTypeSameDay:  700,
}

const (
	// Heavy packages above this weight pay a surcharge.
	weightThresholdKg = 5
	// Surcharge as a fraction of the base rate.
	weightMultiplier = 0.5

	insuranceRate       = 0.02
	insuranceMinimumFee = 50
)

type CostBreakdown struct {
	BaseCost         float64
	WeightCharges    float64
	InsuranceCharges float64
	TotalCost        float64
}

// Price computes the cost breakdown for a booking.
func Price(serviceType entity.ServiceType, weight float64, insurance bool, insuranceValue float64) CostBreakdown {
	baseCost := baseRates[serviceType]

	var weightCharges float64
	if weight > weightThresholdKg {
		weightCharges = baseCost * weightMultiplier
	}

	var insuranceCharges float64
	if insurance && insuranceValue > 0 {
		insuranceCharges = math.Max(insuranceValue*insuranceRate, insuranceMinimumFee)
	}

	return CostBreakdown{
		BaseCost:         baseCost,
		WeightCharges:    weightCharges,
		InsuranceCharges: insuranceCharges,
		TotalCost:        math.Round(baseCost + weightCharges + insuranceCharges),
	}
}
