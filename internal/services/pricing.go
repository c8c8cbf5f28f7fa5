package services

import (
	"fmt"
	"math"

	"ewaste-collection-service/internal/domain"
)

// Base rates in INR per kilogram by declared category.
var basePrices = map[string]float64{
	"Laptop":          300,
	"Desktop PC":      250,
	"Mobile Devices":  500,
	"Printer":         100,
	"Office PCs":      250,
	"Server Racks":    400,
	"UPS Batteries":   150,
	"Washing Machine": 50,
	"Fridge":          60,
	"AC":              70,
}

// Condition multipliers applied to the base rate.
var conditionFactors = map[string]float64{
	"working":    1.5,
	"repairable": 1.0,
	"scrap":      0.5,
}

const (
	fallbackBaseRate        = 100
	fallbackConditionFactor = 0.5

	// Depreciation: 10% per year of age, capped at 80%.
	depreciationPerYear = 0.10
	maxDepreciation     = 0.80
)

// Quote is the deterministic valuation of an inspected item, with the
// computed factors retained for audit and display.
type Quote struct {
	BaseRate        float64 `json:"base_rate"`
	ConditionFactor float64 `json:"condition_factor"`
	AgeFactor       float64 `json:"age_factor"`
	EstimatedValue  float64 `json:"estimated_value"`
	Currency        string  `json:"currency"`
}

// CalculateFinalPrice values an item as
// base_rate(category) x weight_kg x condition_factor x age_factor.
//
// Weight must be supplied in kilograms at this boundary; storage elsewhere
// is grams and the caller owns the conversion. Unknown categories and
// conditions fall back to defined defaults rather than failing.
func CalculateFinalPrice(category string, weightKg float64, condition string, ageYears float64) (*Quote, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return nil, fmt.Errorf("%w: weight must be positive kilograms, got %v", domain.ErrValidation, weightKg)
	}
	if ageYears < 0 || math.IsNaN(ageYears) || math.IsInf(ageYears, 0) {
		return nil, fmt.Errorf("%w: age must be a non-negative year count, got %v", domain.ErrValidation, ageYears)
	}

	baseRate, ok := basePrices[category]
	if !ok {
		baseRate = fallbackBaseRate
	}
	conditionFactor, ok := conditionFactors[condition]
	if !ok {
		conditionFactor = fallbackConditionFactor
	}

	ageFactor := 1 - math.Min(ageYears*depreciationPerYear, maxDepreciation)

	return &Quote{
		BaseRate:        baseRate,
		ConditionFactor: conditionFactor,
		AgeFactor:       round2(ageFactor),
		EstimatedValue:  round2(baseRate * weightKg * conditionFactor * ageFactor),
		Currency:        "INR",
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
