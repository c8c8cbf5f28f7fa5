package domain

import (
	"fmt"
	"time"
)

// Pickup request status pipeline. Statuses advance monotonically; there is
// no backward transition.
type PickupStatus string

const (
	PickupPending   PickupStatus = "pending"
	PickupClustered PickupStatus = "clustered"
	PickupScheduled PickupStatus = "scheduled"
	PickupAssigned  PickupStatus = "assigned"
	PickupCollected PickupStatus = "collected"
	PickupRecycled  PickupStatus = "recycled"
)

// Payment settlement state of a pickup.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// MinDeclaredWeightGrams guards against legacy kilogram-scale values being
// stored as grams. Historical data mixed both units; intake rejects
// ambiguous sub-kilogram declarations instead of guessing the scale.
const MinDeclaredWeightGrams = 1000

// A declared item within a pickup request.
type PickupItem struct {
	Type        string
	WeightGrams int64
	Description string
}

// PickupRequest is a single e-waste collection request submitted by a user.
//
// Weights are stored in grams, always. Declared fields are immutable after
// creation; only FinalWeightGrams and EngineerPrice may be set later, by an
// engineer inspection.
type PickupRequest struct {
	ID               string
	UserID           string
	Area             string
	Address          string
	EwasteType       string
	Description      string
	WeightGrams      int64
	Items            []PickupItem
	Location         *Coordinates
	Status           PickupStatus
	ClusterID        string
	EngineerID       string
	FinalWeightGrams *int64
	EngineerPrice    *float64
	PaymentStatus    string
	PaidAmount       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks intake invariants for a newly submitted request.
func (p *PickupRequest) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: pickup user id must not be empty", ErrValidation)
	}
	if p.WeightGrams <= 0 {
		return fmt.Errorf("%w: declared weight must be positive, got %d g", ErrValidation, p.WeightGrams)
	}
	if p.WeightGrams < MinDeclaredWeightGrams {
		return fmt.Errorf(
			"%w: declared weight %d g is below %d g; weights are grams, kilogram-scale input must be converted before submission",
			ErrValidation, p.WeightGrams, MinDeclaredWeightGrams,
		)
	}
	for i, it := range p.Items {
		if it.WeightGrams < 0 {
			return fmt.Errorf("%w: item %d weight must not be negative", ErrValidation, i)
		}
	}
	return nil
}

// WeightKg converts the canonical gram weight at the pricing boundary.
func (p *PickupRequest) WeightKg() float64 {
	if p.FinalWeightGrams != nil {
		return GramsToKg(*p.FinalWeightGrams)
	}
	return GramsToKg(p.WeightGrams)
}

// GramsToKg is the single named grams -> kilograms conversion point.
func GramsToKg(grams int64) float64 { return float64(grams) / 1000.0 }

// KgToGrams is the single named kilograms -> grams conversion point.
func KgToGrams(kg float64) int64 { return int64(kg * 1000.0) }
