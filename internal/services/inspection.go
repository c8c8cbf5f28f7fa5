package services

import (
	"context"
	"fmt"
	"time"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
)

// InspectionInput is an engineer's on-site finding for one pickup.
type InspectionInput struct {
	FinalWeightGrams int64
	Condition        string
	AgeYears         float64
}

// InspectionResult pairs the recorded weight with the resulting valuation.
type InspectionResult struct {
	PickupID         string
	FinalWeightGrams int64
	Quote            *Quote
}

// Inspector records engineer inspections: the only post-creation mutation a
// pickup allows is setting its final weight and inspected price here.
type Inspector struct {
	Pickups ports.PickupRepository
	Now     ports.Clock
}

func NewInspector(pickups ports.PickupRepository) *Inspector {
	return &Inspector{Pickups: pickups, Now: time.Now}
}

// SubmitInspection values the item from its declared category and inspected
// weight, persists final weight and price, and marks the pickup collected.
func (i *Inspector) SubmitInspection(
	ctx context.Context,
	actor domain.Actor,
	pickupID string,
	in InspectionInput,
) (*InspectionResult, error) {
	if !actor.Role.CanInspect() {
		return nil, fmt.Errorf("%w: role %q may not record inspections", domain.ErrUnauthorized, actor.Role)
	}
	if in.FinalWeightGrams <= 0 {
		return nil, fmt.Errorf("%w: final weight must be positive grams, got %d", domain.ErrValidation, in.FinalWeightGrams)
	}

	pickup, err := i.Pickups.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("submit inspection: pickup %q: %w", pickupID, err)
	}

	// Pricing takes kilograms; storage stays in grams.
	quote, err := CalculateFinalPrice(pickup.EwasteType, domain.GramsToKg(in.FinalWeightGrams), in.Condition, in.AgeYears)
	if err != nil {
		return nil, fmt.Errorf("submit inspection: pickup %q: %w", pickupID, err)
	}

	if err := i.Pickups.RecordInspection(ctx, pickupID, actor.ID, in.FinalWeightGrams, quote.EstimatedValue); err != nil {
		return nil, fmt.Errorf("submit inspection: pickup %q: persist: %w", pickupID, err)
	}

	return &InspectionResult{
		PickupID:         pickupID,
		FinalWeightGrams: in.FinalWeightGrams,
		Quote:            quote,
	}, nil
}
