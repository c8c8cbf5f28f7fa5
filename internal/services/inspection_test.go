package services

import (
	"context"
	"errors"
	"testing"

	"ewaste-collection-service/internal/adapters/repositories"
	"ewaste-collection-service/internal/domain"
)

func TestSubmitInspectionRecordsWeightAndPrice(t *testing.T) {
	pickups := repositories.NewMemoryPickupRepository()
	p := &domain.PickupRequest{
		ID:          "p1",
		UserID:      "u1",
		EwasteType:  "Laptop",
		WeightGrams: 60_000,
		Status:      domain.PickupAssigned,
	}
	if err := pickups.InsertPickup(context.Background(), p); err != nil {
		t.Fatalf("insert pickup: %v", err)
	}

	inspector := NewInspector(pickups)
	res, err := inspector.SubmitInspection(
		context.Background(),
		domain.Actor{ID: "eng1", Role: domain.RoleEngineer},
		"p1",
		InspectionInput{FinalWeightGrams: 58_000, Condition: "working", AgeYears: 2},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 300 * 58 kg * 1.5 * 0.8
	if res.Quote.EstimatedValue != 20_880 {
		t.Fatalf("estimated value = %v, want 20880", res.Quote.EstimatedValue)
	}

	stored, err := pickups.GetPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get pickup: %v", err)
	}
	if stored.FinalWeightGrams == nil || *stored.FinalWeightGrams != 58_000 {
		t.Fatalf("final weight = %v, want 58000", stored.FinalWeightGrams)
	}
	if stored.EngineerPrice == nil || *stored.EngineerPrice != 20_880 {
		t.Fatalf("engineer price = %v, want 20880", stored.EngineerPrice)
	}
	if stored.EngineerID != "eng1" || stored.Status != domain.PickupCollected {
		t.Fatalf("pickup after inspection: engineer=%q status=%s", stored.EngineerID, stored.Status)
	}
}

func TestSubmitInspectionAuthorization(t *testing.T) {
	pickups := repositories.NewMemoryPickupRepository()
	inspector := NewInspector(pickups)

	_, err := inspector.SubmitInspection(
		context.Background(),
		domain.Actor{ID: "drv1", Role: domain.RoleDriver},
		"p1",
		InspectionInput{FinalWeightGrams: 58_000, Condition: "working"},
	)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestSubmitInspectionRejectsNonPositiveWeight(t *testing.T) {
	inspector := NewInspector(repositories.NewMemoryPickupRepository())
	_, err := inspector.SubmitInspection(
		context.Background(),
		domain.Actor{ID: "eng1", Role: domain.RoleEngineer},
		"p1",
		InspectionInput{FinalWeightGrams: 0, Condition: "scrap"},
	)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
