package domain

import (
	"errors"
	"testing"
)

func TestPickupValidateRejectsSubKilogramWeight(t *testing.T) {
	p := &PickupRequest{UserID: "u1", WeightGrams: 60}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for 60 g declared weight")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestPickupValidateAcceptsGramScaleWeight(t *testing.T) {
	p := &PickupRequest{UserID: "u1", WeightGrams: 60_000}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPickupValidateRequiresUser(t *testing.T) {
	p := &PickupRequest{WeightGrams: 60_000}
	if err := p.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestWeightKgPrefersInspectedWeight(t *testing.T) {
	final := int64(58_500)
	p := &PickupRequest{WeightGrams: 60_000, FinalWeightGrams: &final}
	if got := p.WeightKg(); got != 58.5 {
		t.Fatalf("WeightKg = %v, want 58.5", got)
	}

	p.FinalWeightGrams = nil
	if got := p.WeightKg(); got != 60 {
		t.Fatalf("WeightKg = %v, want 60", got)
	}
}

func TestGramKilogramConversions(t *testing.T) {
	if GramsToKg(1500) != 1.5 {
		t.Fatalf("GramsToKg(1500) = %v, want 1.5", GramsToKg(1500))
	}
	if KgToGrams(1.5) != 1500 {
		t.Fatalf("KgToGrams(1.5) = %v, want 1500", KgToGrams(1.5))
	}
}

func TestNearestHubPicksClosest(t *testing.T) {
	// A point in Borivali should map to the Borivali warehouse.
	from := Coordinates{Lat: 19.2301, Lng: 72.8502}
	hub, dist, err := NearestHub(DefaultHubs, from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hub.Name != "North Warehouse (Borivali)" {
		t.Fatalf("hub = %q, want Borivali", hub.Name)
	}
	if dist <= 0 || dist > 2 {
		t.Fatalf("dist = %v km, want under 2 km", dist)
	}
}

func TestNearestHubEmptyRegistry(t *testing.T) {
	if _, _, err := NearestHub(nil, Coordinates{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
