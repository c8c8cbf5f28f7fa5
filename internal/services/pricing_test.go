package services

import (
	"errors"
	"math"
	"testing"

	"ewaste-collection-service/internal/domain"
)

func TestCalculateFinalPriceNewWorkingLaptop(t *testing.T) {
	q, err := CalculateFinalPrice("Laptop", 2, "working", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.BaseRate != 300 {
		t.Fatalf("base rate = %v, want 300", q.BaseRate)
	}
	if q.ConditionFactor != 1.5 {
		t.Fatalf("condition factor = %v, want 1.5", q.ConditionFactor)
	}
	if q.AgeFactor != 1 {
		t.Fatalf("age factor = %v, want 1", q.AgeFactor)
	}
	// 300 * 2 * 1.5 * 1.0
	if q.EstimatedValue != 900 {
		t.Fatalf("estimated value = %v, want 900", q.EstimatedValue)
	}
	if q.Currency != "INR" {
		t.Fatalf("currency = %q, want INR", q.Currency)
	}
}

func TestCalculateFinalPriceDepreciationFloor(t *testing.T) {
	ten, err := CalculateFinalPrice("Laptop", 2, "working", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twenty, err := CalculateFinalPrice("Laptop", 2, "working", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Depreciation caps at 80%, so age 10 and age 20 price identically.
	if ten.AgeFactor != 0.2 || twenty.AgeFactor != 0.2 {
		t.Fatalf("age factors = %v / %v, want 0.2 for both", ten.AgeFactor, twenty.AgeFactor)
	}
	if ten.EstimatedValue != twenty.EstimatedValue {
		t.Fatalf("values diverge past the cap: %v vs %v", ten.EstimatedValue, twenty.EstimatedValue)
	}
	if ten.EstimatedValue != 180 {
		t.Fatalf("estimated value = %v, want 180", ten.EstimatedValue)
	}
}

func TestCalculateFinalPriceFallbacks(t *testing.T) {
	q, err := CalculateFinalPrice("Gramophone", 1, "mint", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.BaseRate != 100 {
		t.Fatalf("base rate = %v, want fallback 100", q.BaseRate)
	}
	if q.ConditionFactor != 0.5 {
		t.Fatalf("condition factor = %v, want fallback 0.5", q.ConditionFactor)
	}
	if q.EstimatedValue != 50 {
		t.Fatalf("estimated value = %v, want 50", q.EstimatedValue)
	}
}

func TestCalculateFinalPriceRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		age    float64
	}{
		{"zero weight", 0, 1},
		{"negative weight", -2, 1},
		{"nan weight", math.NaN(), 1},
		{"negative age", 2, -1},
		{"inf age", 2, math.Inf(1)},
	}
	for _, tc := range cases {
		if _, err := CalculateFinalPrice("Laptop", tc.weight, "working", tc.age); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: error = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestCalculateFinalPriceRoundsToPaise(t *testing.T) {
	// 300 * 1.234 * 1.0 * 0.9 = 333.18
	q, err := CalculateFinalPrice("Laptop", 1.234, "repairable", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.EstimatedValue != 333.18 {
		t.Fatalf("estimated value = %v, want 333.18", q.EstimatedValue)
	}
}
