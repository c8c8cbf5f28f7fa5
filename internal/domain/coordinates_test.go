package domain

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceKmKnownPoints(t *testing.T) {
	// Borivali warehouse to Colaba warehouse, roughly 36 km apart.
	borivali := Coordinates{Lat: 19.2290, Lng: 72.8567}
	colaba := Coordinates{Lat: 18.9067, Lng: 72.8147}

	d := borivali.DistanceKm(colaba)
	if d < 35 || d > 37 {
		t.Fatalf("distance = %v km, want ~36 km", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := Coordinates{Lat: 19.0790, Lng: 72.9080}
	b := Coordinates{Lat: 19.2183, Lng: 72.9781}

	ab := a.DistanceKm(b)
	ba := b.DistanceKm(a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceKmIdenticalPoints(t *testing.T) {
	p := Coordinates{Lat: 19.1176, Lng: 72.8631}
	if d := p.DistanceKm(p); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestNewCoordinatesRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"nan latitude", math.NaN(), 72.8},
		{"inf longitude", 19.1, math.Inf(1)},
		{"latitude over 90", 91, 72.8},
		{"latitude under -90", -91, 72.8},
		{"longitude over 180", 19.1, 181},
		{"longitude under -180", 19.1, -181},
	}

	for _, tc := range cases {
		_, err := NewCoordinates(tc.lat, tc.lng)
		if err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("%s: error = %v, want ErrInvalidCoordinate", tc.name, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: ErrInvalidCoordinate should wrap ErrValidation", tc.name)
		}
	}
}

func TestNewCoordinatesAcceptsBoundaries(t *testing.T) {
	for _, p := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
		if _, err := NewCoordinates(p[0], p[1]); err != nil {
			t.Fatalf("lat=%v lng=%v: unexpected error: %v", p[0], p[1], err)
		}
	}
}
