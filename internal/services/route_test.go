package services

import (
	"errors"
	"testing"

	"ewaste-collection-service/internal/domain"
)

func routePickup(id string, lat, lng float64) *domain.PickupRequest {
	loc := domain.Coordinates{Lat: lat, Lng: lng}
	return &domain.PickupRequest{ID: id, Location: &loc}
}

func TestPlanCollectionRouteNearestNeighborOrder(t *testing.T) {
	// Stops laid out northward along a meridian from the start point; the
	// greedy walk must visit them in latitude order.
	start := domain.Coordinates{Lat: 19.00, Lng: 72.85}
	pickups := []*domain.PickupRequest{
		routePickup("far", 19.30, 72.85),
		routePickup("near", 19.05, 72.85),
		routePickup("mid", 19.15, 72.85),
	}
	hub := domain.Hub{Name: "hub", Location: domain.Coordinates{Lat: 19.35, Lng: 72.85}}

	plan, err := PlanCollectionRoute(start, pickups, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(plan.Stops))
	}
	order := []string{plan.Stops[0].PickupID, plan.Stops[1].PickupID, plan.Stops[2].PickupID}
	if order[0] != "near" || order[1] != "mid" || order[2] != "far" {
		t.Fatalf("visit order = %v, want [near mid far]", order)
	}

	// Total distance covers start -> far (0.35 deg of latitude, ~39 km)
	// plus the final hub leg.
	if plan.TotalDistanceKm < 35 || plan.TotalDistanceKm > 45 {
		t.Fatalf("total distance = %v km, want ~39 km", plan.TotalDistanceKm)
	}

	// ETAs increase monotonically and include per-stop service time.
	prev := 0
	for _, s := range plan.Stops {
		if s.ETAMinutes <= prev {
			t.Fatalf("ETA not increasing: %+v", plan.Stops)
		}
		prev = s.ETAMinutes
	}
	if plan.TotalMinutes <= prev-stopServiceMinutes {
		t.Fatalf("total minutes %d should extend past the last stop", plan.TotalMinutes)
	}
}

func TestPlanCollectionRouteEmptyCluster(t *testing.T) {
	start := domain.Coordinates{Lat: 19.00, Lng: 72.85}
	hub := domain.Hub{Name: "hub", Location: domain.Coordinates{Lat: 19.05, Lng: 72.85}}

	plan, err := PlanCollectionRoute(start, nil, hub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 0 {
		t.Fatalf("stops = %d, want 0", len(plan.Stops))
	}
	if plan.TotalDistanceKm <= 0 {
		t.Fatal("empty route still has the start -> hub leg")
	}
}

func TestPlanCollectionRouteRejectsMissingCoordinates(t *testing.T) {
	start := domain.Coordinates{Lat: 19.00, Lng: 72.85}
	hub := domain.Hub{Name: "hub", Location: start}
	pickups := []*domain.PickupRequest{{ID: "nowhere"}}

	if _, err := PlanCollectionRoute(start, pickups, hub); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
