package services

import (
	"fmt"
	"math"

	"ewaste-collection-service/internal/domain"
)

const (
	// avgSpeedKmh approximates urban collection-van travel speed.
	avgSpeedKmh = 25.0
	// stopServiceMinutes is the handling time budgeted per pickup stop.
	stopServiceMinutes = 10
)

// RouteStop is one pickup visit on a collection run.
type RouteStop struct {
	PickupID   string
	Location   domain.Coordinates
	LegKm      float64
	ETAMinutes int
}

// RoutePlan is the ordered multi-stop collection route for a cluster,
// ending at the destination hub. Immutable planning data, no side effects.
type RoutePlan struct {
	Stops           []RouteStop
	TotalDistanceKm float64
	TotalMinutes    int
}

// PlanCollectionRoute orders a cluster's pickup stops with a greedy
// nearest-neighbor walk starting at the anchor and ending at hub.
//
// The algorithm minimizes immediate leg distance at each step. It does not
// attempt global route optimization; determinism and simplicity win over
// optimality, with pickup id as the tie-break for equal legs.
func PlanCollectionRoute(
	start domain.Coordinates,
	pickups []*domain.PickupRequest,
	hub domain.Hub,
) (*RoutePlan, error) {
	remaining := make(map[string]domain.Coordinates, len(pickups))
	for _, p := range pickups {
		if p.Location == nil {
			return nil, fmt.Errorf("%w: pickup %q has no coordinates", domain.ErrValidation, p.ID)
		}
		remaining[p.ID] = *p.Location
	}

	current := start
	elapsed := 0.0
	totalKm := 0.0
	stops := make([]RouteStop, 0, len(remaining))

	for len(remaining) > 0 {
		bestID := ""
		bestDist := math.MaxFloat64

		for id, loc := range remaining {
			d := current.DistanceKm(loc)
			if d < bestDist || (d == bestDist && id < bestID) {
				bestDist = d
				bestID = id
			}
		}

		elapsed += bestDist/avgSpeedKmh*60 + stopServiceMinutes
		totalKm += bestDist

		stops = append(stops, RouteStop{
			PickupID:   bestID,
			Location:   remaining[bestID],
			LegKm:      bestDist,
			ETAMinutes: int(math.Round(elapsed)),
		})

		current = remaining[bestID]
		delete(remaining, bestID)
	}

	// Final leg to the hub closes the run for total route metrics.
	hubLeg := current.DistanceKm(hub.Location)
	totalKm += hubLeg
	elapsed += hubLeg / avgSpeedKmh * 60

	return &RoutePlan{
		Stops:           stops,
		TotalDistanceKm: totalKm,
		TotalMinutes:    int(math.Round(elapsed)),
	}, nil
}
