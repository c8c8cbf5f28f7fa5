package domain

import "fmt"

// Hub is a fixed drop-off/warehouse location with static coordinates.
type Hub struct {
	Name     string
	Location Coordinates
}

// DefaultHubs is the fixed, ordered registry of regional hubs. The core
// treats this as read-only configuration.
var DefaultHubs = []Hub{
	{Name: "North Warehouse (Borivali)", Location: Coordinates{Lat: 19.2290, Lng: 72.8567}},
	{Name: "West Warehouse (Andheri)", Location: Coordinates{Lat: 19.1176, Lng: 72.8631}},
	{Name: "East Warehouse (Thane)", Location: Coordinates{Lat: 19.2183, Lng: 72.9781}},
	{Name: "South Warehouse (Colaba)", Location: Coordinates{Lat: 18.9067, Lng: 72.8147}},
	{Name: "Central Hub (Ghatkopar)", Location: Coordinates{Lat: 19.0790, Lng: 72.9080}},
}

// NearestHub returns the registry hub minimizing distance to from.
// Registry order breaks ties, so selection is deterministic.
func NearestHub(hubs []Hub, from Coordinates) (Hub, float64, error) {
	if len(hubs) == 0 {
		return Hub{}, 0, fmt.Errorf("%w: hub registry is empty", ErrValidation)
	}
	best := hubs[0]
	bestDist := from.DistanceKm(hubs[0].Location)
	for _, h := range hubs[1:] {
		if d := from.DistanceKm(h.Location); d < bestDist {
			best = h
			bestDist = d
		}
	}
	return best, bestDist, nil
}

// HubByName looks a hub up in the registry.
func HubByName(hubs []Hub, name string) (Hub, bool) {
	for _, h := range hubs {
		if h.Name == name {
			return h, true
		}
	}
	return Hub{}, false
}
