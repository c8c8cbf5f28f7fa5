package domain

import (
	"fmt"
	"math"
)

// Mean Earth radius in kilometers, used by the haversine formula.
const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// NewCoordinates validates raw latitude/longitude values.
// NaN, Inf and out-of-range values fail with ErrInvalidCoordinate so that
// distance math never silently produces NaN.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinates{}, fmt.Errorf("%w: non-numeric lat=%v lng=%v", ErrInvalidCoordinate, lat, lng)
	}
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinate, lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinate, lng)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// DistanceKm returns the great-circle distance to other in kilometers
// using the haversine formula. Symmetric; zero for identical points.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLng := (other.Lng - c.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	h := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * h
}
