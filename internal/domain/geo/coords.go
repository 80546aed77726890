// Package geo holds the pure geometry and distance utilities shared by
// the map services: tile-pyramid math, coordinate validation, unit
// conversion and the GeoJSON shapes returned to clients.
package geo

import (
	"fmt"
	"math"

	"github.com/hubzone/backend/internal/domain/shared"
)

const (
	metersPerMile           = 1609.344
	squareMetersPerSquareMi = 2589988.110336
)

// ValidateLatLng checks that a latitude/longitude pair is finite and
// within geographic bounds.
func ValidateLatLng(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return shared.InvalidInput("coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return shared.InvalidInput(fmt.Sprintf("latitude %g out of range [-90, 90]", lat))
	}
	if lng < -180 || lng > 180 {
		return shared.InvalidInput(fmt.Sprintf("longitude %g out of range [-180, 180]", lng))
	}
	return nil
}

// MilesToMeters converts statute miles to meters.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// MetersToMiles converts meters to statute miles.
func MetersToMiles(meters float64) float64 {
	return meters / metersPerMile
}

// SquareMetersToSquareMiles converts a geographic area to square miles.
func SquareMetersToSquareMiles(sqMeters float64) float64 {
	return sqMeters / squareMetersPerSquareMi
}

// Round2 rounds to two decimal places, the precision used for
// distances and areas in API responses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
