package activity

import "math"

// Conversion factors for raw metric fields coming off the API.
const (
	metersPerMile = 1609.34
	mpsToMph      = 2.23694
	metersToFeet  = 3.28084
)

// Round2 rounds to 2 decimal places. Every converted field is rounded
// independently; this is the defined contract, not carried precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MetersToMiles converts a distance in meters to miles, rounded.
func MetersToMiles(m float64) float64 {
	return Round2(m / metersPerMile)
}

// MetersToMilesExact converts without rounding. Gear lifetime distance is
// stored unrounded.
func MetersToMilesExact(m float64) float64 {
	return m / metersPerMile
}

// MetersPerSecToMph converts a speed in m/s to mph, rounded.
func MetersPerSecToMph(v float64) float64 {
	return Round2(v * mpsToMph)
}

// MetersToFeet converts an elevation in meters to feet, rounded.
func MetersToFeet(m float64) float64 {
	return Round2(m * metersToFeet)
}
