// Package habitability scores planets on a synthetic 0-100 scale from their
// estimated density and the distance of their equilibrium temperature from an
// Earth-like 255 K.
//
// The algorithm exists twice: Score evaluates it in process, Projection renders
// it as a SQL expression for bulk listing. Both round half up with
// floor(x + 0.5) and evaluate in the same operation order, so they agree
// bit-for-bit on every non-null input.
package habitability

import "math"

const (
	// ReferenceTemperatureK is the Earth-like equilibrium temperature.
	ReferenceTemperatureK = 255.0
	// KelvinPerPoint is the temperature penalty: one point per 5 K off reference.
	KelvinPerPoint = 5.0

	DensityHigh = 0.75
	DensityLow  = 0.5

	TemperatureWeight = 0.6
	DensityWeight     = 0.4
)

// Score returns the habitability score, or nil when any input is nil or the
// radius is not positive. A nil score means "unscored", not an error.
func Score(massEarth, radiusEarth, equilibriumTempK *float64) *int {
	if massEarth == nil || radiusEarth == nil || equilibriumTempK == nil {
		return nil
	}
	if !(*radiusEarth > 0) {
		return nil
	}
	s := score(*massEarth, *radiusEarth, *equilibriumTempK)
	return &s
}

func score(mass, radius, temp float64) int {
	density := mass / (radius * radius * radius)

	densityScore := 0.0
	switch {
	case density >= DensityHigh:
		densityScore = 100
	case density >= DensityLow:
		densityScore = 50
	}

	tempScore := math.Max(0, 100-math.Abs(temp-ReferenceTemperatureK)/KelvinPerPoint)

	// Explicit conversions forbid fused multiply-add, keeping the
	// arithmetic identical to the SQL projection.
	total := float64(tempScore*TemperatureWeight) + float64(densityScore*DensityWeight)
	return int(math.Floor(total + 0.5))
}

// Density returns the Earth-relative bulk density estimate m / r^3.
func Density(massEarth, radiusEarth float64) float64 {
	return massEarth / (radiusEarth * radiusEarth * radiusEarth)
}
