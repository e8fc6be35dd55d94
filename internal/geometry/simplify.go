package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// DefaultSmoothingToleranceMeters is the smoothing tolerance applied to noisy
// GPS traces before they become boundaries.
const DefaultSmoothingToleranceMeters = 5.0

// Simplify reduces vertex count with Douglas-Peucker at the given tolerance in
// degrees. If simplification breaks the polygon, the original is returned and
// the second result is false.
func Simplify(p orb.Polygon, toleranceDegrees float64) (orb.Polygon, bool) {
	simplified := simplify.DouglasPeucker(toleranceDegrees).Polygon(p.Clone())
	if !IsValid(simplified) {
		return p, false
	}
	return simplified, true
}

// Smooth simplifies with a metric tolerance, converted through the
// equirectangular approximation.
func Smooth(p orb.Polygon, toleranceMeters float64) (orb.Polygon, bool) {
	return Simplify(p, toleranceMeters/MetersPerDegree)
}
