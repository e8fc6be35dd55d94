package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
)

// Unit conversion factors.
const (
	SqMetersToAcres    = 0.000247105
	SqMetersToHectares = 0.0001
	AcresPerHectare    = 2.47105
	HectaresPerAcre    = 0.404686
)

// Plausible farm size range in acres. The validation gate rejects boundaries
// whose computed size falls outside it; anomaly detection reports the same
// range violation on already stored polygons.
const (
	MinPlausibleAcres = 0.1
	MaxPlausibleAcres = 1000.0
)

// PolygonArea computes the geodesic area of a polygon in all three units the
// service reports. Winding order does not matter.
func PolygonArea(p orb.Polygon) domain.AreaBreakdown {
	sqMeters := math.Abs(geo.Area(p))
	return domain.AreaBreakdown{
		SquareMeters: utils.Round2(sqMeters),
		Acres:        utils.Round2(sqMeters * SqMetersToAcres),
		Hectares:     utils.Round2(sqMeters * SqMetersToHectares),
	}
}

// AreaFromLatLngs builds a polygon from raw points and computes its area.
// The ring is closed automatically.
func AreaFromLatLngs(points []domain.LatLng) (domain.AreaBreakdown, error) {
	if len(points) < 3 {
		return domain.AreaBreakdown{}, errors.ErrInvalidBoundary.WithReason("at least 3 points are required")
	}
	return PolygonArea(PolygonFromLatLngs(points)), nil
}

// Perimeter returns the geodesic perimeter of the polygon in meters.
func Perimeter(p orb.Polygon) float64 {
	return utils.Round2(geo.Length(p))
}

// AcresToHectares converts acres to hectares, rounded to 2 decimals.
func AcresToHectares(acres float64) float64 {
	return utils.Round2(acres * HectaresPerAcre)
}

// HectaresToAcres converts hectares to acres, rounded to 2 decimals.
func HectaresToAcres(hectares float64) float64 {
	return utils.Round2(hectares * AcresPerHectare)
}

// SqMetersToAcresValue converts square meters to acres, rounded to 2 decimals.
func SqMetersToAcresValue(sqMeters float64) float64 {
	return utils.Round2(sqMeters * SqMetersToAcres)
}

// SqMetersToHectaresValue converts square meters to hectares, rounded to 2
// decimals.
func SqMetersToHectaresValue(sqMeters float64) float64 {
	return utils.Round2(sqMeters * SqMetersToHectares)
}

// ValidateFarmSize checks a computed or declared size against the plausible
// range. Callers decide the severity: the validation gate treats a failure as
// a hard error, anomaly detection as a finding.
func ValidateFarmSize(acres float64) bool {
	return acres >= MinPlausibleAcres && acres <= MaxPlausibleAcres
}

// ReconcileSizes compares a declared size with a satellite measured size.
// The difference is signed relative to the declared value, so a positive
// percentage means satellite measured more land than declared.
func ReconcileSizes(declaredAcres, measuredAcres, tolerance float64) domain.SizeReconciliation {
	if declaredAcres == 0 {
		return domain.SizeReconciliation{Matches: false, DifferencePercent: 0}
	}
	diff := (measuredAcres - declaredAcres) / declaredAcres
	return domain.SizeReconciliation{
		Matches:           math.Abs(diff) <= tolerance,
		DifferencePercent: utils.Round2(diff * 100),
	}
}
