package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
)

// Anomaly detection thresholds.
const (
	MinBoundaryVertices = 4
	MaxBoundaryVertices = 1000
	MaxShapeComplexity  = 5.0
)

// ShapeComplexity measures how far a shape deviates from a circle of the same
// area: perimeter / (2 * sqrt(pi * area)). A circle scores 1.0, a square about
// 1.13, long slivers score much higher. Returns 0 for degenerate polygons.
func ShapeComplexity(p orb.Polygon) float64 {
	area := math.Abs(geo.Area(p))
	if area == 0 {
		return 0
	}
	return utils.Round2(geo.Length(p) / (2 * math.Sqrt(math.Pi*area)))
}

// DetectAnomalies runs every shape check independently and reports all
// findings. No check short-circuits another, so a single bad boundary can
// surface several anomalies at once.
func DetectAnomalies(p orb.Polygon) domain.AnomalyReport {
	anomalies := []domain.Anomaly{}

	if !IsValid(p) {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyInvalidPolygon,
			Severity: domain.SeverityHigh,
			Message:  "boundary polygon is not a valid geometry",
		})
	}

	if !IsSimple(p) {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalySelfIntersection,
			Severity: domain.SeverityHigh,
			Message:  "boundary edges cross each other",
		})
	}

	vertices := VertexCount(p)
	if vertices < MinBoundaryVertices {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyTooFewPoints,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("boundary has only %d points, at least %d required", vertices, MinBoundaryVertices),
		})
	} else if vertices > MaxBoundaryVertices {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyTooManyPoints,
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("boundary has %d points, consider simplifying", vertices),
		})
	}

	if complexity := ShapeComplexity(p); complexity > MaxShapeComplexity {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalyIrregularShape,
			Severity: domain.SeverityMedium,
			Message:  fmt.Sprintf("shape complexity %.2f is unusually high for a farm boundary", complexity),
		})
	}

	if acres := PolygonArea(p).Acres; !ValidateFarmSize(acres) {
		anomalies = append(anomalies, domain.Anomaly{
			Type:     domain.AnomalySizeAnomaly,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("computed size %.2f acres is outside the plausible range %.1f-%.0f", acres, MinPlausibleAcres, MaxPlausibleAcres),
		})
	}

	return domain.AnomalyReport{
		HasAnomalies: len(anomalies) > 0,
		AnomalyCount: len(anomalies),
		Anomalies:    anomalies,
	}
}
