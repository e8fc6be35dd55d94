package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

func bowtie() []domain.LatLng {
	return []domain.LatLng{
		{Lat: 0, Lng: 36},
		{Lat: 0.001, Lng: 36.001},
		{Lat: 0, Lng: 36.001},
		{Lat: 0.001, Lng: 36},
	}
}

func TestPolygonFromLatLngs_ClosesRing(t *testing.T) {
	poly := PolygonFromLatLngs(squareAtEquator(100))

	assert.Len(t, poly, 1)
	assert.Equal(t, 5, VertexCount(poly))
	assert.Equal(t, poly[0][0], poly[0][len(poly[0])-1])
}

func TestIsValid_Square(t *testing.T) {
	assert.True(t, IsValid(PolygonFromLatLngs(squareAtEquator(100))))
}

func TestIsValid_Bowtie(t *testing.T) {
	poly := PolygonFromLatLngs(bowtie())

	assert.False(t, IsSimple(poly))
	assert.False(t, IsValid(poly))
}

func TestIsValid_DegeneratePolygon(t *testing.T) {
	// Collapsed to a line, zero area.
	poly := PolygonFromLatLngs([]domain.LatLng{
		{Lat: 0, Lng: 36},
		{Lat: 0.001, Lng: 36},
		{Lat: 0.002, Lng: 36},
	})

	assert.False(t, IsValid(poly))
}

func TestIsSimple_DuplicatePointsTolerated(t *testing.T) {
	points := squareAtEquator(100)
	withDup := append(points[:2:2], points[1:]...)

	assert.True(t, IsSimple(PolygonFromLatLngs(withDup)))
}

func TestCentroid_Square(t *testing.T) {
	d := 100.0 / MetersPerDegree
	center := Centroid(PolygonFromLatLngs(squareAtEquator(100)))

	assert.InDelta(t, 36+d/2, center[0], 1e-9)
	assert.InDelta(t, d/2, center[1], 1e-9)
}

func TestBoundingBox_Square(t *testing.T) {
	box := BoundingBox(PolygonFromLatLngs(squareAtEquator(100)))

	assert.InDelta(t, 36.0, box.MinLon, 1e-9)
	assert.InDelta(t, 0.0, box.MinLat, 1e-9)
	assert.InEpsilon(t, 100.0, box.WidthMeters, 0.05)
	assert.InEpsilon(t, 100.0, box.HeightMeters, 0.05)
}

func TestShapeComplexity_Circle(t *testing.T) {
	ring := make([]domain.LatLng, 0, 36)
	radius := 100.0 / MetersPerDegree
	for i := 0; i < 36; i++ {
		angle := float64(i) * 10 * math.Pi / 180
		ring = append(ring, domain.LatLng{
			Lat: radius * math.Sin(angle),
			Lng: 36 + radius*math.Cos(angle),
		})
	}

	complexity := ShapeComplexity(PolygonFromLatLngs(ring))

	assert.InDelta(t, 1.0, complexity, 0.1)
}

func TestShapeComplexity_SquareAboveCircle(t *testing.T) {
	complexity := ShapeComplexity(PolygonFromLatLngs(squareAtEquator(100)))

	assert.Greater(t, complexity, 1.0)
	assert.Less(t, complexity, 1.3)
}

func TestShapeComplexity_ZeroArea(t *testing.T) {
	poly := PolygonFromLatLngs([]domain.LatLng{
		{Lat: 0, Lng: 36},
		{Lat: 0.001, Lng: 36},
		{Lat: 0.002, Lng: 36},
	})

	assert.Zero(t, ShapeComplexity(poly))
}

func TestDetectAnomalies_CleanSquare(t *testing.T) {
	report := DetectAnomalies(PolygonFromLatLngs(squareAtEquator(100)))

	assert.False(t, report.HasAnomalies)
	assert.Zero(t, report.AnomalyCount)
	assert.Empty(t, report.Anomalies)
}

func TestDetectAnomalies_BowtieReportsAllFindings(t *testing.T) {
	report := DetectAnomalies(PolygonFromLatLngs(bowtie()))

	assert.True(t, report.HasAnomalies)

	types := make(map[string]string)
	for _, a := range report.Anomalies {
		types[a.Type] = a.Severity
	}
	assert.Equal(t, domain.SeverityHigh, types[domain.AnomalyInvalidPolygon])
	assert.Equal(t, domain.SeverityHigh, types[domain.AnomalySelfIntersection])
}

func TestDetectAnomalies_TinyArea(t *testing.T) {
	report := DetectAnomalies(PolygonFromLatLngs(squareAtEquator(5)))

	assert.True(t, report.HasAnomalies)

	var found bool
	for _, a := range report.Anomalies {
		if a.Type == domain.AnomalySizeAnomaly {
			found = true
			assert.Equal(t, domain.SeverityHigh, a.Severity)
		}
	}
	assert.True(t, found)
}

func TestSimplify_ReducesVertices(t *testing.T) {
	// Dense square with redundant collinear points on each edge.
	d := 100.0 / MetersPerDegree
	ring := make([]domain.LatLng, 0, 40)
	for i := 0; i <= 10; i++ {
		ring = append(ring, domain.LatLng{Lat: 0, Lng: 36 + d*float64(i)/10})
	}
	for i := 1; i <= 10; i++ {
		ring = append(ring, domain.LatLng{Lat: d * float64(i) / 10, Lng: 36 + d})
	}
	for i := 1; i <= 10; i++ {
		ring = append(ring, domain.LatLng{Lat: d, Lng: 36 + d - d*float64(i)/10})
	}
	for i := 1; i < 10; i++ {
		ring = append(ring, domain.LatLng{Lat: d - d*float64(i)/10, Lng: 36})
	}
	poly := PolygonFromLatLngs(ring)

	simplified, ok := Smooth(poly, DefaultSmoothingToleranceMeters)

	assert.True(t, ok)
	assert.Less(t, VertexCount(simplified), VertexCount(poly))
	assert.True(t, IsValid(simplified))
	assert.InEpsilon(t, PolygonArea(poly).SquareMeters, PolygonArea(simplified).SquareMeters, 0.05)
}

func TestSimplify_KeepsOriginalOnFailure(t *testing.T) {
	poly := PolygonFromLatLngs(squareAtEquator(100))

	// A tolerance far wider than the shape collapses the ring, so the
	// original polygon must come back untouched.
	result, ok := Simplify(poly, 1.0)

	assert.False(t, ok)
	assert.Equal(t, poly, result)
}
