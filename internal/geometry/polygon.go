// Package geometry holds the pure geometric core of the boundary service:
// polygon construction, geodesic area and perimeter, validity predicates,
// anomaly detection, topology-preserving simplification and GPS trace quality
// scoring. Nothing in this package performs I/O.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
)

// MetersPerDegree is the equirectangular approximation used to convert metric
// tolerances to degree tolerances. Valid near the equator, which covers the
// deployment region; east-west distortion grows at higher latitudes.
const MetersPerDegree = 111000.0

// RingFromLatLngs builds a closed ring from client points, converting to the
// (lng, lat) order geometry libraries expect and closing the ring if the first
// and last points differ.
func RingFromLatLngs(points []domain.LatLng) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// PolygonFromLatLngs builds a single-ring polygon, closing the ring if needed.
// It performs no validation; callers are expected to run ValidatePoints first.
func PolygonFromLatLngs(points []domain.LatLng) orb.Polygon {
	return orb.Polygon{RingFromLatLngs(points)}
}

// PolygonFromRing closes the given (lng, lat) coordinate sequence if needed
// and wraps it in a polygon.
func PolygonFromRing(coords []orb.Point) orb.Polygon {
	ring := make(orb.Ring, 0, len(coords)+1)
	ring = append(ring, coords...)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// VertexCount returns the number of coordinates in the outer ring, including
// the closing point.
func VertexCount(p orb.Polygon) int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// IsValid reports whether the polygon is usable for area computation: a
// closed outer ring of at least 4 coordinates, nonzero area and no
// self-intersections.
func IsValid(p orb.Polygon) bool {
	if len(p) == 0 {
		return false
	}
	ring := p[0]
	if len(ring) < 4 || !ring.Closed() {
		return false
	}
	if math.Abs(geo.Area(p)) == 0 {
		return false
	}
	return IsSimple(p)
}

// IsSimple reports whether no two non-adjacent edges of the outer ring cross.
// Kept as a separate predicate from IsValid because callers report
// self-intersection and general invalidity as distinct findings.
func IsSimple(p orb.Polygon) bool {
	if len(p) == 0 {
		return false
	}
	ring := p[0]
	n := len(ring) - 1 // number of edges in a closed ring
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[i+1]
		if a1 == a2 {
			continue // zero-length edge from a duplicate point
		}
		for j := i + 2; j < n; j++ {
			// The last edge is adjacent to the first through the closure point.
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := ring[j], ring[j+1]
			if b1 == b2 {
				continue
			}
			if segmentsCross(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// segmentsCross tests proper and collinear-overlap intersection of two
// segments that do not share endpoints.
func segmentsCross(p1, p2, p3, p4 orb.Point) bool {
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

func direction(p1, p2, p3 orb.Point) float64 {
	return (p3[0]-p1[0])*(p2[1]-p1[1]) - (p2[0]-p1[0])*(p3[1]-p1[1])
}

func onSegment(p, r, q orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

// Centroid returns the polygon's center point.
func Centroid(p orb.Polygon) orb.Point {
	center, _ := planar.CentroidArea(p)
	return center
}

// BoundingBox returns the polygon extent with true metric width and height
// measured along the envelope's south and west edges.
func BoundingBox(p orb.Polygon) domain.BoundingBox {
	bound := p.Bound()

	sw := orb.Point{bound.Min[0], bound.Min[1]}
	se := orb.Point{bound.Max[0], bound.Min[1]}
	nw := orb.Point{bound.Min[0], bound.Max[1]}

	return domain.BoundingBox{
		MinLon:       bound.Min[0],
		MinLat:       bound.Min[1],
		MaxLon:       bound.Max[0],
		MaxLat:       bound.Max[1],
		WidthMeters:  utils.Round2(geo.Distance(sw, se)),
		HeightMeters: utils.Round2(geo.Distance(sw, nw)),
	}
}
