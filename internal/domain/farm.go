package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Boundary source values.
const (
	BoundarySourceManual   = "manual"
	BoundarySourceGPSTrace = "gps_trace"
	BoundarySourceGeoJSON  = "geojson"
)

// Farm is the aggregate root owning a closed boundary polygon, its derived
// center and declared area. SizeAcres and SizeHectares are consistent
// conversions of the polygon area at the time the boundary was established;
// they are only recomputed when the boundary is explicitly replaced.
type Farm struct {
	ID                     uuid.UUID    `json:"id" db:"id"`
	FarmCode               string       `json:"farm_code" db:"farm_code"`
	Boundary               orb.Polygon  `json:"-" db:"-"`
	Center                 LatLng       `json:"center" db:"-"`
	SizeAcres              float64      `json:"size_acres" db:"size_acres"`
	SizeHectares           float64      `json:"size_hectares" db:"size_hectares"`
	County                 string       `json:"county" db:"county"`
	SubCounty              string       `json:"sub_county" db:"sub_county"`
	Ward                   string       `json:"ward" db:"ward"`
	BoundarySource         string       `json:"boundary_source" db:"boundary_source"`
	BoundaryAccuracyMeters *float64     `json:"boundary_accuracy_meters" db:"boundary_accuracy_m"`
	SatelliteVerified      bool         `json:"satellite_verified" db:"satellite_verified"`
	VerificationConfidence *float64     `json:"verification_confidence" db:"verification_confidence"`
	LastVerified           *time.Time   `json:"last_verified" db:"last_verified"`
	GPSTrace               []TracePoint `json:"-" db:"-"`
	IsActive               bool         `json:"is_active" db:"is_active"`
	CreatedAt              time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at" db:"updated_at"`
}

// HasBoundary reports whether a boundary polygon has been established.
func (f *Farm) HasBoundary() bool {
	return len(f.Boundary) > 0 && len(f.Boundary[0]) >= 4
}

// BoundaryPoint is one persisted vertex of a farm boundary. Points are created
// in bulk when a boundary is established and never mutated individually; a
// boundary edit replaces the full set.
type BoundaryPoint struct {
	ID         int64      `json:"id" db:"id"`
	FarmID     uuid.UUID  `json:"farm_id" db:"farm_id"`
	Sequence   int        `json:"sequence" db:"sequence"`
	Lat        float64    `json:"lat" db:"lat"`
	Lng        float64    `json:"lng" db:"lng"`
	Altitude   *float64   `json:"altitude,omitempty" db:"altitude"`
	Accuracy   *float64   `json:"accuracy,omitempty" db:"accuracy"`
	RecordedAt *time.Time `json:"recorded_at,omitempty" db:"recorded_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// BoundaryPointInput is a client-submitted boundary vertex, prior to validation.
type BoundaryPointInput struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Altitude   *float64   `json:"altitude,omitempty"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// BoundaryAccuracy aggregates the optional per-point GPS accuracy metadata.
type BoundaryAccuracy struct {
	HasAccuracyData bool     `json:"has_accuracy_data"`
	AverageAccuracy *float64 `json:"average_accuracy"`
	MaxAccuracy     *float64 `json:"max_accuracy"`
	MinAccuracy     *float64 `json:"min_accuracy"`
	PointsWithData  int      `json:"points_with_data"`
	TotalPoints     int      `json:"total_points"`
}

// FarmOverlap describes one actual boundary overlap with a neighboring farm.
type FarmOverlap struct {
	FarmID            uuid.UUID `json:"farm_id" db:"farm_id"`
	FarmCode          string    `json:"farm_code" db:"farm_code"`
	OverlapSqMeters   float64   `json:"overlap_area_sq_meters" db:"overlap_sq_meters"`
	OverlapPercentage float64   `json:"overlap_percentage" db:"overlap_percentage"`
}

// OverlapReport is advisory: farm creation is never blocked on overlap, the
// report is surfaced to risk subsystems.
type OverlapReport struct {
	HasOverlaps  bool          `json:"has_overlaps"`
	OverlapCount int           `json:"overlap_count"`
	Overlaps     []FarmOverlap `json:"overlaps"`
}
