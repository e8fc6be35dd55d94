package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// PointInput is one boundary vertex as submitted by a client.
type PointInput struct {
	Lat        float64    `json:"lat" validate:"required,min=-90,max=90"`
	Lng        float64    `json:"lng" validate:"required,min=-180,max=180"`
	Altitude   *float64   `json:"altitude,omitempty"`
	Accuracy   *float64   `json:"accuracy,omitempty" validate:"omitempty,min=0"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// CreateBoundaryRequest establishes or replaces a farm boundary from an
// ordered list of vertices.
type CreateBoundaryRequest struct {
	Points []PointInput `json:"points" validate:"required,min=3,max=1000,dive"`
	Source string       `json:"source" validate:"omitempty,oneof=manual gps_trace geojson"`
}

// GeoJSONBoundaryRequest establishes a boundary from a GeoJSON Polygon
// feature or geometry.
type GeoJSONBoundaryRequest struct {
	GeoJSON json.RawMessage `json:"geojson" validate:"required"`
}

// AreaRequest is a stateless area computation over raw points.
type AreaRequest struct {
	Points []PointInput `json:"points" validate:"required,min=3,dive"`
}

// SimplifyRequest reduces boundary vertex count.
type SimplifyRequest struct {
	ToleranceMeters float64 `json:"tolerance_meters" validate:"omitempty,min=0.1,max=1000"`
}

// BufferRequest grows or shrinks a boundary by a metric distance.
type BufferRequest struct {
	DistanceMeters float64 `json:"distance_meters" validate:"required,min=-1000,max=1000"`
}

// BoundaryResponse is the full derived-geometry report returned whenever a
// boundary is created or fetched.
type BoundaryResponse struct {
	FarmID      uuid.UUID               `json:"farm_id"`
	Source      string                  `json:"source"`
	VertexCount int                     `json:"vertex_count"`
	Area        domain.AreaBreakdown    `json:"area"`
	PerimeterM  float64                 `json:"perimeter_meters"`
	Complexity  float64                 `json:"shape_complexity"`
	Center      domain.LatLng           `json:"center"`
	BoundingBox domain.BoundingBox      `json:"bounding_box"`
	Validation  domain.ValidationResult `json:"validation"`
	Anomalies   domain.AnomalyReport    `json:"anomalies"`
	Overlaps    *domain.OverlapReport   `json:"overlaps,omitempty"`
}

// ValidationResponse reports point-set validation without persisting anything.
type ValidationResponse struct {
	Validation domain.ValidationResult `json:"validation"`
	Anomalies  *domain.AnomalyReport   `json:"anomalies,omitempty"`
}

// AreaResponse is a stateless area computation result.
type AreaResponse struct {
	Area       domain.AreaBreakdown `json:"area"`
	PerimeterM float64              `json:"perimeter_meters"`
	Complexity float64              `json:"shape_complexity"`
}

// SimplifyResponse reports the outcome of a simplification pass.
type SimplifyResponse struct {
	FarmID          uuid.UUID       `json:"farm_id"`
	Simplified      bool            `json:"simplified"`
	OriginalPoints  int             `json:"original_points"`
	ResultingPoints int             `json:"resulting_points"`
	GeoJSON         json.RawMessage `json:"geojson"`
}

// BufferResponse carries the buffered geometry and its resulting area.
type BufferResponse struct {
	FarmID         uuid.UUID            `json:"farm_id"`
	DistanceMeters float64              `json:"distance_meters"`
	Area           domain.AreaBreakdown `json:"area"`
	GeoJSON        json.RawMessage      `json:"geojson"`
}

// DistanceResponse is the center-to-center distance between two farms.
type DistanceResponse struct {
	FromFarmID uuid.UUID       `json:"from_farm_id"`
	ToFarmID   uuid.UUID       `json:"to_farm_id"`
	Distance   domain.Distance `json:"distance"`
}

// VerticesResponse lists the persisted boundary vertices in walk order.
type VerticesResponse struct {
	FarmID uuid.UUID               `json:"farm_id"`
	Total  int                     `json:"total"`
	Points []*domain.BoundaryPoint `json:"points"`
}
