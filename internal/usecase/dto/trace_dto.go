package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// TracePointInput is one raw GPS reading from a boundary walk.
type TracePointInput struct {
	Lat        float64    `json:"lat" validate:"required,min=-90,max=90"`
	Lng        float64    `json:"lng" validate:"required,min=-180,max=180"`
	Accuracy   *float64   `json:"accuracy,omitempty" validate:"omitempty,min=0"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// ProcessTraceRequest converts a recorded walk into a farm boundary.
// Apply controls persistence: when false the trace is scored and converted
// but nothing is stored, letting clients preview before committing.
type ProcessTraceRequest struct {
	Points []TracePointInput `json:"points" validate:"required,min=4,max=10000,dive"`
	Smooth *bool             `json:"smooth,omitempty"`
	Apply  bool              `json:"apply"`
}

// ProcessTraceResponse reports quality scoring and the resulting boundary.
type ProcessTraceResponse struct {
	FarmID         uuid.UUID            `json:"farm_id"`
	Accepted       bool                 `json:"accepted"`
	Applied        bool                 `json:"applied"`
	Quality        domain.TraceQuality  `json:"quality"`
	Area           domain.AreaBreakdown `json:"area"`
	RawPoints      int                  `json:"raw_points"`
	BoundaryPoints int                  `json:"boundary_points"`
	Smoothed       bool                 `json:"smoothed"`
	GeoJSON        json.RawMessage      `json:"geojson,omitempty"`
}
