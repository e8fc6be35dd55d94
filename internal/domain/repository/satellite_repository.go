package repository

import (
	"context"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// AreaEstimator is the narrow interface to the external satellite analysis
// service: given a GeoJSON area of interest it returns an independent area
// measurement with per-scan signal quality.
type AreaEstimator interface {
	EstimateArea(ctx context.Context, aoi []byte) (*domain.AreaEstimate, error)
}
