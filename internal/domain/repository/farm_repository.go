package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// FarmRepository persists farms and their boundary point sets.
type FarmRepository interface {
	// GetByID returns the farm with its boundary polygon.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error)

	// GetBoundaryPoints returns the ordered vertex set for a farm.
	GetBoundaryPoints(ctx context.Context, farmID uuid.UUID) ([]*domain.BoundaryPoint, error)

	// ReplaceBoundary atomically deletes the previous point set, inserts the
	// new ordered points and updates the farm's polygon, center and declared
	// areas. A half-written boundary must never be visible to readers.
	ReplaceBoundary(
		ctx context.Context,
		farm *domain.Farm,
		points []domain.BoundaryPointInput,
	) ([]*domain.BoundaryPoint, error)

	// SaveGPSTrace stores the raw trace on the farm for audit.
	SaveGPSTrace(ctx context.Context, farmID uuid.UUID, trace []domain.TracePoint) error

	// BufferBoundary returns the farm boundary expanded (or shrunk, for a
	// negative distance) by the given metric distance.
	BufferBoundary(ctx context.Context, farmID uuid.UUID, distanceMeters float64) (orb.Polygon, error)

	// FindOverlapping returns actual boundary overlaps among active farms
	// whose center lies within radiusKm of the given farm's center.
	FindOverlapping(
		ctx context.Context,
		farmID uuid.UUID,
		radiusKm float64,
		excludeIDs []uuid.UUID,
	) ([]*domain.FarmOverlap, error)

	// UpdateVerification writes the verification status fields after a scan.
	UpdateVerification(
		ctx context.Context,
		farmID uuid.UUID,
		verified bool,
		confidence float64,
	) error
}
