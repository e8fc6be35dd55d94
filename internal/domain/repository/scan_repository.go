package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// ScanRepository persists immutable satellite scan records.
type ScanRepository interface {
	// CreateScan inserts a new scan record. Records are never updated.
	CreateScan(ctx context.Context, scan *domain.SatelliteScan) error

	// GetLatestScan returns the most recent scan for a farm.
	GetLatestScan(ctx context.Context, farmID uuid.UUID) (*domain.SatelliteScan, error)

	// ListScans returns scan history, newest first.
	ListScans(ctx context.Context, farmID uuid.UUID, limit int) ([]*domain.SatelliteScan, error)

	// CreateNDVIRecord appends one vegetation-index history entry.
	CreateNDVIRecord(ctx context.Context, record *domain.NDVIRecord) error
}
