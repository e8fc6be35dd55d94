package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
)

type scanRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewScanRepository creates a ScanRepository. Scan rows are append-only.
func NewScanRepository(db *DB) repository.ScanRepository {
	return &scanRepository{
		db:     db,
		logger: db.logger,
	}
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *domain.SatelliteScan) error {
	query := `
		INSERT INTO satellite_scans (
			scan_id, farm_id, verified_size_acres, matches_declared_size,
			size_difference_pct, cloud_cover_pct, ndvi, data_quality_score,
			status, error, acquisition_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		scan.ScanID, scan.FarmID, scan.VerifiedSizeAcres, scan.MatchesDeclaredSize,
		scan.SizeDifferencePct, scan.CloudCoverPct, scan.NDVI, scan.DataQualityScore,
		scan.Status, scan.Error, scan.AcquisitionDate,
	).Scan(&scan.ID, &scan.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create satellite scan",
			zap.String("scan_id", scan.ScanID),
			zap.String("farm_id", scan.FarmID.String()),
			zap.Error(err),
		)
		return errors.ErrDatabaseError
	}
	return nil
}

func (r *scanRepository) GetLatestScan(ctx context.Context, farmID uuid.UUID) (*domain.SatelliteScan, error) {
	query := `
		SELECT id, scan_id, farm_id, verified_size_acres, matches_declared_size,
			size_difference_pct, cloud_cover_pct, ndvi, data_quality_score,
			status, error, acquisition_date, created_at
		FROM satellite_scans
		WHERE farm_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var scan domain.SatelliteScan
	err := r.db.GetContext(ctx, &scan, query, farmID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrScanNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get latest scan", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &scan, nil
}

func (r *scanRepository) ListScans(ctx context.Context, farmID uuid.UUID, limit int) ([]*domain.SatelliteScan, error) {
	query := `
		SELECT id, scan_id, farm_id, verified_size_acres, matches_declared_size,
			size_difference_pct, cloud_cover_pct, ndvi, data_quality_score,
			status, error, acquisition_date, created_at
		FROM satellite_scans
		WHERE farm_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	scans := []*domain.SatelliteScan{}
	if err := r.db.SelectContext(ctx, &scans, query, farmID, limit); err != nil {
		r.logger.Error("Failed to list scans", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return scans, nil
}

func (r *scanRepository) CreateNDVIRecord(ctx context.Context, record *domain.NDVIRecord) error {
	query := `
		INSERT INTO ndvi_history (farm_id, date, ndvi_value, scan_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		record.FarmID, record.Date, record.NDVI, record.ScanID,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create NDVI record",
			zap.String("farm_id", record.FarmID.String()),
			zap.String("scan_id", record.ScanID),
			zap.Error(err),
		)
		return errors.ErrDatabaseError
	}
	return nil
}
