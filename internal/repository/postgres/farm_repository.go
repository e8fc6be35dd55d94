package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
)

type farmRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFarmRepository creates a FarmRepository backed by PostGIS. Boundaries are
// stored as geography, so all spatial measurements are in meters.
func NewFarmRepository(db *DB) repository.FarmRepository {
	return &farmRepository{
		db:     db,
		logger: db.logger,
	}
}

func (r *farmRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	query := `
		SELECT
			id, farm_code, size_acres, size_hectares,
			COALESCE(county, ''), COALESCE(sub_county, ''), COALESCE(ward, ''),
			COALESCE(boundary_source, ''), boundary_accuracy_m,
			satellite_verified, verification_confidence, last_verified,
			is_active, created_at, updated_at,
			ST_Y(center::geometry) AS center_lat,
			ST_X(center::geometry) AS center_lng,
			ST_AsGeoJSON(boundary::geometry) AS boundary_json,
			gps_trace
		FROM farms
		WHERE id = $1
	`

	var farm domain.Farm
	var centerLat, centerLng sql.NullFloat64
	var boundaryJSON sql.NullString
	var trace []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&farm.ID, &farm.FarmCode, &farm.SizeAcres, &farm.SizeHectares,
		&farm.County, &farm.SubCounty, &farm.Ward,
		&farm.BoundarySource, &farm.BoundaryAccuracyMeters,
		&farm.SatelliteVerified, &farm.VerificationConfidence, &farm.LastVerified,
		&farm.IsActive, &farm.CreatedAt, &farm.UpdatedAt,
		&centerLat, &centerLng,
		&boundaryJSON, &trace,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrFarmNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get farm by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if centerLat.Valid && centerLng.Valid {
		farm.Center = domain.LatLng{Lat: centerLat.Float64, Lng: centerLng.Float64}
	}
	if boundaryJSON.Valid {
		poly, err := parsePolygonJSON(boundaryJSON.String)
		if err != nil {
			r.logger.Error("Failed to parse stored boundary", zap.String("id", id.String()), zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		farm.Boundary = poly
	}
	if len(trace) > 0 {
		if err := json.Unmarshal(trace, &farm.GPSTrace); err != nil {
			r.logger.Warn("Failed to parse stored gps trace", zap.String("id", id.String()), zap.Error(err))
		}
	}

	return &farm, nil
}

func (r *farmRepository) GetBoundaryPoints(ctx context.Context, farmID uuid.UUID) ([]*domain.BoundaryPoint, error) {
	query := `
		SELECT id, farm_id, sequence, lat, lng, altitude, accuracy, recorded_at, created_at
		FROM farm_boundary_points
		WHERE farm_id = $1
		ORDER BY sequence
	`

	points := []*domain.BoundaryPoint{}
	if err := r.db.SelectContext(ctx, &points, query, farmID); err != nil {
		r.logger.Error("Failed to get boundary points", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return points, nil
}

func (r *farmRepository) ReplaceBoundary(
	ctx context.Context,
	farm *domain.Farm,
	points []domain.BoundaryPointInput,
) ([]*domain.BoundaryPoint, error) {
	boundaryJSON, err := json.Marshal(geojson.NewGeometry(farm.Boundary))
	if err != nil {
		return nil, errors.ErrInternalServer.WithReason(err.Error())
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE farms
		SET boundary = ST_GeomFromGeoJSON($2)::geography,
			center = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
			size_acres = $5,
			size_hectares = $6,
			boundary_source = $7,
			updated_at = now()
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, updateQuery,
		farm.ID, string(boundaryJSON),
		farm.Center.Lng, farm.Center.Lat,
		farm.SizeAcres, farm.SizeHectares, farm.BoundarySource,
	)
	if err != nil {
		r.logger.Error("Failed to update farm boundary", zap.String("farm_id", farm.ID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, errors.ErrFarmNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM farm_boundary_points WHERE farm_id = $1`, farm.ID); err != nil {
		r.logger.Error("Failed to delete old boundary points", zap.String("farm_id", farm.ID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	insertQuery := `
		INSERT INTO farm_boundary_points (farm_id, sequence, lat, lng, altitude, accuracy, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, farm_id, sequence, lat, lng, altitude, accuracy, recorded_at, created_at
	`
	inserted := make([]*domain.BoundaryPoint, 0, len(points))
	for i, p := range points {
		var point domain.BoundaryPoint
		err := tx.QueryRowxContext(ctx, insertQuery,
			farm.ID, i, p.Lat, p.Lng, p.Altitude, p.Accuracy, p.RecordedAt,
		).StructScan(&point)
		if err != nil {
			r.logger.Error("Failed to insert boundary point",
				zap.String("farm_id", farm.ID.String()),
				zap.Int("sequence", i),
				zap.Error(err),
			)
			return nil, errors.ErrDatabaseError
		}
		inserted = append(inserted, &point)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit boundary replacement", zap.String("farm_id", farm.ID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return inserted, nil
}

func (r *farmRepository) SaveGPSTrace(ctx context.Context, farmID uuid.UUID, trace []domain.TracePoint) error {
	data, err := json.Marshal(trace)
	if err != nil {
		return errors.ErrInternalServer.WithReason(err.Error())
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE farms SET gps_trace = $2, updated_at = now() WHERE id = $1`,
		farmID, data,
	)
	if err != nil {
		r.logger.Error("Failed to save gps trace", zap.String("farm_id", farmID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.ErrFarmNotFound
	}
	return nil
}

func (r *farmRepository) BufferBoundary(ctx context.Context, farmID uuid.UUID, distanceMeters float64) (orb.Polygon, error) {
	query := `
		SELECT ST_AsGeoJSON(ST_Buffer(boundary, $2)::geometry)
		FROM farms
		WHERE id = $1 AND boundary IS NOT NULL
	`

	var bufferedJSON string
	err := r.db.QueryRowContext(ctx, query, farmID, distanceMeters).Scan(&bufferedJSON)
	if err == sql.ErrNoRows {
		return nil, errors.ErrFarmNotFound
	}
	if err != nil {
		r.logger.Error("Failed to buffer boundary", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	poly, err := parsePolygonJSON(bufferedJSON)
	if err != nil {
		r.logger.Error("Failed to parse buffered boundary", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return poly, nil
}

// FindOverlapping prefilters by center distance before computing actual
// intersections, so the expensive geometry work only runs on plausible
// neighbors.
func (r *farmRepository) FindOverlapping(
	ctx context.Context,
	farmID uuid.UUID,
	radiusKm float64,
	excludeIDs []uuid.UUID,
) ([]*domain.FarmOverlap, error) {
	query := `
		SELECT
			f2.id AS farm_id,
			f2.farm_code,
			ST_Area(ST_Intersection(f1.boundary, f2.boundary)) AS overlap_sq_meters,
			ST_Area(ST_Intersection(f1.boundary, f2.boundary))
				/ NULLIF(ST_Area(f1.boundary), 0) * 100 AS overlap_percentage
		FROM farms f1
		JOIN farms f2 ON f2.id <> f1.id
		WHERE f1.id = $1
			AND f1.boundary IS NOT NULL
			AND f2.boundary IS NOT NULL
			AND f2.is_active = true
			AND ST_DWithin(f1.center, f2.center, $2)
			AND ST_Intersects(f1.boundary, f2.boundary)
			AND ($3::uuid[] IS NULL OR NOT (f2.id = ANY($3::uuid[])))
		ORDER BY overlap_sq_meters DESC
	`

	var excludes interface{}
	if len(excludeIDs) > 0 {
		excludes = pq.Array(excludeIDs)
	}

	overlaps := []*domain.FarmOverlap{}
	if err := r.db.SelectContext(ctx, &overlaps, query, farmID, radiusKm*1000, excludes); err != nil {
		r.logger.Error("Failed to find overlapping farms", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return overlaps, nil
}

func (r *farmRepository) UpdateVerification(
	ctx context.Context,
	farmID uuid.UUID,
	verified bool,
	confidence float64,
) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE farms
		SET satellite_verified = $2,
			verification_confidence = $3,
			last_verified = now(),
			updated_at = now()
		WHERE id = $1
	`, farmID, verified, confidence)
	if err != nil {
		r.logger.Error("Failed to update verification", zap.String("farm_id", farmID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.ErrFarmNotFound
	}
	return nil
}

func parsePolygonJSON(data string) (orb.Polygon, error) {
	geom, err := geojson.UnmarshalGeometry([]byte(data))
	if err != nil {
		return nil, err
	}
	poly, ok := geom.Geometry().(orb.Polygon)
	if !ok {
		return nil, errors.ErrInvalidGeometry
	}
	return poly, nil
}
