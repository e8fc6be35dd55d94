package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/config"
	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/geometry"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/pkg/utils"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// BoundaryUseCase owns boundary establishment and every derived-geometry
// read: area, validation, overlap, GeoJSON rendering, simplification.
type BoundaryUseCase struct {
	farmRepo  repository.FarmRepository
	cacheRepo repository.CacheRepository
	cfg       *config.Config
	logger    *zap.Logger
}

func NewBoundaryUseCase(
	farmRepo repository.FarmRepository,
	cacheRepo repository.CacheRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *BoundaryUseCase {
	return &BoundaryUseCase{
		farmRepo:  farmRepo,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

func geojsonCacheKey(farmID uuid.UUID) string {
	return fmt.Sprintf("farm:geojson:%s", farmID)
}

// ValidatePoints checks a candidate point set without persisting anything.
// Out-of-range coordinates, too few points, broken geometry and an
// implausible computed size are errors; duplicates, vertex-count extremes and
// points outside the operating region are warnings. Polygon construction is
// only attempted once the per-point checks pass.
func (uc *BoundaryUseCase) ValidatePoints(points []dto.PointInput) domain.ValidationResult {
	result := domain.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if len(points) < 3 {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("at least 3 points are required, got %d", len(points)))
		return result
	}

	for i, p := range points {
		if !utils.ValidateCoordinates(p.Lat, p.Lng) {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("point %d has invalid coordinates (%f, %f)", i, p.Lat, p.Lng))
		}
	}
	if !result.IsValid {
		return result
	}

	for i := 1; i < len(points); i++ {
		if points[i].Lat == points[i-1].Lat && points[i].Lng == points[i-1].Lng {
			result.Warnings = append(result.Warnings, fmt.Sprintf("points %d and %d are duplicates", i-1, i))
		}
	}

	outside := 0
	for _, p := range points {
		if !uc.IsWithinOperatingRegion(p.Lat, p.Lng) {
			outside++
		}
	}
	if outside > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d points fall outside the operating region", outside))
	}

	first, last := points[0], points[len(points)-1]
	if first.Lat != last.Lat || first.Lng != last.Lng {
		result.Warnings = append(result.Warnings, "boundary is not closed, the first point will be appended")
	}

	if len(points) > geometry.MaxBoundaryVertices {
		result.Warnings = append(result.Warnings, fmt.Sprintf("boundary has %d points and may be overly complex", len(points)))
	}

	latlngs := make([]domain.LatLng, 0, len(points))
	for _, p := range points {
		latlngs = append(latlngs, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
	}
	poly := geometry.PolygonFromLatLngs(latlngs)

	if !geometry.IsValid(poly) {
		result.IsValid = false
		result.Errors = append(result.Errors, "polygon geometry is invalid")
	}
	if !geometry.IsSimple(poly) {
		result.IsValid = false
		result.Errors = append(result.Errors, "boundary self-intersects")
	}

	area := geometry.PolygonArea(poly)
	if !geometry.ValidateFarmSize(area.Acres) {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"computed size %.2f acres is outside the plausible range (%.1f - %.0f acres)",
			area.Acres, geometry.MinPlausibleAcres, geometry.MaxPlausibleAcres,
		))
	}

	return result
}

// IsWithinOperatingRegion reports whether a coordinate falls inside the
// configured plausibility box.
func (uc *BoundaryUseCase) IsWithinOperatingRegion(lat, lng float64) bool {
	r := uc.cfg.Region
	return lat >= r.MinLat && lat <= r.MaxLat && lng >= r.MinLon && lng <= r.MaxLon
}

// CreateBoundary validates and persists a new boundary for the farm,
// replacing any previous one. Hard validation errors (broken geometry,
// implausible size) reject the request outright; shape anomalies and overlaps
// are reported but never block.
func (uc *BoundaryUseCase) CreateBoundary(
	ctx context.Context,
	farmID uuid.UUID,
	req dto.CreateBoundaryRequest,
) (*dto.BoundaryResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}

	validation := uc.ValidatePoints(req.Points)
	if !validation.IsValid {
		return nil, errors.ErrInvalidBoundary.WithErrors(validation.Errors)
	}

	latlngs := make([]domain.LatLng, 0, len(req.Points))
	inputs := make([]domain.BoundaryPointInput, 0, len(req.Points))
	for _, p := range req.Points {
		latlngs = append(latlngs, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
		inputs = append(inputs, domain.BoundaryPointInput{
			Lat:        p.Lat,
			Lng:        p.Lng,
			Altitude:   p.Altitude,
			Accuracy:   p.Accuracy,
			RecordedAt: p.RecordedAt,
		})
	}

	poly := geometry.PolygonFromLatLngs(latlngs)
	if !geometry.IsValid(poly) {
		return nil, errors.ErrInvalidGeometry.WithReason("points do not form a usable polygon")
	}

	area := geometry.PolygonArea(poly)
	center := geometry.Centroid(poly)

	farm.Boundary = poly
	farm.Center = domain.LatLng{Lat: center[1], Lng: center[0]}
	farm.SizeAcres = area.Acres
	farm.SizeHectares = area.Hectares
	farm.BoundarySource = req.Source
	if farm.BoundarySource == "" {
		farm.BoundarySource = domain.BoundarySourceManual
	}

	if _, err := uc.farmRepo.ReplaceBoundary(ctx, farm, inputs); err != nil {
		uc.logger.Error("Failed to replace boundary",
			zap.String("farm_id", farmID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	// Replacing a boundary invalidates its rendered GeoJSON.
	if err := uc.cacheRepo.Delete(ctx, geojsonCacheKey(farmID)); err != nil {
		uc.logger.Warn("Failed to invalidate geojson cache", zap.Error(err))
	}

	resp := uc.buildBoundaryResponse(farm, poly, validation)

	overlaps, err := uc.CheckOverlap(ctx, farmID)
	if err != nil {
		// Overlap reporting is advisory, boundary creation already succeeded.
		uc.logger.Warn("Failed to check overlaps",
			zap.String("farm_id", farmID.String()),
			zap.Error(err),
		)
	} else {
		resp.Overlaps = overlaps
	}

	return resp, nil
}

// GetBoundary returns the derived-geometry report for an existing boundary.
func (uc *BoundaryUseCase) GetBoundary(ctx context.Context, farmID uuid.UUID) (*dto.BoundaryResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !farm.HasBoundary() {
		return nil, errors.ErrInvalidBoundary.WithReason("farm has no boundary")
	}

	validation := domain.ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}
	return uc.buildBoundaryResponse(farm, farm.Boundary, validation), nil
}

func (uc *BoundaryUseCase) buildBoundaryResponse(
	farm *domain.Farm,
	poly orb.Polygon,
	validation domain.ValidationResult,
) *dto.BoundaryResponse {
	return &dto.BoundaryResponse{
		FarmID:      farm.ID,
		Source:      farm.BoundarySource,
		VertexCount: geometry.VertexCount(poly),
		Area:        geometry.PolygonArea(poly),
		PerimeterM:  geometry.Perimeter(poly),
		Complexity:  geometry.ShapeComplexity(poly),
		Center:      farm.Center,
		BoundingBox: geometry.BoundingBox(poly),
		Validation:  validation,
		Anomalies:   geometry.DetectAnomalies(poly),
	}
}

// ValidateBoundary runs the stateless validation report: point errors and
// warnings, plus shape anomalies when the points form a polygon at all.
func (uc *BoundaryUseCase) ValidateBoundary(req dto.CreateBoundaryRequest) *dto.ValidationResponse {
	validation := uc.ValidatePoints(req.Points)

	resp := &dto.ValidationResponse{Validation: validation}
	if len(req.Points) >= 3 {
		latlngs := make([]domain.LatLng, 0, len(req.Points))
		for _, p := range req.Points {
			latlngs = append(latlngs, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
		}
		anomalies := geometry.DetectAnomalies(geometry.PolygonFromLatLngs(latlngs))
		resp.Anomalies = &anomalies
	}
	return resp
}

// ComputeArea is the stateless calculator: area, perimeter and complexity for
// an arbitrary point set, nothing stored.
func (uc *BoundaryUseCase) ComputeArea(req dto.AreaRequest) (*dto.AreaResponse, error) {
	latlngs := make([]domain.LatLng, 0, len(req.Points))
	for _, p := range req.Points {
		if !utils.ValidateCoordinates(p.Lat, p.Lng) {
			return nil, errors.ErrInvalidCoordinates
		}
		latlngs = append(latlngs, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
	}

	area, err := geometry.AreaFromLatLngs(latlngs)
	if err != nil {
		return nil, err
	}

	poly := geometry.PolygonFromLatLngs(latlngs)
	return &dto.AreaResponse{
		Area:       area,
		PerimeterM: geometry.Perimeter(poly),
		Complexity: geometry.ShapeComplexity(poly),
	}, nil
}

// CheckOverlap reports actual boundary overlaps with nearby active farms.
func (uc *BoundaryUseCase) CheckOverlap(ctx context.Context, farmID uuid.UUID) (*domain.OverlapReport, error) {
	overlaps, err := uc.farmRepo.FindOverlapping(ctx, farmID, uc.cfg.Boundary.OverlapSearchRadiusKm, nil)
	if err != nil {
		uc.logger.Error("Failed to find overlapping farms",
			zap.String("farm_id", farmID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	report := &domain.OverlapReport{
		HasOverlaps:  len(overlaps) > 0,
		OverlapCount: len(overlaps),
		Overlaps:     make([]domain.FarmOverlap, 0, len(overlaps)),
	}
	for _, o := range overlaps {
		report.Overlaps = append(report.Overlaps, *o)
	}
	return report, nil
}

// BoundaryAccuracy aggregates per-vertex GPS accuracy metadata.
func (uc *BoundaryUseCase) BoundaryAccuracy(ctx context.Context, farmID uuid.UUID) (*domain.BoundaryAccuracy, error) {
	points, err := uc.farmRepo.GetBoundaryPoints(ctx, farmID)
	if err != nil {
		return nil, err
	}

	accuracies := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Accuracy != nil {
			accuracies = append(accuracies, *p.Accuracy)
		}
	}

	result := &domain.BoundaryAccuracy{
		HasAccuracyData: len(accuracies) > 0,
		PointsWithData:  len(accuracies),
		TotalPoints:     len(points),
	}
	if len(accuracies) == 0 {
		return result, nil
	}

	avg, _ := stats.Mean(accuracies)
	max, _ := stats.Max(accuracies)
	min, _ := stats.Min(accuracies)

	avg = utils.Round2(avg)
	result.AverageAccuracy = &avg
	result.MaxAccuracy = &max
	result.MinAccuracy = &min
	return result, nil
}

// ToGeoJSON renders the farm boundary as a GeoJSON feature, cached until the
// boundary changes.
func (uc *BoundaryUseCase) ToGeoJSON(ctx context.Context, farmID uuid.UUID) ([]byte, error) {
	key := geojsonCacheKey(farmID)
	if cached, err := uc.cacheRepo.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !farm.HasBoundary() {
		return nil, errors.ErrInvalidBoundary.WithReason("farm has no boundary")
	}

	feature := geojson.NewFeature(farm.Boundary)
	feature.Properties = geojson.Properties{
		"farm_id":            farm.ID.String(),
		"farm_code":          farm.FarmCode,
		"size_acres":         farm.SizeAcres,
		"size_hectares":      farm.SizeHectares,
		"boundary_source":    farm.BoundarySource,
		"satellite_verified": farm.SatelliteVerified,
	}

	data, err := feature.MarshalJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithReason(err.Error())
	}

	if err := uc.cacheRepo.Set(ctx, key, data, uc.cfg.Cache.GeoJSONCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache geojson", zap.Error(err))
	}

	return data, nil
}

// FromGeoJSON establishes a boundary from a GeoJSON Polygon feature or bare
// geometry. Only the outer ring is used.
func (uc *BoundaryUseCase) FromGeoJSON(
	ctx context.Context,
	farmID uuid.UUID,
	req dto.GeoJSONBoundaryRequest,
) (*dto.BoundaryResponse, error) {
	var geom orb.Geometry
	if feature, err := geojson.UnmarshalFeature(req.GeoJSON); err == nil {
		geom = feature.Geometry
	} else if g, err := geojson.UnmarshalGeometry(req.GeoJSON); err == nil {
		geom = g.Geometry()
	} else {
		return nil, errors.ErrInvalidGeoJSON
	}

	poly, ok := geom.(orb.Polygon)
	if !ok {
		return nil, errors.ErrInvalidGeoJSON.WithReason(fmt.Sprintf("expected a Polygon geometry, got %s", geom.GeoJSONType()))
	}
	if len(poly) == 0 {
		return nil, errors.ErrInvalidGeoJSON.WithReason("polygon has no rings")
	}

	ring := poly[0]
	points := make([]dto.PointInput, 0, len(ring))
	for _, c := range ring {
		points = append(points, dto.PointInput{Lat: c[1], Lng: c[0]})
	}

	return uc.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{
		Points: points,
		Source: domain.BoundarySourceGeoJSON,
	})
}

// Simplify reduces boundary vertex count without moving the stored boundary;
// clients decide whether to re-submit the simplified ring.
func (uc *BoundaryUseCase) Simplify(
	ctx context.Context,
	farmID uuid.UUID,
	req dto.SimplifyRequest,
) (*dto.SimplifyResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !farm.HasBoundary() {
		return nil, errors.ErrInvalidBoundary.WithReason("farm has no boundary")
	}

	tolerance := req.ToleranceMeters
	if tolerance == 0 {
		tolerance = uc.cfg.Boundary.SmoothingToleranceMeters
	}

	simplified, ok := geometry.Smooth(farm.Boundary, tolerance)

	data, err := geojson.NewFeature(simplified).MarshalJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithReason(err.Error())
	}

	return &dto.SimplifyResponse{
		FarmID:          farmID,
		Simplified:      ok,
		OriginalPoints:  geometry.VertexCount(farm.Boundary),
		ResultingPoints: geometry.VertexCount(simplified),
		GeoJSON:         data,
	}, nil
}

// Buffer expands or shrinks the boundary by a metric distance.
func (uc *BoundaryUseCase) Buffer(
	ctx context.Context,
	farmID uuid.UUID,
	req dto.BufferRequest,
) (*dto.BufferResponse, error) {
	buffered, err := uc.farmRepo.BufferBoundary(ctx, farmID, req.DistanceMeters)
	if err != nil {
		uc.logger.Error("Failed to buffer boundary",
			zap.String("farm_id", farmID.String()),
			zap.Float64("distance_m", req.DistanceMeters),
			zap.Error(err),
		)
		return nil, err
	}

	data, err := geojson.NewFeature(buffered).MarshalJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithReason(err.Error())
	}

	return &dto.BufferResponse{
		FarmID:         farmID,
		DistanceMeters: req.DistanceMeters,
		Area:           geometry.PolygonArea(buffered),
		GeoJSON:        data,
	}, nil
}

// DistanceBetweenFarms returns the great-circle distance between farm centers.
func (uc *BoundaryUseCase) DistanceBetweenFarms(ctx context.Context, fromID, toID uuid.UUID) (*dto.DistanceResponse, error) {
	from, err := uc.farmRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := uc.farmRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	km := utils.HaversineDistance(from.Center.Lat, from.Center.Lng, to.Center.Lat, to.Center.Lng)
	return &dto.DistanceResponse{
		FromFarmID: fromID,
		ToFarmID:   toID,
		Distance: domain.Distance{
			Meters: utils.Round2(km * 1000),
			Km:     utils.Round2(km),
			Miles:  utils.Round2(km * 0.621371),
		},
	}, nil
}

// BoundaryVertices lists the persisted vertex set in walk order.
func (uc *BoundaryUseCase) BoundaryVertices(ctx context.Context, farmID uuid.UUID) (*dto.VerticesResponse, error) {
	points, err := uc.farmRepo.GetBoundaryPoints(ctx, farmID)
	if err != nil {
		return nil, err
	}
	return &dto.VerticesResponse{
		FarmID: farmID,
		Total:  len(points),
		Points: points,
	}, nil
}

// GetFarm returns the farm record itself.
func (uc *BoundaryUseCase) GetFarm(ctx context.Context, farmID uuid.UUID) (*domain.Farm, error) {
	return uc.farmRepo.GetByID(ctx, farmID)
}
