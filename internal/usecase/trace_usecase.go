package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/config"
	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/geometry"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// TraceUseCase converts raw GPS walking traces into farm boundaries with an
// explicit quality verdict. Traces that pass the quality gate can be applied
// as the farm boundary in the same call, which also enqueues satellite
// verification.
type TraceUseCase struct {
	farmRepo   repository.FarmRepository
	streamRepo repository.StreamRepository
	boundaryUC *BoundaryUseCase
	cfg        *config.Config
	logger     *zap.Logger
}

func NewTraceUseCase(
	farmRepo repository.FarmRepository,
	streamRepo repository.StreamRepository,
	boundaryUC *BoundaryUseCase,
	cfg *config.Config,
	logger *zap.Logger,
) *TraceUseCase {
	return &TraceUseCase{
		farmRepo:   farmRepo,
		streamRepo: streamRepo,
		boundaryUC: boundaryUC,
		cfg:        cfg,
		logger:     logger,
	}
}

// ProcessTrace scores and converts a walking trace. Quality is always scored
// on the raw trace, before any smoothing, so the score reflects what the
// device recorded rather than what cleanup salvaged.
func (uc *TraceUseCase) ProcessTrace(
	ctx context.Context,
	farmID uuid.UUID,
	req dto.ProcessTraceRequest,
) (*dto.ProcessTraceResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}

	trace := toTracePoints(req.Points)
	processed := uc.process(trace)
	resp := traceResponse(farmID, trace, processed)

	if !req.Apply {
		return resp, nil
	}
	if !processed.IsValid {
		// The caller asked to apply but the trace needs manual review; the
		// recommendations in the quality report say what to fix.
		return resp, nil
	}

	points := make([]dto.PointInput, 0, len(processed.Boundary[0]))
	for _, c := range processed.Boundary[0] {
		points = append(points, dto.PointInput{Lat: c[1], Lng: c[0]})
	}
	if _, err := uc.boundaryUC.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{
		Points: points,
		Source: domain.BoundarySourceGPSTrace,
	}); err != nil {
		return nil, err
	}

	if err := uc.farmRepo.SaveGPSTrace(ctx, farmID, trace); err != nil {
		uc.logger.Error("Failed to save gps trace",
			zap.String("farm_id", farmID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	resp.Applied = true

	event := domain.VerificationRequestEvent{FarmID: farmID, RequestedAt: time.Now().UTC()}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamVerificationRequest, event); err != nil {
		// The boundary is stored either way; verification can be re-requested.
		uc.logger.Warn("Failed to enqueue verification request",
			zap.String("farm_id", farmID.String()),
			zap.String("farm_code", farm.FarmCode),
			zap.Error(err),
		)
	}

	return resp, nil
}

// PreviewTrace scores and converts a trace without touching any farm record,
// so clients can inspect the quality report before committing a walk.
func (uc *TraceUseCase) PreviewTrace(req dto.ProcessTraceRequest) *dto.ProcessTraceResponse {
	trace := toTracePoints(req.Points)
	processed := uc.process(trace)
	return traceResponse(uuid.Nil, trace, processed)
}

func toTracePoints(points []dto.TracePointInput) []domain.TracePoint {
	trace := make([]domain.TracePoint, 0, len(points))
	for _, p := range points {
		trace = append(trace, domain.TracePoint{
			Lat:        p.Lat,
			Lng:        p.Lng,
			Accuracy:   p.Accuracy,
			RecordedAt: p.RecordedAt,
		})
	}
	return trace
}

func traceResponse(farmID uuid.UUID, trace []domain.TracePoint, processed domain.ProcessedTrace) *dto.ProcessTraceResponse {
	resp := &dto.ProcessTraceResponse{
		FarmID:         farmID,
		Accepted:       processed.IsValid,
		Quality:        processed.Quality,
		RawPoints:      len(trace),
		BoundaryPoints: geometry.VertexCount(processed.Boundary),
		Smoothed:       processed.Smoothed,
	}
	if len(processed.Boundary) > 0 {
		resp.Area = geometry.PolygonArea(processed.Boundary)
		if data, err := geojson.NewFeature(processed.Boundary).MarshalJSON(); err == nil {
			resp.GeoJSON = data
		}
	}
	return resp
}

// process runs the full trace pipeline: score, build, smooth, measure.
func (uc *TraceUseCase) process(trace []domain.TracePoint) domain.ProcessedTrace {
	quality := geometry.ScoreTrace(trace)

	result := domain.ProcessedTrace{
		Quality:      quality,
		QualityScore: quality.OverallScore,
		PointCount:   len(trace),
	}
	if len(trace) < 4 {
		return result
	}

	latlngs := make([]domain.LatLng, 0, len(trace))
	for _, p := range trace {
		latlngs = append(latlngs, domain.LatLng{Lat: p.Lat, Lng: p.Lng})
	}
	poly := geometry.PolygonFromLatLngs(latlngs)

	smoothed := false
	if geometry.IsValid(poly) {
		poly, smoothed = geometry.Smooth(poly, uc.cfg.Boundary.SmoothingToleranceMeters)
	}

	area := geometry.PolygonArea(poly)
	result.Boundary = poly
	result.AreaHectares = area.Hectares
	result.AreaAcres = area.Acres
	result.Smoothed = smoothed
	result.IsValid = geometry.IsValid(poly) && quality.OverallScore > uc.cfg.Boundary.MinQualityScore

	return result
}

// ValidateTracePoints checks raw readings without running the pipeline.
func (uc *TraceUseCase) ValidateTracePoints(points []dto.TracePointInput) error {
	if len(points) < 4 {
		return errors.ErrInvalidTrace.WithReason("a boundary walk needs at least 4 points")
	}
	return nil
}
