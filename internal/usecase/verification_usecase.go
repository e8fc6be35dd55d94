package usecase

import (
	"context"
	"fmt"
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

// Data quality below this leaves a farm unverified even when sizes match.
const minVerificationDataQuality = 60

// VerificationUseCase reconciles declared farm sizes against independent
// satellite measurements. Requests are enqueued over a redis stream and
// executed by the worker; every execution produces an immutable scan record.
type VerificationUseCase struct {
	farmRepo   repository.FarmRepository
	scanRepo   repository.ScanRepository
	streamRepo repository.StreamRepository
	estimator  repository.AreaEstimator
	cfg        *config.Config
	logger     *zap.Logger
}

func NewVerificationUseCase(
	farmRepo repository.FarmRepository,
	scanRepo repository.ScanRepository,
	streamRepo repository.StreamRepository,
	estimator repository.AreaEstimator,
	cfg *config.Config,
	logger *zap.Logger,
) *VerificationUseCase {
	return &VerificationUseCase{
		farmRepo:   farmRepo,
		scanRepo:   scanRepo,
		streamRepo: streamRepo,
		estimator:  estimator,
		cfg:        cfg,
		logger:     logger,
	}
}

// RequestVerification enqueues an asynchronous verification job for a farm.
func (uc *VerificationUseCase) RequestVerification(ctx context.Context, farmID uuid.UUID) (*dto.RequestVerificationResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !farm.HasBoundary() {
		return nil, errors.ErrInvalidBoundary.WithReason("farm has no boundary to verify")
	}

	requestedAt := time.Now().UTC()
	event := domain.VerificationRequestEvent{FarmID: farmID, RequestedAt: requestedAt}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamVerificationRequest, event); err != nil {
		uc.logger.Error("Failed to publish verification request",
			zap.String("farm_id", farmID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.RequestVerificationResponse{
		FarmID:      farmID,
		Enqueued:    true,
		RequestedAt: requestedAt,
	}, nil
}

// GetStatus returns the farm's verification state with its latest scan.
func (uc *VerificationUseCase) GetStatus(ctx context.Context, farmID uuid.UUID) (*dto.VerificationStatusResponse, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}

	resp := &dto.VerificationStatusResponse{
		FarmID:                 farmID,
		SatelliteVerified:      farm.SatelliteVerified,
		VerificationConfidence: farm.VerificationConfidence,
		LastVerified:           farm.LastVerified,
	}

	scan, err := uc.scanRepo.GetLatestScan(ctx, farmID)
	if err != nil {
		if err == errors.ErrScanNotFound {
			return resp, nil
		}
		return nil, err
	}
	resp.LatestScan = scan
	return resp, nil
}

// ListScans returns scan history, newest first.
func (uc *VerificationUseCase) ListScans(ctx context.Context, farmID uuid.UUID, limit int) (*dto.ScanHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	scans, err := uc.scanRepo.ListScans(ctx, farmID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.ScanHistoryResponse{
		FarmID: farmID,
		Total:  len(scans),
		Scans:  scans,
	}, nil
}

// VerifyFarm runs one verification: fetch an independent satellite size for
// the farm's boundary, reconcile it against the declared size and persist the
// outcome. Called by the worker; an error from the satellite service is
// returned as-is so the caller can schedule a retry.
func (uc *VerificationUseCase) VerifyFarm(ctx context.Context, farmID uuid.UUID) (*domain.SatelliteScan, error) {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if !farm.HasBoundary() {
		return nil, errors.ErrInvalidBoundary.WithReason("farm has no boundary to verify")
	}

	aoi, err := geojson.NewFeature(farm.Boundary).MarshalJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithReason(err.Error())
	}

	estimate, err := uc.estimator.EstimateArea(ctx, aoi)
	if err != nil {
		uc.logger.Error("Satellite area estimation failed",
			zap.String("farm_id", farmID.String()),
			zap.String("farm_code", farm.FarmCode),
			zap.Error(err),
		)
		return nil, err
	}

	recon := geometry.ReconcileSizes(farm.SizeAcres, estimate.SizeAcres, uc.cfg.Verification.SizeTolerance)

	scan := &domain.SatelliteScan{
		ScanID:              newScanID(farm.FarmCode),
		FarmID:              farmID,
		VerifiedSizeAcres:   estimate.SizeAcres,
		MatchesDeclaredSize: recon.Matches,
		SizeDifferencePct:   recon.DifferencePercent,
		CloudCoverPct:       estimate.CloudCoverPct,
		NDVI:                estimate.NDVI,
		DataQualityScore:    estimate.DataQualityScore,
		Status:              domain.ScanStatusCompleted,
		AcquisitionDate:     estimate.AcquisitionDate,
	}
	if err := uc.scanRepo.CreateScan(ctx, scan); err != nil {
		return nil, err
	}

	if estimate.NDVI != nil {
		record := &domain.NDVIRecord{
			FarmID: farmID,
			Date:   ndviDate(estimate),
			NDVI:   *estimate.NDVI,
			ScanID: scan.ScanID,
		}
		if err := uc.scanRepo.CreateNDVIRecord(ctx, record); err != nil {
			// NDVI history is supplementary, the scan itself is already stored.
			uc.logger.Warn("Failed to store NDVI record",
				zap.String("scan_id", scan.ScanID),
				zap.Error(err),
			)
		}
	}

	verified, confidence := verificationOutcome(recon, estimate.DataQualityScore)
	if err := uc.farmRepo.UpdateVerification(ctx, farmID, verified, confidence); err != nil {
		return nil, err
	}

	done := domain.VerificationDoneEvent{
		FarmID:              farmID,
		ScanID:              scan.ScanID,
		VerifiedSizeAcres:   scan.VerifiedSizeAcres,
		MatchesDeclaredSize: scan.MatchesDeclaredSize,
		SizeDifferencePct:   scan.SizeDifferencePct,
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamVerificationDone, done); err != nil {
		uc.logger.Warn("Failed to publish verification result",
			zap.String("scan_id", scan.ScanID),
			zap.Error(err),
		)
	}

	uc.logger.Info("Farm verified",
		zap.String("farm_code", farm.FarmCode),
		zap.String("scan_id", scan.ScanID),
		zap.Bool("matches", recon.Matches),
		zap.Float64("difference_pct", recon.DifferencePercent),
	)

	return scan, nil
}

// RecordFailure stores a failed scan after retries are exhausted and notifies
// the done stream, so a farm is never left silently unprocessed.
func (uc *VerificationUseCase) RecordFailure(ctx context.Context, farmID uuid.UUID, cause error) error {
	farm, err := uc.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return err
	}

	msg := cause.Error()
	scan := &domain.SatelliteScan{
		ScanID: newScanID(farm.FarmCode),
		FarmID: farmID,
		Status: domain.ScanStatusFailed,
		Error:  &msg,
	}
	if err := uc.scanRepo.CreateScan(ctx, scan); err != nil {
		return err
	}

	done := domain.VerificationDoneEvent{
		FarmID: farmID,
		ScanID: scan.ScanID,
		Error:  msg,
	}
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamVerificationDone, done); err != nil {
		uc.logger.Warn("Failed to publish verification failure",
			zap.String("scan_id", scan.ScanID),
			zap.Error(err),
		)
	}
	return nil
}

// verificationOutcome folds the size check and the scan's signal quality into
// the farm-level verification fields. A size match with poor imagery is not
// treated as verification.
func verificationOutcome(recon domain.SizeReconciliation, dataQuality *int) (bool, float64) {
	quality := minVerificationDataQuality
	if dataQuality != nil {
		quality = *dataQuality
	}
	verified := recon.Matches && quality >= minVerificationDataQuality
	return verified, float64(quality) / 100
}

func newScanID(farmCode string) string {
	return fmt.Sprintf("SCAN-%s-%s", farmCode, time.Now().UTC().Format("20060102150405"))
}

func ndviDate(estimate *domain.AreaEstimate) time.Time {
	if estimate.AcquisitionDate != nil {
		return *estimate.AcquisitionDate
	}
	return time.Now().UTC()
}
