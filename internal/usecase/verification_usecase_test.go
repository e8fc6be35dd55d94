package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/pkg/errors"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
)

func newVerificationUC(
	farmRepo *MockFarmRepository,
	scanRepo *MockScanRepository,
	streamRepo *MockStreamRepository,
	estimator *MockAreaEstimator,
) *usecase.VerificationUseCase {
	return usecase.NewVerificationUseCase(farmRepo, scanRepo, streamRepo, estimator, testConfig(), zap.NewNop())
}

func boundedFarm(id uuid.UUID, declaredAcres float64) *domain.Farm {
	farm := &domain.Farm{ID: id, FarmCode: "FRM-001", SizeAcres: declaredAcres}
	farm.Boundary = polygonFromPoints(kenyaSquare())
	return farm
}

func TestVerificationUseCase_VerifyFarm(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("size within tolerance verifies farm", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		streamRepo := &MockStreamRepository{}
		estimator := &MockAreaEstimator{}
		uc := newVerificationUC(farmRepo, scanRepo, streamRepo, estimator)

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		estimator.On("EstimateArea", ctx, mock.Anything).Return(&domain.AreaEstimate{
			SizeAcres:        12.0,
			NDVI:             ptrFloat64(0.65),
			DataQualityScore: ptrInt(85),
		}, nil)
		scanRepo.On("CreateScan", ctx, mock.Anything).Return(nil)
		scanRepo.On("CreateNDVIRecord", ctx, mock.Anything).Return(nil)
		farmRepo.On("UpdateVerification", ctx, farmID, true, 0.85).Return(nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamVerificationDone, mock.Anything).Return(nil)

		scan, err := uc.VerifyFarm(ctx, farmID)

		assert.NoError(t, err)
		assert.True(t, scan.MatchesDeclaredSize)
		assert.InDelta(t, 20.0, scan.SizeDifferencePct, 0.01)
		assert.Equal(t, domain.ScanStatusCompleted, scan.Status)
		assert.True(t, strings.HasPrefix(scan.ScanID, "SCAN-FRM-001-"))

		farmRepo.AssertExpectations(t)
		scanRepo.AssertExpectations(t)
		streamRepo.AssertExpectations(t)
	})

	t.Run("size mismatch recorded but not verified", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		streamRepo := &MockStreamRepository{}
		estimator := &MockAreaEstimator{}
		uc := newVerificationUC(farmRepo, scanRepo, streamRepo, estimator)

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		estimator.On("EstimateArea", ctx, mock.Anything).Return(&domain.AreaEstimate{
			SizeAcres:        13.1,
			DataQualityScore: ptrInt(90),
		}, nil)
		scanRepo.On("CreateScan", ctx, mock.Anything).Return(nil)
		farmRepo.On("UpdateVerification", ctx, farmID, false, 0.9).Return(nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamVerificationDone, mock.Anything).Return(nil)

		scan, err := uc.VerifyFarm(ctx, farmID)

		assert.NoError(t, err)
		assert.False(t, scan.MatchesDeclaredSize)
		assert.InDelta(t, 31.0, scan.SizeDifferencePct, 0.01)

		farmRepo.AssertExpectations(t)
	})

	t.Run("poor imagery blocks verification despite size match", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		streamRepo := &MockStreamRepository{}
		estimator := &MockAreaEstimator{}
		uc := newVerificationUC(farmRepo, scanRepo, streamRepo, estimator)

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		estimator.On("EstimateArea", ctx, mock.Anything).Return(&domain.AreaEstimate{
			SizeAcres:        10.5,
			DataQualityScore: ptrInt(40),
		}, nil)
		scanRepo.On("CreateScan", ctx, mock.Anything).Return(nil)
		farmRepo.On("UpdateVerification", ctx, farmID, false, 0.4).Return(nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamVerificationDone, mock.Anything).Return(nil)

		scan, err := uc.VerifyFarm(ctx, farmID)

		assert.NoError(t, err)
		assert.True(t, scan.MatchesDeclaredSize)

		farmRepo.AssertExpectations(t)
	})

	t.Run("estimator failure propagates without a scan record", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		estimator := &MockAreaEstimator{}
		uc := newVerificationUC(farmRepo, scanRepo, &MockStreamRepository{}, estimator)

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		estimator.On("EstimateArea", ctx, mock.Anything).Return(nil, errors.ErrSatelliteUnavailable)

		scan, err := uc.VerifyFarm(ctx, farmID)

		assert.Error(t, err)
		assert.Nil(t, scan)
		scanRepo.AssertNotCalled(t, "CreateScan", mock.Anything, mock.Anything)
	})

	t.Run("farm without boundary rejected", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		uc := newVerificationUC(farmRepo, &MockScanRepository{}, &MockStreamRepository{}, &MockAreaEstimator{})

		farmRepo.On("GetByID", ctx, farmID).Return(&domain.Farm{ID: farmID, FarmCode: "FRM-001"}, nil)

		scan, err := uc.VerifyFarm(ctx, farmID)

		assert.Error(t, err)
		assert.Nil(t, scan)
	})
}

func TestVerificationUseCase_RequestVerification(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("enqueues request", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newVerificationUC(farmRepo, &MockScanRepository{}, streamRepo, &MockAreaEstimator{})

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamVerificationRequest, mock.Anything).Return(nil)

		resp, err := uc.RequestVerification(ctx, farmID)

		assert.NoError(t, err)
		assert.True(t, resp.Enqueued)
		streamRepo.AssertExpectations(t)
	})

	t.Run("no boundary rejected", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		streamRepo := &MockStreamRepository{}
		uc := newVerificationUC(farmRepo, &MockScanRepository{}, streamRepo, &MockAreaEstimator{})

		farmRepo.On("GetByID", ctx, farmID).Return(&domain.Farm{ID: farmID}, nil)

		resp, err := uc.RequestVerification(ctx, farmID)

		assert.Error(t, err)
		assert.Nil(t, resp)
		streamRepo.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerificationUseCase_GetStatus(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("with latest scan", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		uc := newVerificationUC(farmRepo, scanRepo, &MockStreamRepository{}, &MockAreaEstimator{})

		farm := boundedFarm(farmID, 10.0)
		farm.SatelliteVerified = true
		farm.VerificationConfidence = ptrFloat64(0.85)
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)
		scanRepo.On("GetLatestScan", ctx, farmID).Return(&domain.SatelliteScan{
			ScanID: "SCAN-FRM-001-20260827120000",
		}, nil)

		resp, err := uc.GetStatus(ctx, farmID)

		assert.NoError(t, err)
		assert.True(t, resp.SatelliteVerified)
		assert.NotNil(t, resp.LatestScan)
	})

	t.Run("never scanned", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		scanRepo := &MockScanRepository{}
		uc := newVerificationUC(farmRepo, scanRepo, &MockStreamRepository{}, &MockAreaEstimator{})

		farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
		scanRepo.On("GetLatestScan", ctx, farmID).Return(nil, errors.ErrScanNotFound)

		resp, err := uc.GetStatus(ctx, farmID)

		assert.NoError(t, err)
		assert.False(t, resp.SatelliteVerified)
		assert.Nil(t, resp.LatestScan)
	})
}

func TestVerificationUseCase_ListScans_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()
	farmRepo := &MockFarmRepository{}
	scanRepo := &MockScanRepository{}
	uc := newVerificationUC(farmRepo, scanRepo, &MockStreamRepository{}, &MockAreaEstimator{})

	scanRepo.On("ListScans", ctx, farmID, 20).Return([]*domain.SatelliteScan{}, nil)

	resp, err := uc.ListScans(ctx, farmID, 0)

	assert.NoError(t, err)
	assert.Zero(t, resp.Total)
	scanRepo.AssertExpectations(t)
}

func TestVerificationUseCase_RecordFailure(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()
	farmRepo := &MockFarmRepository{}
	scanRepo := &MockScanRepository{}
	streamRepo := &MockStreamRepository{}
	uc := newVerificationUC(farmRepo, scanRepo, streamRepo, &MockAreaEstimator{})

	farmRepo.On("GetByID", ctx, farmID).Return(boundedFarm(farmID, 10.0), nil)
	scanRepo.On("CreateScan", ctx, mock.MatchedBy(func(scan *domain.SatelliteScan) bool {
		return scan.Status == domain.ScanStatusFailed && scan.Error != nil
	})).Return(nil)
	streamRepo.On("PublishToStream", ctx, domain.StreamVerificationDone, mock.Anything).Return(nil)

	err := uc.RecordFailure(ctx, farmID, errors.ErrSatelliteUnavailable)

	assert.NoError(t, err)
	scanRepo.AssertExpectations(t)
	streamRepo.AssertExpectations(t)
}
