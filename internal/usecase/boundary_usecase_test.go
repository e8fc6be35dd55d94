package usecase_test

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// kenyaSquare is roughly a 100m x 100m plot on the equator near Nakuru.
func kenyaSquare() []dto.PointInput {
	const d = 100.0 / 111000.0
	return []dto.PointInput{
		{Lat: 0, Lng: 36},
		{Lat: 0, Lng: 36 + d},
		{Lat: d, Lng: 36 + d},
		{Lat: d, Lng: 36},
	}
}

func newBoundaryUC(farmRepo *MockFarmRepository, cacheRepo *MockCacheRepository) *usecase.BoundaryUseCase {
	return usecase.NewBoundaryUseCase(farmRepo, cacheRepo, testConfig(), zap.NewNop())
}

func TestBoundaryUseCase_ValidatePoints(t *testing.T) {
	uc := newBoundaryUC(&MockFarmRepository{}, &MockCacheRepository{})

	t.Run("valid square", func(t *testing.T) {
		result := uc.ValidatePoints(kenyaSquare())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("too few points", func(t *testing.T) {
		result := uc.ValidatePoints(kenyaSquare()[:2])

		assert.False(t, result.IsValid)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		points := kenyaSquare()
		points[1].Lat = 95

		result := uc.ValidatePoints(points)

		assert.False(t, result.IsValid)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("duplicate points warn", func(t *testing.T) {
		points := kenyaSquare()
		points = append(points[:2], points[1:]...)

		result := uc.ValidatePoints(points)

		assert.True(t, result.IsValid)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("outside operating region warns", func(t *testing.T) {
		points := []dto.PointInput{
			{Lat: 48.85, Lng: 2.35},
			{Lat: 48.86, Lng: 2.35},
			{Lat: 48.86, Lng: 2.36},
		}

		result := uc.ValidatePoints(points)

		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings[0], "outside the operating region")
	})

	t.Run("unclosed boundary warns", func(t *testing.T) {
		result := uc.ValidatePoints(kenyaSquare())

		assert.True(t, result.IsValid)
		assert.Contains(t, result.Warnings, "boundary is not closed, the first point will be appended")
	})

	t.Run("self-intersecting bowtie rejected", func(t *testing.T) {
		const d = 100.0 / 111000.0
		bowtie := []dto.PointInput{
			{Lat: 0, Lng: 36},
			{Lat: d, Lng: 36 + d},
			{Lat: 0, Lng: 36 + d},
			{Lat: d, Lng: 36},
		}

		result := uc.ValidatePoints(bowtie)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "boundary self-intersects")
	})

	t.Run("implausibly small plot rejected", func(t *testing.T) {
		// A 3 m square is ~0.002 acres, far below the plausible minimum.
		const s = 3.0 / 111000.0
		sliver := []dto.PointInput{
			{Lat: 0, Lng: 36},
			{Lat: 0, Lng: 36 + s},
			{Lat: s, Lng: 36 + s},
			{Lat: s, Lng: 36},
		}

		result := uc.ValidatePoints(sliver)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors[0], "outside the plausible range")
	})

	t.Run("very complex boundary warns", func(t *testing.T) {
		// 1200 points around a 100 m radius circle: valid, but flagged.
		const r = 100.0 / 111000.0
		points := make([]dto.PointInput, 0, 1200)
		for i := 0; i < 1200; i++ {
			angle := 2 * math.Pi * float64(i) / 1200
			points = append(points, dto.PointInput{
				Lat: 0.5 + r*math.Cos(angle),
				Lng: 36.5 + r*math.Sin(angle),
			})
		}

		result := uc.ValidatePoints(points)

		assert.True(t, result.IsValid)
		found := false
		for _, w := range result.Warnings {
			if strings.Contains(w, "overly complex") {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestBoundaryUseCase_CreateBoundary(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("success", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newBoundaryUC(farmRepo, cacheRepo)

		farm := &domain.Farm{ID: farmID, FarmCode: "FRM-001", IsActive: true}
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)
		farmRepo.On("ReplaceBoundary", ctx, mock.Anything, mock.Anything).
			Return([]*domain.BoundaryPoint{}, nil)
		farmRepo.On("FindOverlapping", ctx, farmID, 5.0, mock.Anything).
			Return([]*domain.FarmOverlap{}, nil)
		cacheRepo.On("Delete", ctx, mock.Anything).Return(nil)

		resp, err := uc.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{Points: kenyaSquare()})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, farmID, resp.FarmID)
		assert.Equal(t, domain.BoundarySourceManual, resp.Source)
		assert.Equal(t, 5, resp.VertexCount)
		assert.InEpsilon(t, 1.0, resp.Area.Hectares, 0.05)
		assert.InEpsilon(t, 400.0, resp.PerimeterM, 0.05)
		assert.False(t, resp.Anomalies.HasAnomalies)
		assert.NotNil(t, resp.Overlaps)
		assert.False(t, resp.Overlaps.HasOverlaps)

		farmRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("self-intersecting boundary rejected", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

		farm := &domain.Farm{ID: farmID, FarmCode: "FRM-001"}
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)

		bowtie := []dto.PointInput{
			{Lat: 0, Lng: 36},
			{Lat: 0.001, Lng: 36.001},
			{Lat: 0, Lng: 36.001},
			{Lat: 0.001, Lng: 36},
		}

		resp, err := uc.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{Points: bowtie})

		assert.Error(t, err)
		assert.Nil(t, resp)
		farmRepo.AssertNotCalled(t, "ReplaceBoundary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation errors rejected before repo write", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

		farm := &domain.Farm{ID: farmID}
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)

		points := kenyaSquare()
		points[0].Lng = 200

		resp, err := uc.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{Points: points})

		assert.Error(t, err)
		assert.Nil(t, resp)
		farmRepo.AssertNotCalled(t, "ReplaceBoundary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("overlap check failure does not fail creation", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newBoundaryUC(farmRepo, cacheRepo)

		farm := &domain.Farm{ID: farmID, FarmCode: "FRM-001"}
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)
		farmRepo.On("ReplaceBoundary", ctx, mock.Anything, mock.Anything).
			Return([]*domain.BoundaryPoint{}, nil)
		farmRepo.On("FindOverlapping", ctx, farmID, 5.0, mock.Anything).
			Return(nil, assert.AnError)
		cacheRepo.On("Delete", ctx, mock.Anything).Return(nil)

		resp, err := uc.CreateBoundary(ctx, farmID, dto.CreateBoundaryRequest{Points: kenyaSquare()})

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Nil(t, resp.Overlaps)
	})
}

func TestBoundaryUseCase_ComputeArea(t *testing.T) {
	uc := newBoundaryUC(&MockFarmRepository{}, &MockCacheRepository{})

	t.Run("square hectare", func(t *testing.T) {
		resp, err := uc.ComputeArea(dto.AreaRequest{Points: kenyaSquare()})

		assert.NoError(t, err)
		assert.InEpsilon(t, 10000.0, resp.Area.SquareMeters, 0.05)
		assert.InEpsilon(t, 2.47, resp.Area.Acres, 0.05)
		assert.Greater(t, resp.Complexity, 1.0)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		points := kenyaSquare()
		points[2].Lat = -100

		resp, err := uc.ComputeArea(dto.AreaRequest{Points: points})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestBoundaryUseCase_CheckOverlap(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()
	farmRepo := &MockFarmRepository{}
	uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

	neighbor := uuid.New()
	farmRepo.On("FindOverlapping", ctx, farmID, 5.0, mock.Anything).
		Return([]*domain.FarmOverlap{
			{FarmID: neighbor, FarmCode: "FRM-002", OverlapSqMeters: 120.5, OverlapPercentage: 1.2},
		}, nil)

	report, err := uc.CheckOverlap(ctx, farmID)

	assert.NoError(t, err)
	assert.True(t, report.HasOverlaps)
	assert.Equal(t, 1, report.OverlapCount)
	assert.Equal(t, "FRM-002", report.Overlaps[0].FarmCode)
}

func TestBoundaryUseCase_BoundaryAccuracy(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("aggregates available accuracy", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

		farmRepo.On("GetBoundaryPoints", ctx, farmID).Return([]*domain.BoundaryPoint{
			{Sequence: 0, Accuracy: ptrFloat64(3.0)},
			{Sequence: 1, Accuracy: ptrFloat64(5.0)},
			{Sequence: 2},
			{Sequence: 3, Accuracy: ptrFloat64(4.0)},
		}, nil)

		result, err := uc.BoundaryAccuracy(ctx, farmID)

		assert.NoError(t, err)
		assert.True(t, result.HasAccuracyData)
		assert.Equal(t, 3, result.PointsWithData)
		assert.Equal(t, 4, result.TotalPoints)
		assert.Equal(t, 4.0, *result.AverageAccuracy)
		assert.Equal(t, 5.0, *result.MaxAccuracy)
		assert.Equal(t, 3.0, *result.MinAccuracy)
	})

	t.Run("no accuracy data", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

		farmRepo.On("GetBoundaryPoints", ctx, farmID).Return([]*domain.BoundaryPoint{
			{Sequence: 0}, {Sequence: 1},
		}, nil)

		result, err := uc.BoundaryAccuracy(ctx, farmID)

		assert.NoError(t, err)
		assert.False(t, result.HasAccuracyData)
		assert.Nil(t, result.AverageAccuracy)
	})
}

func TestBoundaryUseCase_ToGeoJSON(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("cache hit skips repository", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newBoundaryUC(farmRepo, cacheRepo)

		cached := []byte(`{"type":"Feature"}`)
		cacheRepo.On("Get", ctx, mock.Anything).Return(cached, nil)

		data, err := uc.ToGeoJSON(ctx, farmID)

		assert.NoError(t, err)
		assert.Equal(t, cached, data)
		farmRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss renders and stores", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newBoundaryUC(farmRepo, cacheRepo)

		farm := &domain.Farm{ID: farmID, FarmCode: "FRM-001", SizeAcres: 2.47}
		d := 100.0 / 111000.0
		farm.Boundary = polygonFromPoints([]dto.PointInput{
			{Lat: 0, Lng: 36}, {Lat: 0, Lng: 36 + d}, {Lat: d, Lng: 36 + d}, {Lat: d, Lng: 36},
		})

		cacheRepo.On("Get", ctx, mock.Anything).Return(nil, assert.AnError)
		cacheRepo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)

		data, err := uc.ToGeoJSON(ctx, farmID)

		assert.NoError(t, err)

		var feature map[string]interface{}
		assert.NoError(t, json.Unmarshal(data, &feature))
		assert.Equal(t, "Feature", feature["type"])
		props := feature["properties"].(map[string]interface{})
		assert.Equal(t, "FRM-001", props["farm_code"])

		cacheRepo.AssertExpectations(t)
	})
}

func TestBoundaryUseCase_FromGeoJSON(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()

	t.Run("polygon feature accepted", func(t *testing.T) {
		farmRepo := &MockFarmRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newBoundaryUC(farmRepo, cacheRepo)

		farm := &domain.Farm{ID: farmID, FarmCode: "FRM-001"}
		farmRepo.On("GetByID", ctx, farmID).Return(farm, nil)
		farmRepo.On("ReplaceBoundary", ctx, mock.Anything, mock.Anything).
			Return([]*domain.BoundaryPoint{}, nil)
		farmRepo.On("FindOverlapping", ctx, farmID, 5.0, mock.Anything).
			Return([]*domain.FarmOverlap{}, nil)
		cacheRepo.On("Delete", ctx, mock.Anything).Return(nil)

		raw := []byte(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[36,0],[36.0009,0],[36.0009,0.0009],[36,0.0009],[36,0]]]},"properties":{}}`)

		resp, err := uc.FromGeoJSON(ctx, farmID, dto.GeoJSONBoundaryRequest{GeoJSON: raw})

		assert.NoError(t, err)
		assert.Equal(t, domain.BoundarySourceGeoJSON, resp.Source)
		assert.InEpsilon(t, 1.0, resp.Area.Hectares, 0.05)
	})

	t.Run("point geometry rejected", func(t *testing.T) {
		uc := newBoundaryUC(&MockFarmRepository{}, &MockCacheRepository{})

		raw := []byte(`{"type":"Point","coordinates":[36,0]}`)

		resp, err := uc.FromGeoJSON(ctx, farmID, dto.GeoJSONBoundaryRequest{GeoJSON: raw})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		uc := newBoundaryUC(&MockFarmRepository{}, &MockCacheRepository{})

		resp, err := uc.FromGeoJSON(ctx, farmID, dto.GeoJSONBoundaryRequest{GeoJSON: []byte(`not json`)})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestBoundaryUseCase_DistanceBetweenFarms(t *testing.T) {
	ctx := context.Background()
	fromID, toID := uuid.New(), uuid.New()
	farmRepo := &MockFarmRepository{}
	uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

	// Nakuru to Eldoret, roughly 120 km apart.
	farmRepo.On("GetByID", ctx, fromID).Return(&domain.Farm{
		ID: fromID, Center: domain.LatLng{Lat: -0.3031, Lng: 36.0800},
	}, nil)
	farmRepo.On("GetByID", ctx, toID).Return(&domain.Farm{
		ID: toID, Center: domain.LatLng{Lat: 0.5143, Lng: 35.2698},
	}, nil)

	resp, err := uc.DistanceBetweenFarms(ctx, fromID, toID)

	assert.NoError(t, err)
	assert.InEpsilon(t, 127.0, resp.Distance.Km, 0.05)
	assert.InEpsilon(t, resp.Distance.Km*1000, resp.Distance.Meters, 0.001)
}

func TestBoundaryUseCase_Simplify_NoBoundary(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New()
	farmRepo := &MockFarmRepository{}
	uc := newBoundaryUC(farmRepo, &MockCacheRepository{})

	farmRepo.On("GetByID", ctx, farmID).Return(&domain.Farm{ID: farmID}, nil)

	resp, err := uc.Simplify(ctx, farmID, dto.SimplifyRequest{})

	assert.Error(t, err)
	assert.Nil(t, resp)
}
