package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/mock"

	"github.com/croppulse/farm-boundary-service/internal/config"
	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/usecase/dto"
)

// MockFarmRepository is a mock of FarmRepository
type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmRepository) GetBoundaryPoints(ctx context.Context, farmID uuid.UUID) ([]*domain.BoundaryPoint, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BoundaryPoint), args.Error(1)
}

func (m *MockFarmRepository) ReplaceBoundary(ctx context.Context, farm *domain.Farm, points []domain.BoundaryPointInput) ([]*domain.BoundaryPoint, error) {
	args := m.Called(ctx, farm, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BoundaryPoint), args.Error(1)
}

func (m *MockFarmRepository) SaveGPSTrace(ctx context.Context, farmID uuid.UUID, trace []domain.TracePoint) error {
	args := m.Called(ctx, farmID, trace)
	return args.Error(0)
}

func (m *MockFarmRepository) BufferBoundary(ctx context.Context, farmID uuid.UUID, distanceMeters float64) (orb.Polygon, error) {
	args := m.Called(ctx, farmID, distanceMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(orb.Polygon), args.Error(1)
}

func (m *MockFarmRepository) FindOverlapping(ctx context.Context, farmID uuid.UUID, radiusKm float64, excludeIDs []uuid.UUID) ([]*domain.FarmOverlap, error) {
	args := m.Called(ctx, farmID, radiusKm, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FarmOverlap), args.Error(1)
}

func (m *MockFarmRepository) UpdateVerification(ctx context.Context, farmID uuid.UUID, verified bool, confidence float64) error {
	args := m.Called(ctx, farmID, verified, confidence)
	return args.Error(0)
}

// MockScanRepository is a mock of ScanRepository
type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) CreateScan(ctx context.Context, scan *domain.SatelliteScan) error {
	args := m.Called(ctx, scan)
	return args.Error(0)
}

func (m *MockScanRepository) GetLatestScan(ctx context.Context, farmID uuid.UUID) (*domain.SatelliteScan, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SatelliteScan), args.Error(1)
}

func (m *MockScanRepository) ListScans(ctx context.Context, farmID uuid.UUID, limit int) ([]*domain.SatelliteScan, error) {
	args := m.Called(ctx, farmID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SatelliteScan), args.Error(1)
}

func (m *MockScanRepository) CreateNDVIRecord(ctx context.Context, record *domain.NDVIRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockAreaEstimator is a mock of AreaEstimator
type MockAreaEstimator struct {
	mock.Mock
}

func (m *MockAreaEstimator) EstimateArea(ctx context.Context, aoi []byte) (*domain.AreaEstimate, error) {
	args := m.Called(ctx, aoi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AreaEstimate), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Region: config.RegionConfig{
			MinLat: -4.678,
			MaxLat: 5.506,
			MinLon: 33.893,
			MaxLon: 41.899,
		},
		Boundary: config.BoundaryConfig{
			SmoothingToleranceMeters: 5.0,
			MinQualityScore:          60,
			OverlapSearchRadiusKm:    5.0,
		},
		Verification: config.VerificationConfig{
			SizeTolerance: 0.3,
		},
		Cache: config.CacheConfig{
			GeoJSONCacheTTL: time.Hour,
		},
	}
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// polygonFromPoints builds a closed test polygon from lat/lng inputs.
func polygonFromPoints(points []dto.PointInput) orb.Polygon {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}
