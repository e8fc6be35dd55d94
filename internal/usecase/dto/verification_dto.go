package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// RequestVerificationResponse acknowledges an enqueued verification job.
type RequestVerificationResponse struct {
	FarmID      uuid.UUID `json:"farm_id"`
	Enqueued    bool      `json:"enqueued"`
	RequestedAt time.Time `json:"requested_at"`
}

// VerificationStatusResponse is the current verification state of a farm with
// its most recent satellite scan, if any.
type VerificationStatusResponse struct {
	FarmID                 uuid.UUID             `json:"farm_id"`
	SatelliteVerified      bool                  `json:"satellite_verified"`
	VerificationConfidence *float64              `json:"verification_confidence"`
	LastVerified           *time.Time            `json:"last_verified"`
	LatestScan             *domain.SatelliteScan `json:"latest_scan,omitempty"`
}

// ScanHistoryResponse lists past satellite scans, newest first.
type ScanHistoryResponse struct {
	FarmID uuid.UUID               `json:"farm_id"`
	Total  int                     `json:"total"`
	Scans  []*domain.SatelliteScan `json:"scans"`
}
