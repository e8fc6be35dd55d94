package domain

import (
	"time"

	"github.com/google/uuid"
)

// Redis stream names for the asynchronous verification pipeline.
const (
	StreamVerificationRequest = "stream:verification:request"
	StreamVerificationDone    = "stream:verification:done"
)

// Scan processing statuses.
const (
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// SizeReconciliation is the declared-vs-measured comparison fact. It is
// recomputed on every scan, never carried forward.
type SizeReconciliation struct {
	Matches           bool    `json:"matches_declared_size"`
	DifferencePercent float64 `json:"size_difference_percentage"`
}

// SatelliteScan is one immutable verification record: an independently
// measured farm size and its reconciliation against the declared size at scan
// time.
type SatelliteScan struct {
	ID                  int64      `json:"-" db:"id"`
	ScanID              string     `json:"scan_id" db:"scan_id"`
	FarmID              uuid.UUID  `json:"farm_id" db:"farm_id"`
	VerifiedSizeAcres   float64    `json:"verified_farm_size" db:"verified_size_acres"`
	MatchesDeclaredSize bool       `json:"matches_declared_size" db:"matches_declared_size"`
	SizeDifferencePct   float64    `json:"size_difference_percentage" db:"size_difference_pct"`
	CloudCoverPct       *float64   `json:"cloud_cover_percentage,omitempty" db:"cloud_cover_pct"`
	NDVI                *float64   `json:"ndvi,omitempty" db:"ndvi"`
	DataQualityScore    *int       `json:"data_quality_score,omitempty" db:"data_quality_score"`
	Status              string     `json:"status" db:"status"`
	Error               *string    `json:"error,omitempty" db:"error"`
	AcquisitionDate     *time.Time `json:"acquisition_date,omitempty" db:"acquisition_date"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// NDVIRecord is one vegetation-index history entry, written when a scan
// delivers an NDVI value.
type NDVIRecord struct {
	ID        int64     `json:"-" db:"id"`
	FarmID    uuid.UUID `json:"farm_id" db:"farm_id"`
	Date      time.Time `json:"date" db:"date"`
	NDVI      float64   `json:"ndvi_value" db:"ndvi_value"`
	ScanID    string    `json:"scan_id" db:"scan_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// AreaEstimate is the satellite analysis service's response for an
// area-of-interest: the independently measured size plus per-scan signal
// quality fields persisted verbatim on the scan record.
type AreaEstimate struct {
	SizeAcres        float64    `json:"size_acres"`
	CloudCoverPct    *float64   `json:"cloud_cover_percentage,omitempty"`
	NDVI             *float64   `json:"ndvi,omitempty"`
	DataQualityScore *int       `json:"data_quality_score,omitempty"`
	AcquisitionDate  *time.Time `json:"acquisition_date,omitempty"`
}

// VerificationRequestEvent asks the worker to verify one farm. Attempt and
// NotBefore drive the worker's retry scheduling: a failed verification is
// re-enqueued with an incremented attempt and a backoff deadline.
type VerificationRequestEvent struct {
	FarmID      uuid.UUID  `json:"farm_id"`
	RequestedAt time.Time  `json:"requested_at"`
	Attempt     int        `json:"attempt,omitempty"`
	NotBefore   *time.Time `json:"not_before,omitempty"`
}

// VerificationDoneEvent reports a finished (or permanently failed) scan.
type VerificationDoneEvent struct {
	FarmID              uuid.UUID `json:"farm_id"`
	ScanID              string    `json:"scan_id,omitempty"`
	VerifiedSizeAcres   float64   `json:"verified_farm_size,omitempty"`
	MatchesDeclaredSize bool      `json:"matches_declared_size"`
	SizeDifferencePct   float64   `json:"size_difference_percentage"`
	Error               string    `json:"error,omitempty"`
}

// StreamMessage is a raw message read from a redis stream.
type StreamMessage struct {
	ID   string
	Data map[string]interface{}
}
