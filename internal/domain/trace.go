package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// TracePoint is one sample of a client-captured GPS walking trace. Order is
// significant: the sequence defines the walked path. The raw trace is kept on
// the farm for audit but carries no invariants of its own.
type TracePoint struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Accuracy   *float64   `json:"accuracy,omitempty"`
	RecordedAt *time.Time `json:"timestamp,omitempty"`
}

// TraceQuality scores a trace on three independent 0-100 axes. Each axis maps
// to an actionable field instruction, so a failing trace comes back with
// recommendations instead of an opaque confidence number.
type TraceQuality struct {
	AccuracyScore     int      `json:"accuracy_score"`
	CompletenessScore int      `json:"completeness_score"`
	ConsistencyScore  int      `json:"consistency_score"`
	OverallScore      int      `json:"overall_score"`
	Issues            []string `json:"issues"`
	Recommendations   []string `json:"recommendations"`
}

// ProcessedTrace is the outcome of converting a GPS trace into a boundary.
// IsValid requires both a geometrically valid polygon and an overall quality
// score above the review gate.
type ProcessedTrace struct {
	Boundary     orb.Polygon  `json:"-"`
	AreaHectares float64      `json:"area_hectares"`
	AreaAcres    float64      `json:"area_acres"`
	QualityScore int          `json:"quality_score"`
	Quality      TraceQuality `json:"quality_metrics"`
	PointCount   int          `json:"point_count"`
	IsValid      bool         `json:"is_valid"`
	Smoothed     bool         `json:"smoothed"`
}
