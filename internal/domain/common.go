package domain

// LatLng is a geographic coordinate as submitted by clients (degrees).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a lat/lon envelope, used for the configurable operating region.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the envelope.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLon && lng <= b.MaxLon
}

// BoundingBox describes a polygon's extent with metric dimensions.
type BoundingBox struct {
	MinLon       float64 `json:"min_longitude"`
	MinLat       float64 `json:"min_latitude"`
	MaxLon       float64 `json:"max_longitude"`
	MaxLat       float64 `json:"max_latitude"`
	WidthMeters  float64 `json:"width_meters"`
	HeightMeters float64 `json:"height_meters"`
}

// AreaBreakdown is a polygon area in every unit the service reports.
type AreaBreakdown struct {
	SquareMeters float64 `json:"square_meters"`
	Acres        float64 `json:"acres"`
	Hectares     float64 `json:"hectares"`
}

// Distance between two farm centers.
type Distance struct {
	Meters float64 `json:"distance_meters"`
	Km     float64 `json:"distance_km"`
	Miles  float64 `json:"distance_miles"`
}

// ValidationResult is the outcome of the boundary validation gate. Errors block
// the operation; warnings are advisory and always returned to the caller.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Anomaly severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Anomaly types.
const (
	AnomalyInvalidPolygon   = "invalid_polygon"
	AnomalySelfIntersection = "self_intersection"
	AnomalyTooFewPoints     = "too_few_points"
	AnomalyTooManyPoints    = "too_many_points"
	AnomalyIrregularShape   = "irregular_shape"
	AnomalySizeAnomaly      = "size_anomaly"
)

// Anomaly is a single boundary check finding. Anomalies never block an
// operation; fraud scoring consumes them as risk signals.
type Anomaly struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// AnomalyReport is the complete result of the boundary check sequence.
type AnomalyReport struct {
	HasAnomalies bool      `json:"has_anomalies"`
	AnomalyCount int       `json:"anomaly_count"`
	Anomalies    []Anomaly `json:"anomalies"`
}
