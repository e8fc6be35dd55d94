package geometry

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// DefaultAccuracyMeters is assumed for trace points whose device did not
// report an accuracy reading.
const DefaultAccuracyMeters = 10.0

// ScoreTrace rates a raw GPS trace on three independent axes and averages
// them into an overall score. Scoring always runs on the raw trace, before
// any smoothing, so the score reflects what the device actually recorded.
func ScoreTrace(points []domain.TracePoint) domain.TraceQuality {
	quality := domain.TraceQuality{
		Issues:          []string{},
		Recommendations: []string{},
	}
	if len(points) < 2 {
		return quality
	}

	quality.AccuracyScore = scoreAccuracy(points, &quality)
	quality.CompletenessScore = scoreCompleteness(points, &quality)
	quality.ConsistencyScore = scoreConsistency(points, &quality)

	sum := quality.AccuracyScore + quality.CompletenessScore + quality.ConsistencyScore
	quality.OverallScore = int(math.Round(float64(sum) / 3.0))

	return quality
}

// scoreAccuracy rates the average reported GPS accuracy of the trace.
func scoreAccuracy(points []domain.TracePoint, quality *domain.TraceQuality) int {
	accuracies := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Accuracy != nil {
			accuracies = append(accuracies, *p.Accuracy)
		} else {
			accuracies = append(accuracies, DefaultAccuracyMeters)
		}
	}

	avg, err := stats.Mean(accuracies)
	if err != nil {
		return 0
	}

	switch {
	case avg <= 3:
		return 100
	case avg <= 5:
		return 80
	case avg <= 10:
		return 60
	default:
		quality.Issues = append(quality.Issues, fmt.Sprintf("average GPS accuracy is %.1f m", avg))
		quality.Recommendations = append(quality.Recommendations, "re-walk the boundary with a clear sky view for better GPS accuracy")
		return 30
	}
}

// scoreCompleteness rates how close the trace comes back to its start point.
func scoreCompleteness(points []domain.TracePoint, quality *domain.TraceQuality) int {
	first := points[0]
	last := points[len(points)-1]
	closure := geo.Distance(orb.Point{first.Lng, first.Lat}, orb.Point{last.Lng, last.Lat})

	switch {
	case closure <= 5:
		return 100
	case closure <= 10:
		return 80
	case closure <= 20:
		return 60
	default:
		quality.Issues = append(quality.Issues, fmt.Sprintf("trace ends %.0f m from its start", closure))
		quality.Recommendations = append(quality.Recommendations, "finish recording at the same corner where the walk started")
		return 30
	}
}

// scoreConsistency rates gap uniformity between consecutive points. A max gap
// far above the average usually means the recorder paused or lost signal.
func scoreConsistency(points []domain.TracePoint, quality *domain.TraceQuality) int {
	gaps := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := orb.Point{points[i-1].Lng, points[i-1].Lat}
		curr := orb.Point{points[i].Lng, points[i].Lat}
		gaps = append(gaps, geo.Distance(prev, curr))
	}

	avg, err := stats.Mean(gaps)
	if err != nil {
		return 0
	}
	maxGap, err := stats.Max(gaps)
	if err != nil {
		return 0
	}

	// A stationary trace has every gap at zero, which is perfectly uniform.
	if avg == 0 {
		return 100
	}

	switch {
	case maxGap <= 3*avg:
		return 100
	case maxGap <= 5*avg:
		return 80
	default:
		quality.Issues = append(quality.Issues, fmt.Sprintf("largest gap between points is %.0f m against a %.0f m average", maxGap, avg))
		quality.Recommendations = append(quality.Recommendations, "keep walking at a steady pace without pausing the recording")
		return 60
	}
}
