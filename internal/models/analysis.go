package models

import "time"

// Metric identifies one of the four tracked health metrics.
type Metric string

const (
	MetricHeartRate Metric = "heart_rate"
	MetricCalories  Metric = "calories"
	MetricSteps     Metric = "steps"
	MetricDistance  Metric = "distance"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricHeartRate, MetricCalories, MetricSteps, MetricDistance}

func (m Metric) Label() string {
	switch m {
	case MetricHeartRate:
		return "Heart Rate"
	case MetricCalories:
		return "Calories"
	case MetricSteps:
		return "Steps"
	case MetricDistance:
		return "Distance"
	default:
		return string(m)
	}
}

// Unit is the display unit; steps are a plain count and have none.
func (m Metric) Unit() string {
	switch m {
	case MetricHeartRate:
		return "bpm"
	case MetricCalories:
		return "kcal"
	case MetricDistance:
		return "meters"
	default:
		return ""
	}
}

// MetricSeries holds the present values of one metric in input order.
type MetricSeries []float64

type SummaryStats struct {
	Average float64      `json:"average"`
	Max     float64      `json:"max"`
	Min     float64      `json:"min"`
	StdDev  float64      `json:"std_dev"`
	Series  MetricSeries `json:"series"`
}

// AnalysisResult is computed fresh for every request and never persisted.
type AnalysisResult struct {
	From              *time.Time   `json:"from,omitempty"`
	To                *time.Time   `json:"to,omitempty"`
	HeartRate         SummaryStats `json:"heart_rate"`
	Calories          SummaryStats `json:"calories"`
	Steps             SummaryStats `json:"steps"`
	Distance          SummaryStats `json:"distance"`
	TotalEntries      int          `json:"total_entries"`
	HealthSuggestions []string     `json:"health_suggestions"`
}

// Stats returns the summary for m.
func (r *AnalysisResult) Stats(m Metric) SummaryStats {
	switch m {
	case MetricHeartRate:
		return r.HeartRate
	case MetricCalories:
		return r.Calories
	case MetricSteps:
		return r.Steps
	case MetricDistance:
		return r.Distance
	default:
		return SummaryStats{}
	}
}

// ChartPoint is one (index, value) pair handed to the chart.
type ChartPoint struct {
	Index int     `json:"x"`
	Value float64 `json:"y"`
}

// HeartRateChart pairs each heart-rate value with its 1-based position.
func (r *AnalysisResult) HeartRateChart() []ChartPoint {
	points := make([]ChartPoint, 0, len(r.HeartRate.Series))
	for i, v := range r.HeartRate.Series {
		points = append(points, ChartPoint{Index: i + 1, Value: v})
	}
	return points
}
