// Package analysis turns parsed health samples into summary statistics and
// health suggestions.
package analysis

import (
	"math"

	"github.com/sstent/podsync-go/internal/models"
)

const (
	HighHeartRateThreshold = 100.0
	LowStepsThreshold      = 5000.0

	SuggestionHighHeartRate = "Your average heart rate is quite high. Consider lowering the intensity of your workouts."
	SuggestionLowSteps      = "Your step count is below the recommended level. Try to increase your daily activity."
)

// Aggregate computes per-metric statistics over samples. It is a pure
// function: the same input always yields the same result.
//
// Each metric is averaged over the samples that carry it, not over the total
// sample count. Statistics of a metric with no values are all zero.
func Aggregate(samples []models.MetricSample) models.AnalysisResult {
	result := models.AnalysisResult{
		HeartRate:         summarize(collect(samples, models.MetricHeartRate)),
		Calories:          summarize(collect(samples, models.MetricCalories)),
		Steps:             summarize(collect(samples, models.MetricSteps)),
		Distance:          summarize(collect(samples, models.MetricDistance)),
		TotalEntries:      len(samples),
		HealthSuggestions: []string{},
	}

	if len(samples) == 0 {
		return result
	}

	result.HealthSuggestions = suggest(result)
	return result
}

func collect(samples []models.MetricSample, m models.Metric) models.MetricSeries {
	series := models.MetricSeries{}
	for _, s := range samples {
		if v, ok := s.Value(m); ok {
			series = append(series, v)
		}
	}
	return series
}

func summarize(series models.MetricSeries) models.SummaryStats {
	stats := models.SummaryStats{Series: series}
	if len(series) == 0 {
		return stats
	}

	mean := Mean(series)
	stats.Average = Round(mean, 2)
	stats.Max, stats.Min = series[0], series[0]
	for _, v := range series[1:] {
		stats.Max = math.Max(stats.Max, v)
		stats.Min = math.Min(stats.Min, v)
	}
	stats.StdDev = StdDev(series)

	return stats
}

// suggest checks heart rate first, then steps.
func suggest(r models.AnalysisResult) []string {
	suggestions := []string{}
	if r.HeartRate.Average > HighHeartRateThreshold {
		suggestions = append(suggestions, SuggestionHighHeartRate)
	}
	if r.Steps.Average < LowStepsThreshold {
		suggestions = append(suggestions, SuggestionLowSteps)
	}
	return suggestions
}
