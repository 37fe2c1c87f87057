package models

import "time"

// ActivityMetrics contains the metrics extracted from a watch export file.
// Zero values mean the file did not record the metric.
type ActivityMetrics struct {
	ActivityType string
	StartTime    time.Time
	Duration     time.Duration
	Distance     float64 // in meters
	MaxHeartRate int
	AvgHeartRate int
	Calories     int
	Steps        int
}

// Sample converts the activity into the record shape the analysis reads.
func (a *ActivityMetrics) Sample() MetricSample {
	var s MetricSample
	if a.AvgHeartRate > 0 {
		s.HeartRate = Float64(float64(a.AvgHeartRate))
	}
	if a.Calories > 0 {
		s.Calories = Float64(float64(a.Calories))
	}
	if a.Steps > 0 {
		s.Steps = Float64(float64(a.Steps))
	}
	if a.Distance > 0 {
		s.Distance = Float64(a.Distance)
	}
	return s
}
