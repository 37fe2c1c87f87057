package parser

import (
	"encoding/xml"
	"time"

	"github.com/sstent/podsync-go/internal/models"
)

type TCXParser struct{}

func NewTCXParser() *TCXParser {
	return &TCXParser{}
}

type tcxDatabase struct {
	Activities struct {
		Activity []tcxActivity `xml:"Activity"`
	} `xml:"Activities"`
}

type tcxActivity struct {
	Sport string   `xml:"Sport,attr"`
	Laps  []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	StartTime        string       `xml:"StartTime,attr"`
	TotalTimeSeconds float64      `xml:"TotalTimeSeconds"`
	DistanceMeters   float64      `xml:"DistanceMeters"`
	Calories         int          `xml:"Calories"`
	AverageHeartRate tcxHeartRate `xml:"AverageHeartRateBpm"`
	MaximumHeartRate tcxHeartRate `xml:"MaximumHeartRateBpm"`
	Trackpoints      []struct {
		HeartRateBpm tcxHeartRate `xml:"HeartRateBpm"`
	} `xml:"Track>Trackpoint"`
}

type tcxHeartRate struct {
	Value int `xml:"Value"`
}

func (p *TCXParser) ParseData(data []byte) (*models.ActivityMetrics, error) {
	var tcx tcxDatabase
	if err := xml.Unmarshal(data, &tcx); err != nil {
		return nil, err
	}

	if len(tcx.Activities.Activity) == 0 || len(tcx.Activities.Activity[0].Laps) == 0 {
		return nil, ErrNoActivity
	}

	activity := tcx.Activities.Activity[0]
	metrics := &models.ActivityMetrics{
		ActivityType: mapTCXSportType(activity.Sport),
	}

	if startTime, err := time.Parse(time.RFC3339, activity.Laps[0].StartTime); err == nil {
		metrics.StartTime = startTime
	}

	var totalDuration float64
	var lapHR, pointHR []int

	for _, lap := range activity.Laps {
		totalDuration += lap.TotalTimeSeconds
		metrics.Distance += lap.DistanceMeters
		metrics.Calories += lap.Calories

		if lap.MaximumHeartRate.Value > metrics.MaxHeartRate {
			metrics.MaxHeartRate = lap.MaximumHeartRate.Value
		}
		if lap.AverageHeartRate.Value > 0 {
			lapHR = append(lapHR, lap.AverageHeartRate.Value)
		}
		for _, tp := range lap.Trackpoints {
			if tp.HeartRateBpm.Value > 0 {
				pointHR = append(pointHR, tp.HeartRateBpm.Value)
			}
		}
	}

	metrics.Duration = time.Duration(totalDuration * float64(time.Second))

	// Trackpoint samples are finer grained than lap averages when present.
	if len(pointHR) > 0 {
		metrics.AvgHeartRate = meanInt(pointHR)
	} else if len(lapHR) > 0 {
		metrics.AvgHeartRate = meanInt(lapHR)
	}

	return metrics, nil
}

func mapTCXSportType(sport string) string {
	switch sport {
	case "Running":
		return "running"
	case "Biking":
		return "cycling"
	default:
		return "other"
	}
}

func meanInt(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum / len(values)
}
