package parser

import (
	"encoding/xml"
	"math"
	"time"

	"github.com/sstent/podsync-go/internal/models"
)

// GPX represents the root element of a GPX file
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Tracks  []Trk    `xml:"trk"`
}

type Trk struct {
	Name   string   `xml:"name"`
	TrkSeg []TrkSeg `xml:"trkseg"`
}

type TrkSeg struct {
	TrkPt []TrkPt `xml:"trkpt"`
}

type TrkPt struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Ele  float64 `xml:"ele"`
	Time string  `xml:"time"`
	HR   int     `xml:"extensions>TrackPointExtension>hr"`
}

// GPXParser derives distance, duration and heart rate from track points.
type GPXParser struct{}

func NewGPXParser() *GPXParser {
	return &GPXParser{}
}

func (p *GPXParser) ParseData(data []byte) (*models.ActivityMetrics, error) {
	var gpx GPX
	if err := xml.Unmarshal(data, &gpx); err != nil {
		return nil, err
	}

	var points []TrkPt
	for _, trk := range gpx.Tracks {
		for _, seg := range trk.TrkSeg {
			points = append(points, seg.TrkPt...)
		}
	}
	if len(points) == 0 {
		return nil, ErrNoActivity
	}

	metrics := &models.ActivityMetrics{ActivityType: "other"}

	var startTime, endTime time.Time
	var hr []int
	for i, pt := range points {
		if t, err := time.Parse(time.RFC3339, pt.Time); err == nil {
			if startTime.IsZero() {
				startTime = t
			}
			endTime = t
		}
		if i > 0 {
			prev := points[i-1]
			metrics.Distance += haversine(prev.Lat, prev.Lon, pt.Lat, pt.Lon)
		}
		if pt.HR > 0 {
			hr = append(hr, pt.HR)
			if pt.HR > metrics.MaxHeartRate {
				metrics.MaxHeartRate = pt.HR
			}
		}
	}

	metrics.StartTime = startTime
	if !startTime.IsZero() {
		metrics.Duration = endTime.Sub(startTime)
	}
	if len(hr) > 0 {
		metrics.AvgHeartRate = meanInt(hr)
	}

	return metrics, nil
}

// haversine calculates the distance in meters between two points on Earth
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371000 // Earth radius in meters
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*
			math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
