package parser

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/sstent/podsync-go/internal/models"
)

// FIT invalid-value markers for the session fields we read.
const (
	fitInvalidUint8  = 0xFF
	fitInvalidUint16 = 0xFFFF
)

type FITParser struct{}

func NewFITParser() *FITParser {
	return &FITParser{}
}

func (p *FITParser) ParseData(data []byte) (*models.ActivityMetrics, error) {
	fitFile, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIT file: %w", err)
	}

	activity, err := fitFile.Activity()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity from FIT: %w", err)
	}

	if len(activity.Sessions) == 0 {
		return nil, ErrNoActivity
	}

	session := activity.Sessions[0]
	metrics := &models.ActivityMetrics{
		ActivityType: strings.ToLower(session.Sport.String()),
		StartTime:    session.StartTime,
	}

	if secs := session.GetTotalTimerTimeScaled(); !math.IsNaN(secs) {
		metrics.Duration = time.Duration(secs * float64(time.Second))
	}
	if meters := session.GetTotalDistanceScaled(); !math.IsNaN(meters) {
		metrics.Distance = meters
	}
	if session.AvgHeartRate != fitInvalidUint8 {
		metrics.AvgHeartRate = int(session.AvgHeartRate)
	}
	if session.MaxHeartRate != fitInvalidUint8 {
		metrics.MaxHeartRate = int(session.MaxHeartRate)
	}
	if session.TotalCalories != fitInvalidUint16 {
		metrics.Calories = int(session.TotalCalories)
	}

	// Sessions carry no step count; steps stay absent for FIT imports.

	return metrics, nil
}
