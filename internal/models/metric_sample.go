package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MetricSample is one parsed health record. Every field is optional; a nil
// pointer means the record did not carry that metric.
type MetricSample struct {
	HeartRate *float64 `json:"heartRate,omitempty"` // bpm
	Calories  *float64 `json:"calories,omitempty"`  // kcal
	Steps     *float64 `json:"steps,omitempty"`
	Distance  *float64 `json:"distance,omitempty"` // meters
}

// Keys written by the smartwatch companion app, accepted next to the canonical names.
const (
	keyWatchHeartRate = "ST_GetCurrentHeartRateKey"
	keyWatchCalories  = "ST_GetCurrentValueCalorieKey"
	keyWatchSteps     = "ST_GetCurrentValueStepKey"
	keyWatchDistance  = "ST_GetCurrentValueDistanceKey"
)

// UnmarshalJSON decodes the known metric keys and ignores everything else.
// Values may be numbers or numeric strings; null and non-numeric values are
// treated as absent.
func (s *MetricSample) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = MetricSample{
		HeartRate: lookupNumber(raw, "heartRate", keyWatchHeartRate),
		Calories:  lookupNumber(raw, "calories", keyWatchCalories),
		Steps:     lookupNumber(raw, "steps", keyWatchSteps),
		Distance:  lookupNumber(raw, "distance", keyWatchDistance),
	}
	return nil
}

// Value returns the sample's value for m and whether it was present.
func (s MetricSample) Value(m Metric) (float64, bool) {
	var p *float64
	switch m {
	case MetricHeartRate:
		p = s.HeartRate
	case MetricCalories:
		p = s.Calories
	case MetricSteps:
		p = s.Steps
	case MetricDistance:
		p = s.Distance
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// IsEmpty reports whether the sample carries no metric at all.
func (s MetricSample) IsEmpty() bool {
	return s.HeartRate == nil && s.Calories == nil && s.Steps == nil && s.Distance == nil
}

// Float64 returns a pointer to v, for building samples in code.
func Float64(v float64) *float64 {
	return &v
}

func lookupNumber(raw map[string]json.RawMessage, keys ...string) *float64 {
	for _, key := range keys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		if v, ok := parseNumber(msg); ok {
			return &v
		}
	}
	return nil
}

func parseNumber(msg json.RawMessage) (float64, bool) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(msg, &f); err == nil {
		return f, true
	}

	var str string
	if err := json.Unmarshal(msg, &str); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
