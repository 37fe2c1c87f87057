package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricSampleUnmarshal_CanonicalKeys(t *testing.T) {
	var s MetricSample
	require.NoError(t, json.Unmarshal([]byte(`{"heartRate":72,"calories":310.5,"steps":8000,"distance":5200,"note":"x"}`), &s))

	require.NotNil(t, s.HeartRate)
	assert.Equal(t, 72.0, *s.HeartRate)
	assert.Equal(t, 310.5, *s.Calories)
	assert.Equal(t, 8000.0, *s.Steps)
	assert.Equal(t, 5200.0, *s.Distance)
}

func TestMetricSampleUnmarshal_WatchKeys(t *testing.T) {
	var s MetricSample
	require.NoError(t, json.Unmarshal([]byte(`{"ST_GetCurrentHeartRateKey":88,"ST_GetCurrentValueStepKey":"1200"}`), &s))

	require.NotNil(t, s.HeartRate)
	assert.Equal(t, 88.0, *s.HeartRate)
	require.NotNil(t, s.Steps)
	assert.Equal(t, 1200.0, *s.Steps)
	assert.Nil(t, s.Calories)
	assert.Nil(t, s.Distance)
}

func TestMetricSampleUnmarshal_NullAndGarbageAreAbsent(t *testing.T) {
	var s MetricSample
	require.NoError(t, json.Unmarshal([]byte(`{"heartRate":null,"steps":"lots","calories":[1]}`), &s))

	assert.True(t, s.IsEmpty())
}

func TestMetricSampleValue(t *testing.T) {
	s := MetricSample{Distance: Float64(3.5)}

	v, ok := s.Value(MetricDistance)
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = s.Value(MetricHeartRate)
	assert.False(t, ok)
}

func TestActivityMetricsSample_SkipsZeroFields(t *testing.T) {
	a := ActivityMetrics{AvgHeartRate: 140, Distance: 10000}
	s := a.Sample()

	require.NotNil(t, s.HeartRate)
	assert.Equal(t, 140.0, *s.HeartRate)
	assert.Equal(t, 10000.0, *s.Distance)
	assert.Nil(t, s.Calories)
	assert.Nil(t, s.Steps)
}

func TestHeartRateChart(t *testing.T) {
	r := AnalysisResult{HeartRate: SummaryStats{Series: MetricSeries{70, 80}}}

	assert.Equal(t, []ChartPoint{{Index: 1, Value: 70}, {Index: 2, Value: 80}}, r.HeartRateChart())
}
