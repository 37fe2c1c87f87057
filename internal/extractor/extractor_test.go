package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/database"
)

func posts(contents ...string) []database.Post {
	out := make([]database.Post, len(contents))
	for i, c := range contents {
		out[i] = database.Post{ID: int64(i + 1), Content: c}
	}
	return out
}

func TestExtract_EmbeddedObject(t *testing.T) {
	samples := Extract(posts(`noise {"heartRate":72} trailing`))

	require.Len(t, samples, 1)
	require.NotNil(t, samples[0].HeartRate)
	assert.Equal(t, 72.0, *samples[0].HeartRate)
}

func TestExtract_BrokenJSONDropped(t *testing.T) {
	assert.Empty(t, Extract(posts(`{broken`)))
	assert.Empty(t, Extract(posts(`{broken}`)))
}

func TestExtract_NoObjectDropped(t *testing.T) {
	assert.Empty(t, Extract(posts(`just a diary entry`, ``)))
}

func TestExtract_EmptyObjectDropped(t *testing.T) {
	assert.Empty(t, Extract(posts(`{}`, `text { } text`)))
}

func TestExtract_UnknownKeysStillCount(t *testing.T) {
	samples := Extract(posts(`{"mood":"good"}`))

	require.Len(t, samples, 1)
	assert.True(t, samples[0].IsEmpty())
}

func TestExtract_MultilineObject(t *testing.T) {
	samples := Extract(posts("today:\n{\n  \"steps\": 9000,\n  \"distance\": 6100\n}\n"))

	require.Len(t, samples, 1)
	assert.Equal(t, 9000.0, *samples[0].Steps)
	assert.Equal(t, 6100.0, *samples[0].Distance)
}

func TestExtract_NestedObject(t *testing.T) {
	samples := Extract(posts(`{"device":{"model":"pod"},"heartRate":70}`))

	require.Len(t, samples, 1)
	assert.Equal(t, 70.0, *samples[0].HeartRate)
}

func TestExtract_BraceInsideString(t *testing.T) {
	samples := Extract(posts(`{"note":"} oops {","calories":120}`))

	require.Len(t, samples, 1)
	assert.Equal(t, 120.0, *samples[0].Calories)
}

func TestExtract_PreservesOrder(t *testing.T) {
	samples := Extract(posts(`{"heartRate":1}`, `skip`, `{"heartRate":2}`, `{"heartRate":3}`))

	require.Len(t, samples, 3)
	for i, s := range samples {
		assert.Equal(t, float64(i+1), *s.HeartRate)
	}
}

func TestExtractWithReport_FlagsAmbiguousPosts(t *testing.T) {
	report := ExtractWithReport(posts(
		`{"heartRate":60} and later {"heartRate":99}`,
		`{bad} {"heartRate":99}`,
		`{"steps":10}`,
	), zap.NewNop())

	require.Len(t, report.Samples, 2)
	assert.Equal(t, 60.0, *report.Samples[0].HeartRate)
	assert.Equal(t, 10.0, *report.Samples[1].Steps)
	assert.Equal(t, []int64{1, 2}, report.Ambiguous)
	assert.Equal(t, []int64{2}, report.Dropped)
}

func TestFindObjects(t *testing.T) {
	cases := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"none", "plain", 0, nil},
		{"single", `a {"x":1} b`, 0, []string{`{"x":1}`}},
		{"two", `{"a":1}{"b":2}`, 0, []string{`{"a":1}`, `{"b":2}`}},
		{"limited", `{"a":1}{"b":2}`, 1, []string{`{"a":1}`}},
		{"unterminated", `{"a":1} {"b":`, 0, []string{`{"a":1}`}},
		{"escaped quote", `{"a":"\"}"}`, 0, []string{`{"a":"\"}"}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FindObjects(tc.text, tc.max))
		})
	}
}
