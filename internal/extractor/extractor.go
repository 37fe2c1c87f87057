// Package extractor pulls the embedded JSON health record out of free-text posts.
package extractor

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/models"
)

// Report describes one extraction pass. Dropped and Ambiguous hold post ids.
type Report struct {
	Samples   []models.MetricSample
	Dropped   []int64
	Ambiguous []int64
}

// Extract returns one sample per post that embeds a usable JSON object,
// preserving input order. Posts without one are skipped silently.
func Extract(posts []database.Post) []models.MetricSample {
	return ExtractWithReport(posts, nil).Samples
}

// ExtractWithReport is Extract plus bookkeeping of dropped posts and posts
// carrying more than one candidate object. Only the first candidate is used.
func ExtractWithReport(posts []database.Post, logger *zap.Logger) Report {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := Report{Samples: make([]models.MetricSample, 0, len(posts))}
	for _, post := range posts {
		candidates := FindObjects(post.Content, 2)
		if len(candidates) == 0 {
			report.Dropped = append(report.Dropped, post.ID)
			logger.Debug("no JSON object in post", zap.Int64("post_id", post.ID))
			continue
		}

		if len(candidates) > 1 {
			report.Ambiguous = append(report.Ambiguous, post.ID)
			logger.Warn("post holds several JSON objects, using the first",
				zap.Int64("post_id", post.ID))
		}

		sample, ok := decode(candidates[0])
		if !ok {
			report.Dropped = append(report.Dropped, post.ID)
			logger.Debug("unusable JSON object in post", zap.Int64("post_id", post.ID))
			continue
		}
		report.Samples = append(report.Samples, sample)
	}

	return report
}

// decode rejects invalid JSON and empty objects.
func decode(candidate string) (models.MetricSample, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil || len(raw) == 0 {
		return models.MetricSample{}, false
	}

	var sample models.MetricSample
	if err := json.Unmarshal([]byte(candidate), &sample); err != nil {
		return models.MetricSample{}, false
	}
	return sample, true
}
