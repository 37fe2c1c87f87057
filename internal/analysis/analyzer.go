package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/extractor"
	"github.com/sstent/podsync-go/internal/models"
)

// PostSource is the part of the post store the analyzer reads from.
type PostSource interface {
	FilterPosts(ctx context.Context, filters database.PostFilters) ([]database.Post, error)
}

// Analyzer runs query, extraction and aggregation for one request.
type Analyzer struct {
	posts  PostSource
	logger *zap.Logger
}

func NewAnalyzer(posts PostSource, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{posts: posts, logger: logger}
}

// Analyze loads the posts published inside r and summarizes their records.
func (a *Analyzer) Analyze(ctx context.Context, r DateRange) (*models.AnalysisResult, error) {
	start := time.Now()

	posts, err := a.posts.FilterPosts(ctx, database.PostFilters{DateFrom: r.From, DateTo: r.To})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	report := extractor.ExtractWithReport(posts, a.logger)
	result := Aggregate(report.Samples)
	result.From, result.To = r.From, r.To

	a.logger.Info("analysis complete",
		zap.String("range", r.String()),
		zap.Int("posts", len(posts)),
		zap.Int("entries", result.TotalEntries),
		zap.Int("dropped", len(report.Dropped)),
		zap.Int("ambiguous", len(report.Ambiguous)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &result, nil
}
