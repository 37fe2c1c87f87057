package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sstent/podsync-go/internal/database"
	"github.com/sstent/podsync-go/internal/models"
	"github.com/sstent/podsync-go/internal/parser"
)

// PostWriter is the store the sync service writes imported activities to.
type PostWriter interface {
	CreatePost(ctx context.Context, post *database.Post) error
}

// SyncService imports watch export files dropped into DATA_DIR/inbox.
type SyncService struct {
	db      PostWriter
	dataDir string
	logger  *zap.Logger
}

// Result summarizes one Sync run.
type Result struct {
	Imported int
	Failed   int
}

func NewSyncService(db PostWriter, dataDir string, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		db:      db,
		dataDir: dataDir,
		logger:  logger,
	}
}

func (s *SyncService) InboxDir() string     { return filepath.Join(s.dataDir, "inbox") }
func (s *SyncService) ProcessedDir() string { return filepath.Join(s.dataDir, "processed") }
func (s *SyncService) FailedDir() string    { return filepath.Join(s.dataDir, "failed") }

// Sync imports every supported file in the inbox. A file that fails to import
// is moved to the failed directory and the run continues.
func (s *SyncService) Sync(ctx context.Context) (Result, error) {
	var result Result
	startTime := time.Now()

	for _, dir := range []string{s.InboxDir(), s.ProcessedDir(), s.FailedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	files, err := s.pendingFiles()
	if err != nil {
		return result, err
	}
	s.logger.Info("starting sync", zap.Int("files", len(files)))

	for i, name := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		path := filepath.Join(s.InboxDir(), name)
		log := s.logger.With(zap.String("file", name), zap.Int("index", i+1))

		post, err := s.importFile(ctx, path)
		if err != nil {
			result.Failed++
			log.Error("import failed", zap.Error(err))
			if mvErr := os.Rename(path, filepath.Join(s.FailedDir(), name)); mvErr != nil {
				log.Error("failed to move file", zap.Error(mvErr))
			}
			continue
		}

		result.Imported++
		if err := os.Rename(path, filepath.Join(s.ProcessedDir(), name)); err != nil {
			log.Error("failed to move file", zap.Error(err))
		}
		log.Info("imported activity", zap.Int64("post_id", post.ID))
	}

	s.logger.Info("sync completed",
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	return result, nil
}

func (s *SyncService) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(s.InboxDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !parser.Supported(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func (s *SyncService) importFile(ctx context.Context, path string) (*database.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.ImportData(ctx, filepath.Base(path), data)
}

// ImportData parses one activity file and stores it as a post.
func (s *SyncService) ImportData(ctx context.Context, filename string, data []byte) (*database.Post, error) {
	p, err := parser.NewParser(filename, data)
	if err != nil {
		return nil, err
	}

	metrics, err := p.ParseData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse activity file: %w", err)
	}

	post, err := PostFromActivity(filename, metrics)
	if err != nil {
		return nil, err
	}

	if err := s.db.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to store activity: %w", err)
	}
	return post, nil
}

// ErrNoMetrics is returned for activities without any of the tracked metrics.
var ErrNoMetrics = errors.New("activity has no heart rate, calories, steps or distance")

// PostFromActivity renders an activity as a post: a title line followed by the
// JSON record the analysis extracts.
func PostFromActivity(filename string, metrics *models.ActivityMetrics) (*database.Post, error) {
	sample := metrics.Sample()
	if sample.IsEmpty() {
		return nil, ErrNoMetrics
	}

	body, err := json.Marshal(sample)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if metrics.ActivityType != "" {
		title = fmt.Sprintf("%s (%s)", title, metrics.ActivityType)
	}

	return &database.Post{
		Title:       title,
		Content:     title + "\n" + string(body),
		PublishedAt: metrics.StartTime,
	}, nil
}
