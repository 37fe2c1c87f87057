// internal/database/models.go
package database

import (
	"context"
	"errors"
	"time"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("post not found")

// Post is one content entry. Its Content is free text that may embed a JSON
// health record somewhere inside it.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type Stats struct {
	Total          int        `json:"total"`
	FirstPublished *time.Time `json:"first_published,omitempty"`
	LastPublished  *time.Time `json:"last_published,omitempty"`
}

// Database interface
type Database interface {
	// Posts
	GetPosts(ctx context.Context, limit, offset int) ([]Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	CreatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int64) error

	// Stats
	GetStats(ctx context.Context) (*Stats, error)

	// Search and filter
	FilterPosts(ctx context.Context, filters PostFilters) ([]Post, error)

	// Close connection
	Close() error
}

// PostFilters narrows FilterPosts. Both date bounds are inclusive.
type PostFilters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
