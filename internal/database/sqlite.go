// internal/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// timeLayout is how timestamps are stored. Columns are TEXT so the driver
// hands them back verbatim instead of converting to time.Time.
const timeLayout = "2006-01-02 15:04:05"

// sortColumns whitelists the columns FilterPosts may order by.
var sortColumns = map[string]string{
	"":             "published_at",
	"published_at": "published_at",
	"created_at":   "created_at",
	"title":        "title",
	"id":           "id",
}

var _ Database = (*SQLiteDB)(nil)

type SQLiteDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteDB opens the database file at dbPath and creates the schema.
func NewSQLiteDB(dbPath string, logger *zap.Logger) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	sqlite := NewSQLiteDBFromDB(db, logger)
	if err := sqlite.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sqlite, nil
}

// NewSQLiteDBFromDB wraps an existing sql.DB connection
func NewSQLiteDBFromDB(db *sql.DB, logger *zap.Logger) *SQLiteDB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteDB{db: db, logger: logger}
}

func (s *SQLiteDB) CreateTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		published_at TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%S', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

const selectPosts = `SELECT id, title, content, published_at, created_at FROM posts`

func (s *SQLiteDB) GetPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	query := selectPosts + ` ORDER BY published_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (s *SQLiteDB) GetPost(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx, selectPosts+` WHERE id = ?`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *SQLiteDB) CreatePost(ctx context.Context, post *Post) error {
	if post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now().UTC()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO posts (title, content, published_at, created_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		post.Title, post.Content,
		post.PublishedAt.UTC().Format(timeLayout),
		post.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = id

	s.logger.Debug("post created", zap.Int64("post_id", id))
	return nil
}

func (s *SQLiteDB) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *SQLiteDB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var first, last sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(published_at), MAX(published_at) FROM posts`,
	).Scan(&stats.Total, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	if first.Valid {
		t, err := time.Parse(timeLayout, first.String)
		if err != nil {
			return nil, err
		}
		stats.FirstPublished = &t
	}
	if last.Valid {
		t, err := time.Parse(timeLayout, last.String)
		if err != nil {
			return nil, err
		}
		stats.LastPublished = &t
	}

	return stats, nil
}

func (s *SQLiteDB) FilterPosts(ctx context.Context, filters PostFilters) ([]Post, error) {
	query := selectPosts + ` WHERE 1=1`

	var args []interface{}
	var conditions []string

	if filters.DateFrom != nil {
		conditions = append(conditions, "published_at >= ?")
		args = append(args, filters.DateFrom.UTC().Format(timeLayout))
	}

	if filters.DateTo != nil {
		conditions = append(conditions, "published_at <= ?")
		args = append(args, filters.DateTo.UTC().Format(timeLayout))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := sortColumns[filters.SortBy]
	if !ok {
		return nil, fmt.Errorf("unsupported sort column %q", filters.SortBy)
	}

	order := "ASC"
	if filters.SortOrder == "desc" {
		order = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s, id %s", orderBy, order, order)

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)

		if filters.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filters.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	var publishedAt, createdAt string

	if err := row.Scan(&p.ID, &p.Title, &p.Content, &publishedAt, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if p.PublishedAt, err = time.Parse(timeLayout, publishedAt); err != nil {
		return nil, fmt.Errorf("post %d: bad published_at: %w", p.ID, err)
	}
	if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("post %d: bad created_at: %w", p.ID, err)
	}

	return &p, nil
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
