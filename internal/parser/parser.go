package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/sstent/podsync-go/internal/models"
)

var (
	ErrNoActivity      = errors.New("no activity data found")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Parser decodes one activity export into its summary metrics.
type Parser interface {
	ParseData(data []byte) (*models.ActivityMetrics, error)
}

// ParseFile reads filename and decodes it with the parser matching its type.
func ParseFile(filename string) (*models.ActivityMetrics, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	p, err := NewParser(filename, data)
	if err != nil {
		return nil, err
	}

	metrics, err := p.ParseData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return metrics, nil
}
