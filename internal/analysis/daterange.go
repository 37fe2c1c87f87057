package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("start date is after end date")

// DateRange bounds an analysis. Nil bounds are open; both ends are inclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange reads two YYYY-MM-DD strings. Blank strings leave that side
// open. To is moved to the last second of its day so the whole day counts.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: %w", s, err)
		}
		r.From = &t
	}

	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: %w", s, err)
		}
		t = t.Add(24*time.Hour - time.Second)
		r.To = &t
	}

	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return DateRange{}, ErrInvalidRange
	}

	return r, nil
}

// String renders the range for logs and page headings.
func (r DateRange) String() string {
	from, to := "beginning", "now"
	if r.From != nil {
		from = r.From.Format(dateLayout)
	}
	if r.To != nil {
		to = r.To.Format(dateLayout)
	}
	return from + " to " + to
}
