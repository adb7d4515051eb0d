// Package dates computes calendar distances between instants.
package dates

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDate is returned by Parse for unrecognised input.
var ErrInvalidDate = errors.New("invalid date")

const msPerDay = 24 * 60 * 60 * 1000

// DaysBetween returns the absolute distance between a and b in whole days.
// The millisecond difference is divided by 86,400,000 and rounded half up,
// so 1.5 days counts as 2 and 12 hours as 1. Instants more than 292 years
// apart are handled exactly; time.Duration would saturate there.
func DaysBetween(a, b time.Time) int {
	diff := a.UnixMilli() - b.UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return int(math.Floor(float64(diff)/msPerDay + 0.5))
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. Values
// without a zone are interpreted as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (want RFC 3339 or YYYY-MM-DD)", ErrInvalidDate, s)
}
