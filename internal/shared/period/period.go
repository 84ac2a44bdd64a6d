// Package period handles the year-month labels that scope revenue,
// entitlements, and payouts.
package period

import (
	"errors"
	"time"
)

const layout = "2006-01"

var ErrInvalidPeriod = errors.New("period must be a YYYY-MM label")

// Validate reports whether label is a well-formed YYYY-MM period.
func Validate(label string) error {
	parsed, err := time.Parse(layout, label)
	if err != nil {
		return ErrInvalidPeriod
	}
	// time.Parse accepts out-of-range months by rolling over; reformatting
	// catches labels like "2025-13".
	if parsed.Format(layout) != label {
		return ErrInvalidPeriod
	}
	return nil
}

// FromTime buckets a timestamp into its UTC period label.
func FromTime(t time.Time) string {
	return t.UTC().Format(layout)
}
