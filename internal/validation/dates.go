package validation

import (
	"fmt"
	"time"
)

// ParseDate parses a date in ISO form, falling back to RFC3339 for callers
// that send full timestamps. The result is truncated to midnight UTC.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, value)
		}
	}
	return parsed.UTC().Truncate(24 * time.Hour), nil
}

// ValidateDateRange checks that end is not before start.
func ValidateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidDateRange)
	}
	return nil
}
