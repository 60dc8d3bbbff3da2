package ledger

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateIn formats an instant as a calendar date in the given zone. The
// application pins this to Asia/Baku so "today" never depends on where the
// server happens to run.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// AddDays shifts an ISO calendar date by a number of days.
func AddDays(date string, days int) (string, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return parsed.AddDate(0, 0, days).Format(dateLayout), nil
}

// ValidDate reports whether the string is a well-formed ISO calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}
