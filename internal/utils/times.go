package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	// ISOLayout matches the millisecond UTC form browsers produce with toISOString.
	ISOLayout = "2006-01-02T15:04:05.000Z"
)

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDate parses a calendar date. Full timestamps are accepted too and
// keep the calendar day of their own offset.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseTimestamp parses the timestamp formats sent by clients and stored in the DB.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// FormatTimestamp renders t in the storage format (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatDuration renders minutes as "45 min", "2h" or "1h 30m".
func FormatDuration(minutes float64) string {
	if minutes <= 0 {
		return "0 min"
	}
	if minutes < 60 {
		return fmt.Sprintf("%.0f min", minutes)
	}
	total := int(minutes + 0.5)
	hours := total / 60
	mins := total % 60
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}
