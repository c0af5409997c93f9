package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseKickoff normalizes a loose provider kickoff string into a UTC instant.
// Accepted shapes include RFC 3339 timestamps, "2026-01-30, 07:00 PM" and
// 24-hour variants without a meridiem. hourOffset shifts the result by a fixed
// number of hours for providers whose timestamps are not truly UTC.
//
// Parsing fails soft: any malformed input yields now() so a single bad entry
// never breaks a directory listing.
func ParseKickoff(raw string, hourOffset int, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return now().UTC()
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.UTC().Add(time.Duration(hourOffset) * time.Hour)
	}

	cleaned := strings.NewReplacer(",", " ", ";", " ").Replace(trimmed)
	fields := strings.Fields(cleaned)
	if len(fields) < 2 {
		return now().UTC()
	}

	date, err := ParseDate(trimToken(fields[0]))
	if err != nil {
		return now().UTC()
	}

	hour, minute, ok := parseClock(trimToken(fields[1]))
	if !ok {
		return now().UTC()
	}

	if len(fields) >= 3 {
		switch strings.ToUpper(trimToken(fields[2])) {
		case "PM":
			if hour < 12 {
				hour += 12
			}
		case "AM":
			if hour == 12 {
				hour = 0
			}
		}
	}

	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	return t.Add(time.Duration(hourOffset) * time.Hour)
}

func parseClock(token string) (hour, minute int, ok bool) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func trimToken(token string) string {
	return strings.Trim(token, ".,;")
}
