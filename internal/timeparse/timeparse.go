// Package timeparse normalizes the many timestamp shapes news sources
// report ("2 hours ago", ISO 8601, RFC 2822, epoch seconds) to UTC.
//
// Every function takes the run's reference time explicitly so that a run
// with a fixed fetch time is fully deterministic.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var relativeRe = regexp.MustCompile(`(\d+)\s*(second|minute|hour|day|week|month|year)s?\s*ago`)

// Parse converts a time string to a UTC time. The boolean reports whether
// the string was understood; callers treat false as "time unknown".
func Parse(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseRelative(s, now); ok {
		return t, true
	}

	// Bare digits are epoch seconds (Hacker News, Reddit APIs).
	if isDigits(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return time.Unix(secs, 0).UTC(), true
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ToISO8601 returns the RFC 3339 form of s, or "" when unparseable.
func ToISO8601(s string, now time.Time) string {
	t, ok := Parse(s, now)
	if !ok {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseRelative(s string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(s)

	switch lower {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC), true
	case "yesterday":
		y := now.UTC().AddDate(0, 0, -1)
		return time.Date(y.Year(), y.Month(), y.Day(), 12, 0, 0, 0, time.UTC), true
	}

	m := relativeRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	var d time.Duration
	switch m[2] {
	case "second":
		d = time.Duration(value) * time.Second
	case "minute":
		d = time.Duration(value) * time.Minute
	case "hour":
		d = time.Duration(value) * time.Hour
	case "day":
		d = time.Duration(value) * 24 * time.Hour
	case "week":
		d = time.Duration(value) * 7 * 24 * time.Hour
	case "month":
		d = time.Duration(value) * 30 * 24 * time.Hour
	case "year":
		d = time.Duration(value) * 365 * 24 * time.Hour
	}
	return now.UTC().Add(-d), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
