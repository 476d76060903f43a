package appcast

import (
	"fmt"
	"strings"
	"time"
)

// PubDateLayout is the RFC-822 style layout used by the feed, e.g.
// "Sun, 01 Jun 2025 14:53:15 +0800".
const PubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Layouts tried in order when parsing a release timestamp. Timestamps
// matching isoLayoutsLocal carry no offset and are read in the local zone.
//
//nolint:gochecknoglobals // Read-only lookup table.
var (
	isoLayoutsWithOffset = []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
	}
	isoLayoutsLocal = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" is read as UTC,
// timestamps without an offset are interpreted in the local zone.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range isoLayoutsWithOffset {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	for _, layout := range isoLayoutsLocal {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// FormatPubDate renders the release timestamp in PubDateLayout, keeping its offset.
// When value is empty the current time from now is used instead.
func FormatPubDate(value string, now func() time.Time) (string, error) {
	if value == "" {
		if now == nil {
			now = time.Now
		}

		return now().Format(PubDateLayout), nil
	}

	ts, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}

	return ts.Format(PubDateLayout), nil
}
