// Package reltime formats timestamps as coarse human-readable ages.
package reltime

import (
	"fmt"
	"time"
)

// Format returns how long before now t happened: "Just now", "Nm ago",
// "Nh ago" or "Nd ago". Magnitudes are floored. Timestamps after now read
// as "Just now".
func Format(t, now time.Time) string {
	elapsed := now.Sub(t)
	minutes := int64(elapsed / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	}
}

// FormatISO parses an RFC 3339 timestamp and formats it relative to now.
func FormatISO(iso string, now time.Time) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", iso, err)
	}
	return Format(t, now), nil
}
