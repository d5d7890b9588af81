package reltime

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	base := time.Date(2026, time.January, 10, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"same instant", 0, "Just now"},
		{"59 seconds", 59 * time.Second, "Just now"},
		{"future", -time.Hour, "Just now"},
		{"90 seconds", 90 * time.Second, "1m ago"},
		{"59 minutes", 59*time.Minute + 59*time.Second, "59m ago"},
		{"one hour", time.Hour, "1h ago"},
		{"3661 seconds", 3661 * time.Second, "1h ago"},
		{"23h59m", 24*time.Hour - time.Minute, "23h ago"},
		{"one day", 24 * time.Hour, "1d ago"},
		{"90000 seconds", 90000 * time.Second, "1d ago"},
		{"47 hours", 47 * time.Hour, "1d ago"},
		{"ten days", 240 * time.Hour, "10d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(base, base.Add(tt.elapsed)); got != tt.want {
				t.Errorf("Format(+%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestFormatISO(t *testing.T) {
	now := time.Date(2026, time.January, 10, 10, 0, 0, 0, time.UTC)

	got, err := FormatISO("2026-01-10T08:30:00Z", now)
	if err != nil {
		t.Fatalf("FormatISO: %v", err)
	}
	if got != "1h ago" {
		t.Errorf("expected '1h ago', got %q", got)
	}

	if _, err := FormatISO("yesterday", now); err == nil {
		t.Error("expected error for invalid timestamp")
	}
}
