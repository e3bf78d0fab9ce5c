package bot

import (
	"testing"
	"time"
)

func TestFormatTimeUntil(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		offset time.Duration
		want   string
	}{
		{45 * time.Second, "Arr"},
		{90 * time.Second, "1 min"},
		{-2 * time.Minute, "Arr"},
		{10 * time.Minute, "10 min"},
		{10*time.Minute + 59*time.Second, "10 min"}, // truncation, not rounding
	}

	for _, c := range cases {
		iso := now.Add(c.offset).Format(time.RFC3339)
		if got := FormatTimeUntil(iso, now); got != c.want {
			t.Errorf("FormatTimeUntil(+%v) = %q, want %q", c.offset, got, c.want)
		}
	}
}

func TestFormatClockTime(t *testing.T) {
	if got := FormatClockTime(""); got != "" {
		t.Errorf("Empty sentinel must render empty, got %q", got)
	}
	if got := FormatClockTime("2026-09-01T14:05:00+08:00"); got != "02:05 PM" {
		t.Errorf("Expected 02:05 PM, got %q", got)
	}
	if got := FormatClockTime("not-a-time"); got != "" {
		t.Errorf("Unparseable value must render empty, got %q", got)
	}
}

func TestLoadDescription(t *testing.T) {
	cases := map[string]string{
		"SEA": "Seats available",
		"SDA": "Standing available",
		"LSD": "Limited standing",
		"XXX": "",
		"":    "",
	}
	for code, want := range cases {
		if got := LoadDescription(code); got != want {
			t.Errorf("LoadDescription(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestVehicleTypeDescription(t *testing.T) {
	cases := map[string]string{
		"SD": "Single deck",
		"DD": "Double deck",
		"BD": "Bendy",
		"??": "",
	}
	for code, want := range cases {
		if got := VehicleTypeDescription(code); got != want {
			t.Errorf("VehicleTypeDescription(%q) = %q, want %q", code, got, want)
		}
	}
}
