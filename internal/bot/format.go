package bot

import (
	"fmt"
	"time"
)

var loadDescriptions = map[string]string{
	"SEA": "Seats available",
	"SDA": "Standing available",
	"LSD": "Limited standing",
}

var vehicleTypeDescriptions = map[string]string{
	"SD": "Single deck",
	"DD": "Double deck",
	"BD": "Bendy",
}

// FormatClockTime renders an ISO-8601 arrival estimate as a 12-hour clock
// time. The empty string is the upstream "no data" sentinel and renders as
// empty. Unparseable values also render as empty.
func FormatClockTime(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return t.Format("03:04 PM")
}

// FormatTimeUntil renders the wait until an arrival estimate: "Arr" when the
// bus is due (under a minute away, or already past), otherwise whole minutes.
func FormatTimeUntil(iso string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	d := t.Sub(now)
	if d < time.Minute {
		return "Arr"
	}
	return fmt.Sprintf("%d min", int(d.Minutes()))
}

// LoadDescription maps an upstream load code to text. Unknown codes render
// as empty string.
func LoadDescription(code string) string {
	return loadDescriptions[code]
}

// VehicleTypeDescription maps an upstream vehicle type code to text.
// Unknown codes render as empty string, matching LoadDescription.
func VehicleTypeDescription(code string) string {
	return vehicleTypeDescriptions[code]
}
