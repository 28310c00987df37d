// Package format renders the human-facing strings shown in list views.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Mileage renders an odometer reading, e.g. "45,000 mi".
func Mileage(miles int64) string {
	return humanize.Comma(miles) + " mi"
}

// LastActive renders how long ago t was in the compact dashboard style:
// "Just now", "5m ago", "3h ago", "2d ago".
func LastActive(t, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
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

// Minutes renders a duration as "11.2 min".
func Minutes(d time.Duration) string {
	return humanize.FtoaWithDigits(d.Minutes(), 1) + " min"
}

// Elapsed renders the distance between two times without a direction,
// e.g. "2 hours", "15 minutes".
func Elapsed(from, to time.Time) string {
	return strings.TrimSpace(humanize.RelTime(from, to, "", ""))
}

var vehicleKinds = map[string]string{
	"TRK": "Truck",
	"VAN": "Van",
	"TRL": "Trailer",
}

// VehicleLabel turns a fleet code such as "TRK-101" into "Truck #101".
// Codes without a known prefix are returned unchanged.
func VehicleLabel(code string) string {
	prefix, num, ok := strings.Cut(strings.TrimSpace(code), "-")
	if !ok || num == "" {
		return code
	}
	kind, known := vehicleKinds[strings.ToUpper(prefix)]
	if !known {
		return code
	}
	return kind + " #" + num
}
