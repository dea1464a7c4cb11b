package weather

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DisplayTimeLayout is the layout used for every rendered timestamp
const DisplayTimeLayout = "Jan 02 2006 15:04 UTC"

// Layouts accepted for provider timestamps; values without a zone are UTC
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// CelsiusToFahrenheit converts a temperature
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FormatTemperature renders a Celsius value with its Fahrenheit equivalent, e.g. "20°C (68.0°F)"
func FormatTemperature(c float64) string {
	if c == 0 {
		c = 0 // M00 parses as negative zero
	}
	return fmt.Sprintf("%s°C (%.1f°F)", formatNumber(c), CelsiusToFahrenheit(c))
}

// FormatWindDirection renders degrees zero-padded to three digits, e.g. "090°"
func FormatWindDirection(degrees float64) string {
	d := int(math.Round(degrees))
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%03d°", d)
}

// ParseTime parses a provider timestamp and returns it in UTC
func ParseTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatTime renders a time in the display layout
func FormatTime(t time.Time) string {
	return t.UTC().Format(DisplayTimeLayout)
}

// formatNumber prints the shortest representation, "20" rather than "20.000000"
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
