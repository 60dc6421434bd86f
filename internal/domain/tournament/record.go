package tournament

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// ParseRecord converts "SS.ss", "MM:SS.ss" or "HH:MM:SS.ss" into seconds.
func ParseRecord(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, crerr.New("record is empty")
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, crerr.Newf("record %q has too many segments", raw)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, crerr.Newf("record %q has invalid seconds", raw)
	}
	if len(parts) > 1 && seconds >= 60 {
		return 0, crerr.Newf("record %q has seconds >= 60", raw)
	}

	total := seconds
	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		value, err := strconv.Atoi(parts[i])
		if err != nil || value < 0 {
			return 0, crerr.Newf("record %q has invalid segment %q", raw, parts[i])
		}
		if i > 0 && value >= 60 {
			return 0, crerr.Newf("record %q has minutes >= 60", raw)
		}
		total += float64(value) * multiplier
		multiplier *= 60
	}
	return total, nil
}

// FormatRecord renders seconds as H:MM:SS.ss.
func FormatRecord(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	centis := int64(math.Round(seconds * 100))
	hours := centis / 360000
	centis -= hours * 360000
	minutes := centis / 6000
	centis -= minutes * 6000
	return fmt.Sprintf("%s%d:%02d:%02d.%02d", sign, hours, minutes, centis/100, centis%100)
}
