package weather

import (
	"math"
	"strconv"
)

const (
	degree  = "°"
	missing = "-"

	// Unknown is shown for wind readings the provider did not report.
	Unknown = "unknown"
)

func isNaN(v float64) bool { return math.IsNaN(v) }

// FormatValue renders v with no decimal places followed by unit. NaN renders
// as "-". Halves round to even, and a negative value that rounds to zero
// renders as "0".
func FormatValue(v float64, unit string) string {
	if isNaN(v) {
		return missing
	}
	formatted := strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64)
	if formatted == "-0" {
		formatted = "0"
	}
	return formatted + unit
}

// FormatWindSpeed renders a wind speed, or Unknown for negative speeds.
func FormatWindSpeed(speed float64, unit string) string {
	if speed < 0 {
		return Unknown
	}
	return FormatValue(speed, unit)
}

// WindDirectionLabel buckets degrees into eight compass points.
func WindDirectionLabel(deg int) string {
	switch {
	case deg < 0:
		return Unknown
	case deg < 23:
		return "N"
	case deg < 68:
		return "NE"
	case deg < 113:
		return "E"
	case deg < 158:
		return "SE"
	case deg < 203:
		return "S"
	case deg < 248:
		return "SW"
	case deg < 293:
		return "W"
	case deg < 338:
		return "NW"
	default:
		return "N"
	}
}
