// Package units provides shared constants and conversions for speed
// units. The engine and database work in km/h; the API converts on the
// way out.
package units

import "strings"

// Unit constants
const (
	KMPH = "kmph"
	KPH  = "kph"
	MPH  = "mph"
	MPS  = "mps"
)

// ValidUnits contains all valid unit values.
var ValidUnits = []string{KMPH, KPH, MPH, MPS}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, v := range ValidUnits {
		if unit == v {
			return true
		}
	}
	return false
}

// ValidUnitsString returns a comma-separated list of valid units for
// error messages.
func ValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeedKmh converts a speed stored in km/h to the target units.
// Unknown units fall back to km/h.
func ConvertSpeedKmh(speedKmh float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedKmh * 0.62137119223733
	case MPS:
		return speedKmh / 3.6
	case KMPH, KPH:
		return speedKmh
	default:
		return speedKmh
	}
}
