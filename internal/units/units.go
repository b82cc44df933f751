// Package units provides shared constants and validation for length units
package units

// Length unit constants. Trajectory and obstacle files are in metres.
const (
	Metre      = "m"
	Millimetre = "mm"
	Micrometre = "um"
)

// ValidLengthUnits contains all valid length unit values
var ValidLengthUnits = []string{Metre, Millimetre, Micrometre}

// IsValidLength checks if the given unit is in the list of valid length units
func IsValidLength(unit string) bool {
	for _, validUnit := range ValidLengthUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidLengthUnitsString returns a comma-separated string of valid units for error messages
func GetValidLengthUnitsString() string {
	return "m, mm, um"
}

// LengthScale returns the factor converting metres to the target units
func LengthScale(targetUnits string) float64 {
	switch targetUnits {
	case Millimetre:
		return 1e3
	case Micrometre:
		return 1e6
	default:
		return 1 // metres, or unknown
	}
}

// LengthLabel returns the axis label suffix for the target units
func LengthLabel(targetUnits string) string {
	switch targetUnits {
	case Millimetre:
		return "mm"
	case Micrometre:
		return "µm"
	default:
		return "m"
	}
}
