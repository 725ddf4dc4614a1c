// Package units provides the duration representation and fixed-decimal
// formatting policy shared by the aggregator, analyzer, and exporters.
package units

import "fmt"

// Second is the universal time type: a non-negative real number of seconds.
type Second = float64

// Unit is a closed set of display units for durations.
type Unit int

const (
	// UnitSecond displays durations in seconds, 3 decimal places.
	UnitSecond Unit = iota
	// UnitMilliSecond displays durations in milliseconds, 1 decimal place.
	UnitMilliSecond
)

// ShortName returns the unit's display abbreviation ("s" or "ms").
func (u Unit) ShortName() string {
	switch u {
	case UnitMilliSecond:
		return "ms"
	default:
		return "s"
	}
}

func (u Unit) String() string {
	return u.ShortName()
}

// scale returns the multiplier from seconds to the unit's native value,
// and the number of decimal places its fixed-format policy uses.
func (u Unit) scale() (factor float64, decimals int) {
	switch u {
	case UnitMilliSecond:
		return 1000.0, 1
	default:
		return 1.0, 3
	}
}

// toUnit converts a Second value into the unit's native scale.
func (u Unit) toUnit(value Second) float64 {
	factor, _ := u.scale()
	return value * factor
}

// Format renders value (in seconds) in unit u per the fixed-decimal policy:
// 3 decimals for seconds, 1 decimal for milliseconds.
func (u Unit) Format(value Second) string {
	_, decimals := u.scale()
	return fmt.Sprintf("%.*f", decimals, u.toUnit(value))
}

// AutoUnit picks UnitSecond when mean >= 1.0, otherwise UnitMilliSecond.
// Exporters use this rule to pick a unit when none is given explicitly.
func AutoUnit(mean Second) Unit {
	if mean >= 1.0 {
		return UnitSecond
	}
	return UnitMilliSecond
}

// FormatDuration formats value using unit if non-nil, otherwise the unit
// chosen by AutoUnit. It returns the formatted string and the unit used.
func FormatDuration(value Second, unit *Unit) (string, Unit) {
	resolved := AutoUnit(value)
	if unit != nil {
		resolved = *unit
	}
	return resolved.Format(value), resolved
}
