package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnit_ShortName(t *testing.T) {
	assert.Equal(t, "s", UnitSecond.ShortName())
	assert.Equal(t, "ms", UnitMilliSecond.ShortName())
}

func TestUnit_FormatFixedDecimalPolicy(t *testing.T) {
	// Given the per-unit decimal policy (3 for seconds, 1 for milliseconds)
	cases := []struct {
		name  string
		unit  Unit
		value Second
		want  string
	}{
		{"seconds, three decimals", UnitSecond, 2.005, "2.005"},
		{"seconds, rounding", UnitSecond, 0.1057, "0.106"},
		{"milliseconds, one decimal", UnitMilliSecond, 0.1057, "105.7"},
		{"milliseconds, above a second", UnitMilliSecond, 2.005, "2005.0"},
		{"zero", UnitSecond, 0, "0.000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.unit.Format(tc.value))
		})
	}
}

func TestAutoUnit_PicksSecondsAtOrAboveOne(t *testing.T) {
	assert.Equal(t, UnitSecond, AutoUnit(1.0))
	assert.Equal(t, UnitSecond, AutoUnit(2.5))
	assert.Equal(t, UnitMilliSecond, AutoUnit(0.9999))
	assert.Equal(t, UnitMilliSecond, AutoUnit(0))
}

func TestFormatDuration_ExplicitUnitOverridesAuto(t *testing.T) {
	// Given a sub-second value and an explicit seconds unit
	unit := UnitSecond

	// When formatted
	formatted, used := FormatDuration(0.1057, &unit)

	// Then the explicit unit wins over the auto-chosen one
	assert.Equal(t, "0.106", formatted)
	assert.Equal(t, UnitSecond, used)

	// And with no explicit unit, the value's own scale decides
	formatted, used = FormatDuration(0.1057, nil)
	assert.Equal(t, "105.7", formatted)
	assert.Equal(t, UnitMilliSecond, used)
}
