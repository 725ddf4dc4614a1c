package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/units"
)

func sd(v float64) *float64 { return &v }

// TestMarkdownExporter_FormatMs ensures the output includes the table
// header and both results as a table, with the first entry's unit (ms)
// used for all entries when no explicit unit is given.
func TestMarkdownExporter_FormatMs(t *testing.T) {
	// Given two results where the first is sub-second
	results := []aggregate.BenchmarkResult{
		{Command: "sleep 0.1", Mean: 0.1057, Stddev: sd(0.0016), Min: 0.1023, Max: 0.1080},
		{Command: "sleep 2", Mean: 2.0050, Stddev: sd(0.0020), Min: 2.0020, Max: 2.0080},
	}

	// When exported with no explicit unit
	out, err := NewMarkdownExporter().Serialize(results, nil)

	// Then milliseconds (from the first entry) are used throughout
	require.NoError(t, err)
	expected := tableHeader(units.UnitMilliSecond) +
		"| `sleep 0.1` | 105.7 ± 1.6 | 102.3 | 108.0 | 1.00 |\n" +
		"| `sleep 2` | 2005.0 ± 2.0 | 2002.0 | 2008.0 | 18.97 ± 0.29 |\n"
	assert.Equal(t, expected, string(out))
}

// TestMarkdownExporter_FormatS mirrors FormatMs but with the first entry
// above one second, showing seconds are picked instead.
func TestMarkdownExporter_FormatS(t *testing.T) {
	// Given two results where the first is above one second
	results := []aggregate.BenchmarkResult{
		{Command: "sleep 2", Mean: 2.0050, Stddev: sd(0.0020), Min: 2.0020, Max: 2.0080},
		{Command: "sleep 0.1", Mean: 0.1057, Stddev: sd(0.0016), Min: 0.1023, Max: 0.1080},
	}

	// When exported with no explicit unit
	out, err := NewMarkdownExporter().Serialize(results, nil)

	// Then seconds (from the first entry) are used throughout
	require.NoError(t, err)
	expected := tableHeader(units.UnitSecond) +
		"| `sleep 2` | 2.005 ± 0.002 | 2.002 | 2.008 | 18.97 ± 0.29 |\n" +
		"| `sleep 0.1` | 0.106 ± 0.002 | 0.102 | 0.108 | 1.00 |\n"
	assert.Equal(t, expected, string(out))
}

// TestMarkdownExporter_ExplicitUnitSeconds checks an explicit Unit
// overrides auto-detection from the first entry.
func TestMarkdownExporter_ExplicitUnitSeconds(t *testing.T) {
	// Given two results and an explicit seconds unit
	results := []aggregate.BenchmarkResult{
		{Command: "sleep 0.1", Mean: 0.1057, Stddev: sd(0.0016), Min: 0.1023, Max: 0.1080},
		{Command: "sleep 2", Mean: 2.0050, Stddev: sd(0.0020), Min: 2.0020, Max: 2.0080},
	}
	unit := units.UnitSecond

	// When exported with the explicit unit
	out, err := NewMarkdownExporter().Serialize(results, &unit)

	// Then seconds are used regardless of the first entry's natural scale
	require.NoError(t, err)
	expected := tableHeader(units.UnitSecond) +
		"| `sleep 0.1` | 0.106 ± 0.002 | 0.102 | 0.108 | 1.00 |\n" +
		"| `sleep 2` | 2.005 ± 0.002 | 2.002 | 2.008 | 18.97 ± 0.29 |\n"
	assert.Equal(t, expected, string(out))
}

// TestMarkdownExporter_ExplicitUnitMilliseconds mirrors the explicit-unit
// case with milliseconds forced over a first entry above one second.
func TestMarkdownExporter_ExplicitUnitMilliseconds(t *testing.T) {
	// Given two results and an explicit milliseconds unit
	results := []aggregate.BenchmarkResult{
		{Command: "sleep 2", Mean: 2.0050, Stddev: sd(0.0020), Min: 2.0020, Max: 2.0080},
		{Command: "sleep 0.1", Mean: 0.1057, Stddev: sd(0.0016), Min: 0.1023, Max: 0.1080},
	}
	unit := units.UnitMilliSecond

	// When exported with the explicit unit
	out, err := NewMarkdownExporter().Serialize(results, &unit)

	// Then milliseconds are used regardless of the first entry's natural scale
	require.NoError(t, err)
	expected := tableHeader(units.UnitMilliSecond) +
		"| `sleep 2` | 2005.0 ± 2.0 | 2002.0 | 2008.0 | 18.97 ± 0.29 |\n" +
		"| `sleep 0.1` | 105.7 ± 1.6 | 102.3 | 108.0 | 1.00 |\n"
	assert.Equal(t, expected, string(out))
}

func TestMarkdownExporter_EscapesPipeInCommand(t *testing.T) {
	// Given a command containing a pipe character
	results := []aggregate.BenchmarkResult{
		{Command: "echo a | wc -l", Mean: 1.0, Min: 1.0, Max: 1.0},
	}

	// When exported
	out, err := NewMarkdownExporter().Serialize(results, nil)

	// Then the pipe is escaped in the rendered command cell
	require.NoError(t, err)
	assert.Contains(t, string(out), "| `echo a \\| wc -l` |")
}

func TestMarkdownExporter_FailsWhenRelativeSpeedUnavailable(t *testing.T) {
	// Given a result with a non-positive mean
	results := []aggregate.BenchmarkResult{
		{Command: "broken", Mean: 0},
	}

	// When exported
	_, err := NewMarkdownExporter().Serialize(results, nil)

	// Then it fails with ErrExportFailed
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestMarkdownExporter_EmptyInputIsRejected(t *testing.T) {
	// Given no results
	// When exported
	_, err := NewMarkdownExporter().Serialize(nil, nil)

	// Then the analyzer itself rejects the empty set
	require.Error(t, err)
}
