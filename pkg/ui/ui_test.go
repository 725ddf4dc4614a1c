package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/analyze"
)

func sd(v float64) *float64 { return &v }

func withRelativeSpeed(r aggregate.BenchmarkResult, speed float64, stddev *float64, fastest bool) analyze.BenchmarkResultWithRelativeSpeed {
	return analyze.BenchmarkResultWithRelativeSpeed{
		BenchmarkResult:     r,
		RelativeSpeed:       speed,
		RelativeSpeedStddev: stddev,
		IsFastest:           fastest,
	}
}

func TestReporter_BenchmarkStart(t *testing.T) {
	// Given a reporter with a buffer
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	// When announcing a benchmark
	reporter.BenchmarkStart(1, 2, "sleep 0.1")

	// Then it reports the 1-indexed position and command line
	assert.Contains(t, buf.String(), "Benchmark 1/2: sleep 0.1")
}

func TestReporter_QuietSuppressesProgress(t *testing.T) {
	// Given a reporter set to quiet mode
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	reporter.SetQuiet(true)

	// When reporting benchmark start, warmup, and run progress
	reporter.BenchmarkStart(1, 1, "sleep 0.1")
	reporter.WarmupRun(1, 3)
	reporter.Run(1, 10, 0.1)

	// Then nothing is written
	assert.Empty(t, buf.String())
}

func TestReporter_WarningIsAlwaysShown(t *testing.T) {
	// Given a reporter set to quiet mode
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	reporter.SetQuiet(true)

	// When reporting a warning
	reporter.Warning("command produced output on stderr")

	// Then it is shown even in quiet mode
	assert.Contains(t, buf.String(), "Warning: command produced output on stderr")
}

func TestReporter_Summary_FormatsMeanStddevAndRange(t *testing.T) {
	// Given a reporter and a benchmark result
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	result := aggregate.BenchmarkResult{
		Command: "sleep 0.1",
		Mean:    0.1057,
		Stddev:  sd(0.0016),
		Min:     0.1023,
		Max:     0.1080,
		User:    0.0009,
		System:  0.0011,
	}

	// When reporting its summary
	reporter.Summary(withRelativeSpeed(result, 1.0, nil, true))

	// Then mean, stddev, user/system, and range are all present
	output := buf.String()
	assert.Contains(t, output, "Time (mean ± σ)")
	assert.Contains(t, output, "Range (min … max)")
}

func TestReporter_Summary_NoStddevRendersNA(t *testing.T) {
	// Given a single-sample result with no stddev
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	result := aggregate.BenchmarkResult{Command: "true", Mean: 0.001, Min: 0.001, Max: 0.001}

	// When reporting its summary
	reporter.Summary(withRelativeSpeed(result, 1.0, nil, true))

	// Then the missing stddev is rendered as n/a
	assert.Contains(t, buf.String(), "n/a")
}

func TestReporter_RelativeSummary_NamesFastestAndRatios(t *testing.T) {
	// Given two compared results, one fastest
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	results := []analyze.BenchmarkResultWithRelativeSpeed{
		withRelativeSpeed(aggregate.BenchmarkResult{Command: "fast"}, 1.0, nil, true),
		withRelativeSpeed(aggregate.BenchmarkResult{Command: "slow"}, 2.0, sd(0.1), false),
	}

	// When reporting the relative summary
	reporter.RelativeSummary(results)

	// Then the fastest command is named and the slower one shows its ratio
	output := buf.String()
	assert.Contains(t, output, "'fast' ran")
	assert.Contains(t, output, "2.00 ± 0.10 times faster than 'slow'")
}

func TestReporter_RelativeSummary_EmptyWhenNoFastestMarked(t *testing.T) {
	// Given a result set with no entry marked as fastest
	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	results := []analyze.BenchmarkResultWithRelativeSpeed{
		withRelativeSpeed(aggregate.BenchmarkResult{Command: "a"}, 1.0, nil, false),
	}

	// When reporting the relative summary
	reporter.RelativeSummary(results)

	// Then nothing is written
	assert.Empty(t, buf.String())
}

func TestFormatSeconds_SubSecondUsesMilliseconds(t *testing.T) {
	// Given a sub-second duration
	// When formatting it
	out := formatSeconds(0.1057)

	// Then it renders with a millisecond suffix
	assert.Equal(t, "105.7ms", out)
}

func TestFormatSeconds_WholeSecondsHaveNoDecimal(t *testing.T) {
	// Given an exact 2-second duration
	// When formatting it
	out := formatSeconds(2.0)

	// Then no decimal point is rendered
	assert.Equal(t, "2s", out)
}

func TestFormatSeconds_MinutesAndSeconds(t *testing.T) {
	// Given a duration spanning minutes and seconds
	// When formatting it
	out := formatSeconds(125)

	// Then it renders as "2m5s"
	assert.Equal(t, "2m5s", out)
}
