// Package aggregate reduces the many noisy samples produced for one
// command into a single BenchmarkResult: mean, stddev, median, min,
// max, user/system means, and the raw exit-code series.
package aggregate

import (
	"errors"
	"math"
	"sort"

	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/units"
)

// ErrNoSamples is returned when Aggregate is called with zero samples.
var ErrNoSamples = errors.New("aggregate: at least one sample is required")

// ErrLengthMismatch is returned when samples and statuses disagree in
// length.
var ErrLengthMismatch = errors.New("aggregate: samples and statuses must have equal length")

// ExitCode is one run's exit disposition: an integer code, or absent
// when the run was terminated by a signal.
type ExitCode struct {
	Code    int
	Present bool
}

// ExitCodeFromStatus converts a timer.Status into the exit-code
// representation stored on a BenchmarkResult.
func ExitCodeFromStatus(s timer.Status) ExitCode {
	if s.Signaled {
		return ExitCode{}
	}
	return ExitCode{Code: s.ExitCode, Present: true}
}

// BenchmarkResult is the aggregate over one command's N samples.
type BenchmarkResult struct {
	Command string
	// Parameters is the (possibly empty) key-value mapping for a
	// parameter-sweep entry; ParameterOrder preserves insertion order
	// since Go maps have none.
	Parameters     map[string]string
	ParameterOrder []string

	Mean   units.Second
	Stddev *units.Second
	Median units.Second
	Min    units.Second
	Max    units.Second
	User   units.Second
	System units.Second

	// Times holds the retained per-run wall times, when requested.
	Times     []units.Second
	ExitCodes []ExitCode
}

// Aggregate reduces samples and their corresponding statuses (same
// length, index-aligned) for one command into a BenchmarkResult.
// retainTimes controls whether the per-run wall times are kept.
func Aggregate(commandLine string, parameters map[string]string, parameterOrder []string, samples []sample.TimingResult, statuses []timer.Status, retainTimes bool) (BenchmarkResult, error) {
	if len(samples) == 0 {
		return BenchmarkResult{}, ErrNoSamples
	}
	if len(samples) != len(statuses) {
		return BenchmarkResult{}, ErrLengthMismatch
	}

	n := len(samples)
	reals := make([]units.Second, n)
	users := make([]units.Second, n)
	systems := make([]units.Second, n)
	for i, s := range samples {
		reals[i] = s.TimeReal
		users[i] = s.TimeUser
		systems[i] = s.TimeSystem
	}

	meanValue := mean(reals)

	var stddev *units.Second
	if n >= 2 {
		sd := stddevOf(reals, meanValue)
		stddev = &sd
	}

	minValue, maxValue := minMax(reals)

	exitCodes := make([]ExitCode, n)
	for i, st := range statuses {
		exitCodes[i] = ExitCodeFromStatus(st)
	}

	result := BenchmarkResult{
		Command:        commandLine,
		Parameters:     parameters,
		ParameterOrder: parameterOrder,
		Mean:           meanValue,
		Stddev:         stddev,
		Median:         median(reals),
		Min:            minValue,
		Max:            maxValue,
		User:           mean(users),
		System:         mean(systems),
		ExitCodes:      exitCodes,
	}
	if retainTimes {
		result.Times = append([]units.Second{}, reals...)
	}
	return result, nil
}

func mean(values []units.Second) units.Second {
	if len(values) == 0 {
		return 0
	}
	var sum units.Second
	for _, v := range values {
		sum += v
	}
	return sum / units.Second(len(values))
}

func stddevOf(values []units.Second, mean units.Second) units.Second {
	var sumSq units.Second
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / units.Second(len(values)-1))
}

func median(values []units.Second) units.Second {
	sorted := append([]units.Second{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minMax(values []units.Second) (min, max units.Second) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
