// Package analyze turns a set of aggregated BenchmarkResults into a
// relative-speed ranking: which command was fastest, and how much
// slower (with propagated uncertainty) every other command was.
package analyze

import (
	"errors"
	"math"

	"github.com/tavianator/hyperfine/pkg/aggregate"
	"github.com/tavianator/hyperfine/pkg/units"
)

// ErrNoResults is returned when Compute is given an empty result set.
var ErrNoResults = errors.New("analyze: at least one result is required")

// RelativeSpeedUnavailableError reports that some result had a
// non-positive mean, so no reference command could be chosen.
type RelativeSpeedUnavailableError struct {
	Command string
	Mean    units.Second
}

func (e *RelativeSpeedUnavailableError) Error() string {
	return "analyze: relative speed unavailable: " + e.Command + " has non-positive mean"
}

// BenchmarkResultWithRelativeSpeed is a BenchmarkResult annotated with
// its speed relative to the fastest entry in the set it was computed
// from.
type BenchmarkResultWithRelativeSpeed struct {
	aggregate.BenchmarkResult

	RelativeSpeed       units.Second
	RelativeSpeedStddev *units.Second
	IsFastest           bool
}

// Compute finds the entry with the smallest mean (the reference, ties
// broken by input order), then annotates every entry with its speed
// relative to that reference and, where both stddevs are available,
// the propagated uncertainty of that ratio.
func Compute(results []aggregate.BenchmarkResult) ([]BenchmarkResultWithRelativeSpeed, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	referenceIndex := 0
	for i, r := range results {
		if r.Mean <= 0 {
			return nil, &RelativeSpeedUnavailableError{Command: r.Command, Mean: r.Mean}
		}
		if r.Mean < results[referenceIndex].Mean {
			referenceIndex = i
		}
	}
	reference := results[referenceIndex]

	out := make([]BenchmarkResultWithRelativeSpeed, len(results))
	for i, r := range results {
		entry := BenchmarkResultWithRelativeSpeed{
			BenchmarkResult: r,
			RelativeSpeed:   r.Mean / reference.Mean,
			IsFastest:       i == referenceIndex,
		}

		if !entry.IsFastest && r.Stddev != nil && reference.Stddev != nil {
			relErrE := *r.Stddev / r.Mean
			relErrRef := *reference.Stddev / reference.Mean
			sd := entry.RelativeSpeed * math.Sqrt(relErrE*relErrE+relErrRef*relErrRef)
			entry.RelativeSpeedStddev = &sd
		}

		out[i] = entry
	}

	return out, nil
}
