// Package sample holds the calibrated per-run measurement that every
// Executor variant produces and the Sample Aggregator consumes.
package sample

import "github.com/tavianator/hyperfine/pkg/units"

// TimingResult is one calibrated sample: the same three times a
// TimerResult carries, with strategy-specific overhead already
// subtracted and floored at zero.
type TimingResult struct {
	TimeReal   units.Second
	TimeUser   units.Second
	TimeSystem units.Second
}
