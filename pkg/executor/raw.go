package executor

import (
	"github.com/tavianator/hyperfine/pkg/command"
	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/units"
)

// RawExecutor spawns commands directly, with no shell in between.
// Calibration is a no-op and it introduces no measurable overhead.
type RawExecutor struct {
	options Options
}

// NewRawExecutor creates a RawExecutor with the given shared options.
func NewRawExecutor(options Options) *RawExecutor {
	return &RawExecutor{options: options}
}

// RunCommandAndMeasure obtains the process spec from cmd.GetCommand(),
// runs the common preparation, and returns the raw times unchanged.
func (e *RawExecutor) RunCommandAndMeasure(cmd command.Command, failureActionOverride *CmdFailureAction) (sample.TimingResult, timer.Status, error) {
	action := e.options.CommandFailureAction
	if failureActionOverride != nil {
		action = *failureActionOverride
	}

	result, err := runCommandAndMeasureCommon(cmd.GetCommand(), action, e.options.CommandOutputPolicy, cmd.GetCommandLine())
	if err != nil {
		return sample.TimingResult{}, timer.Status{}, err
	}

	return sample.TimingResult{
		TimeReal:   result.TimeReal,
		TimeUser:   result.TimeUser,
		TimeSystem: result.TimeSystem,
	}, result.Status, nil
}

// Calibrate is a no-op for RawExecutor.
func (e *RawExecutor) Calibrate() error { return nil }

// TimeOverhead is always zero for RawExecutor.
func (e *RawExecutor) TimeOverhead() units.Second { return 0 }
