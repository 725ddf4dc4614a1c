package executor

import (
	"math"

	"github.com/tavianator/hyperfine/pkg/command"
	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/units"
)

// shellCalibrationCount is the number of empty-command invocations used
// to measure mean shell spawning time.
const shellCalibrationCount = 50

// Shell is an executable plus any preconfigured argv prefix (e.g. a
// login-shell flag) that ShellExecutor invokes commands through.
type Shell struct {
	Executable string
	PreArgs    []string
}

// NewShell constructs a Shell from its executable and optional
// preconfigured arguments.
func NewShell(executable string, preArgs ...string) Shell {
	return Shell{Executable: executable, PreArgs: preArgs}
}

func (s Shell) processSpec(commandLine string) command.ProcessSpec {
	args := make([]string, 0, len(s.PreArgs)+2)
	args = append(args, s.PreArgs...)
	args = append(args, shellFlag(), commandLine)
	return command.ProcessSpec{Path: s.Executable, Args: args}
}

// ShellExecutor runs commands through a configured shell, subtracting
// the shell's own measured spawning time from every sample after
// calibration.
type ShellExecutor struct {
	shell        Shell
	options      Options
	spawningTime *sample.TimingResult
}

// NewShellExecutor creates a ShellExecutor for shell with shared options.
func NewShellExecutor(shell Shell, options Options) *ShellExecutor {
	return &ShellExecutor{shell: shell, options: options}
}

// RunCommandAndMeasure builds a shell invocation of the form
// "<shell> [preargs...] -c <command line>" (or "/C" on Windows), then
// subtracts the cached shell spawning time, flooring each component at
// zero, if calibration has run.
func (e *ShellExecutor) RunCommandAndMeasure(cmd command.Command, failureActionOverride *CmdFailureAction) (sample.TimingResult, timer.Status, error) {
	action := e.options.CommandFailureAction
	if failureActionOverride != nil {
		action = *failureActionOverride
	}

	commandLine := cmd.GetCommandLine()
	spec := e.shell.processSpec(commandLine)

	result, err := runCommandAndMeasureCommon(spec, action, e.options.CommandOutputPolicy, commandLine)
	if err != nil {
		return sample.TimingResult{}, timer.Status{}, err
	}

	tr := sample.TimingResult{
		TimeReal:   result.TimeReal,
		TimeUser:   result.TimeUser,
		TimeSystem: result.TimeSystem,
	}

	if e.spawningTime != nil {
		tr.TimeReal = math.Max(0, tr.TimeReal-e.spawningTime.TimeReal)
		tr.TimeUser = math.Max(0, tr.TimeUser-e.spawningTime.TimeUser)
		tr.TimeSystem = math.Max(0, tr.TimeSystem-e.spawningTime.TimeSystem)
	}

	return tr, result.Status, nil
}

// Calibrate measures the mean shell-only spawning time by running 50
// invocations of an empty command through the shell. While the cached
// spawning time is absent, no subtraction occurs: the measurement path
// used here is exactly RunCommandAndMeasure's, and the subtraction
// branch is simply not yet reachable. Once a spawning time is cached,
// further calls return immediately and keep it.
func (e *ShellExecutor) Calibrate() error {
	if e.spawningTime != nil {
		return nil
	}

	var progress Progress
	if e.options.OutputStyle != OutputStyleDisabled && e.options.ProgressFactory != nil {
		progress = e.options.ProgressFactory(shellCalibrationCount, "Measuring shell spawning time")
	}

	empty := command.NewFromLine("")
	realTimes := make([]units.Second, 0, shellCalibrationCount)
	userTimes := make([]units.Second, 0, shellCalibrationCount)
	sysTimes := make([]units.Second, 0, shellCalibrationCount)

	for i := 0; i < shellCalibrationCount; i++ {
		tr, _, err := e.RunCommandAndMeasure(empty, nil)
		if err != nil {
			return &CalibrationFailedError{Invocation: e.calibrationInvocation()}
		}
		realTimes = append(realTimes, tr.TimeReal)
		userTimes = append(userTimes, tr.TimeUser)
		sysTimes = append(sysTimes, tr.TimeSystem)

		if progress != nil {
			progress.Inc(1)
		}
	}

	if progress != nil {
		progress.FinishAndClear()
	}

	e.spawningTime = &sample.TimingResult{
		TimeReal:   mean(realTimes),
		TimeUser:   mean(userTimes),
		TimeSystem: mean(sysTimes),
	}
	return nil
}

func (e *ShellExecutor) calibrationInvocation() string {
	return e.shell.Executable + " " + shellFlag() + " \"\""
}

// TimeOverhead returns the cached real-time spawning mean. Calling it
// before Calibrate is a programming error and panics rather than
// silently reporting zero overhead.
func (e *ShellExecutor) TimeOverhead() units.Second {
	if e.spawningTime == nil {
		panic("executor: TimeOverhead called on ShellExecutor before Calibrate")
	}
	return e.spawningTime.TimeReal
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
