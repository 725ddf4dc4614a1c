// Package executor implements the capability abstraction that runs a
// command once and produces a calibrated TimingResult. Three variants
// share one contract: RawExecutor spawns directly, ShellExecutor spawns
// through a configured shell and subtracts the shell's own spawning
// time, and MockExecutor is a deterministic simulator used for
// self-testing.
package executor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/tavianator/hyperfine/pkg/command"
	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/units"
)

// CmdFailureAction controls whether a non-zero/signaled exit aborts the
// run.
type CmdFailureAction int

const (
	// RaiseError fails the run when the child does not exit successfully.
	RaiseError CmdFailureAction = iota
	// Ignore accepts any exit disposition as a valid sample.
	Ignore
)

// OutputPolicyKind is the closed set of stdio bindings a command may use.
type OutputPolicyKind int

const (
	// OutputInherit passes the child's stdout/stderr through to ours.
	OutputInherit OutputPolicyKind = iota
	// OutputNull discards stdout/stderr.
	OutputNull
	// OutputFile redirects stdout/stderr to a file on disk.
	OutputFile
	// OutputPipeDiscard captures stdout/stderr through a pipe and
	// discards it, used when the caller wants output captured but not
	// shown (e.g. to avoid inheriting the terminal).
	OutputPipeDiscard
)

// CommandOutputPolicy selects how a spawned command's stdout/stderr are
// bound. Path is only meaningful when Kind is OutputFile.
type CommandOutputPolicy struct {
	Kind OutputPolicyKind
	Path string
}

func (p CommandOutputPolicy) stdio() (stdout, stderr io.Writer, cleanup func(), err error) {
	switch p.Kind {
	case OutputNull:
		f, oerr := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if oerr != nil {
			return nil, nil, nil, oerr
		}
		return f, f, func() { f.Close() }, nil
	case OutputFile:
		f, oerr := os.Create(p.Path)
		if oerr != nil {
			return nil, nil, nil, oerr
		}
		return f, f, func() { f.Close() }, nil
	case OutputPipeDiscard:
		return io.Discard, io.Discard, func() {}, nil
	default: // OutputInherit
		return os.Stdout, os.Stderr, func() {}, nil
	}
}

// OutputStyle governs whether calibration reports progress.
type OutputStyle int

const (
	// OutputStyleDisabled suppresses all progress reporting.
	OutputStyleDisabled OutputStyle = iota
	// OutputStyleBasic reports progress via the configured Progress.
	OutputStyleBasic
)

// Progress is the abstract progress-reporting collaborator.
// Construction is modeled as ProgressFactory since Go has no per-call
// constructor polymorphism.
type Progress interface {
	Inc(delta int)
	FinishAndClear()
}

// ProgressFactory constructs a Progress for a phase of total steps
// labeled label. A nil factory means no progress reporting.
type ProgressFactory func(total int, label string) Progress

// Options holds the shared configuration every Executor variant honors.
type Options struct {
	CommandFailureAction CmdFailureAction
	CommandOutputPolicy  CommandOutputPolicy
	OutputStyle          OutputStyle
	ProgressFactory      ProgressFactory
}

// Executor is the shared contract all three variants implement.
type Executor interface {
	// RunCommandAndMeasure runs cmd once and returns a calibrated
	// sample plus the child's exit status. failureActionOverride, when
	// non-nil, replaces the Options' CommandFailureAction for this run.
	RunCommandAndMeasure(cmd command.Command, failureActionOverride *CmdFailureAction) (sample.TimingResult, timer.Status, error)

	// Calibrate performs (idempotent) strategy-specific calibration.
	Calibrate() error

	// TimeOverhead returns the per-measurement additive overhead this
	// executor introduces after calibration.
	TimeOverhead() units.Second
}

// ChildFailedError is returned when CommandFailureAction is RaiseError
// and the child did not exit successfully.
type ChildFailedError struct {
	CommandLine string
	Status      timer.Status
}

func (e *ChildFailedError) Error() string {
	var cause string
	if e.Status.Signaled {
		cause = "The process has been terminated by a signal"
	} else {
		cause = fmt.Sprintf("Command terminated with non-zero exit code: %d", e.Status.ExitCode)
	}
	return fmt.Sprintf("%s. Use the '-i'/'--ignore-failure' option if you want to ignore this. "+
		"Alternatively, use the '--style full' option to debug what went wrong.", cause)
}

// CalibrationFailedError is returned when shell-spawning-time
// calibration could not complete. It reports the canonical shell
// invocation rather than the underlying OS error.
type CalibrationFailedError struct {
	Invocation string
}

func (e *CalibrationFailedError) Error() string {
	return fmt.Sprintf("Could not measure shell execution time. Make sure you can run '%s'.", e.Invocation)
}

var (
	randomOffsetOnce  sync.Once
	randomOffsetValue string
)

// randomizedEnvironmentOffset returns a value chosen once per process
// lifetime and cached thereafter. Randomizing the environment block
// size perturbs stack alignment so that cache/alignment artifacts do
// not bias comparative runs systematically; re-randomizing per spawn
// would defeat that purpose.
func randomizedEnvironmentOffset() string {
	randomOffsetOnce.Do(func() {
		lengthByte := make([]byte, 1)
		_, _ = rand.Read(lengthByte)
		buf := make([]byte, int(lengthByte[0]))
		_, _ = rand.Read(buf)
		randomOffsetValue = hex.EncodeToString(buf)
	})
	return randomOffsetValue
}

// buildEnv layers the randomized offset and the command's own overlay
// on top of the parent environment.
func buildEnv(overlay map[string]string) []string {
	env := append([]string{}, os.Environ()...)
	env = append(env, "HYPERFINE_RANDOMIZED_ENVIRONMENT_OFFSET="+randomizedEnvironmentOffset())
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}
	return env
}

// runCommandAndMeasureCommon is the shared preparation every variant
// performs: bind stdin to null, bind stdout/stderr per the output
// policy, inject the randomized offset, measure, and apply the
// failure-action policy.
func runCommandAndMeasureCommon(spec command.ProcessSpec, failureAction CmdFailureAction, outputPolicy CommandOutputPolicy, commandLine string) (timer.TimerResult, error) {
	stdout, stderr, cleanup, err := outputPolicy.stdio()
	if err != nil {
		return timer.TimerResult{}, fmt.Errorf("failed to prepare output for command '%s': %w", commandLine, err)
	}
	defer cleanup()

	tspec := timer.ProcessSpec{
		Path:   spec.Path,
		Args:   spec.Args,
		Dir:    spec.Dir,
		Env:    buildEnv(spec.EnvOverlay),
		Stdin:  nil, // exec.Cmd reads from the null device when Stdin is nil
		Stdout: stdout,
		Stderr: stderr,
	}

	result, err := timer.Execute(tspec)
	if err != nil {
		return timer.TimerResult{}, fmt.Errorf("failed to run command '%s': %w", commandLine, err)
	}

	if failureAction == RaiseError && !result.Status.Success() {
		return timer.TimerResult{}, &ChildFailedError{CommandLine: commandLine, Status: result.Status}
	}

	return result, nil
}

func shellFlag() string {
	if runtime.GOOS == "windows" {
		return "/C"
	}
	return "-c"
}
