package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tavianator/hyperfine/pkg/command"
	"github.com/tavianator/hyperfine/pkg/sample"
	"github.com/tavianator/hyperfine/pkg/timer"
	"github.com/tavianator/hyperfine/pkg/units"
)

const sleepPrefix = "sleep "

// MockExecutor is a deterministic simulator used for self-testing: the
// command's printable form must be "sleep <float>"; running it neither
// spawns a process nor sleeps, it simply parses the float.
type MockExecutor struct {
	// shell, when non-nil, must itself be of the form "sleep <float>"
	// and is used to derive TimeOverhead.
	shell *string
}

// NewMockExecutor creates a MockExecutor. shell, if provided, configures
// a synthetic per-measurement overhead.
func NewMockExecutor(shell *string) *MockExecutor {
	return &MockExecutor{shell: shell}
}

// RunCommandAndMeasure parses the "sleep <float>" command line and
// returns it as TimeReal, with TimeUser/TimeSystem at zero and a
// synthetic success status.
func (e *MockExecutor) RunCommandAndMeasure(cmd command.Command, _ *CmdFailureAction) (sample.TimingResult, timer.Status, error) {
	t, err := extractSleepTime(cmd.GetCommandLine())
	if err != nil {
		return sample.TimingResult{}, timer.Status{}, err
	}
	return sample.TimingResult{TimeReal: t}, timer.Status{ExitCode: 0}, nil
}

// Calibrate is a no-op for MockExecutor.
func (e *MockExecutor) Calibrate() error { return nil }

// TimeOverhead returns 0 when no shell is configured, otherwise the
// parsed float of the configured shell string.
func (e *MockExecutor) TimeOverhead() units.Second {
	if e.shell == nil {
		return 0
	}
	t, err := extractSleepTime(*e.shell)
	if err != nil {
		panic(err)
	}
	return t
}

func extractSleepTime(commandLine string) (units.Second, error) {
	if !strings.HasPrefix(commandLine, sleepPrefix) {
		return 0, fmt.Errorf("executor: mock command must start with %q, got %q", sleepPrefix, commandLine)
	}
	value, err := strconv.ParseFloat(strings.TrimPrefix(commandLine, sleepPrefix), 64)
	if err != nil {
		return 0, fmt.Errorf("executor: invalid mock sleep duration in %q: %w", commandLine, err)
	}
	return value, nil
}
