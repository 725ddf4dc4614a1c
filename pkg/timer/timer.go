// Package timer provides the single-shot process launch and timing
// primitive that every Executor variant builds on. All OS-specific
// accounting is confined to timer_unix.go and timer_windows.go; this
// file holds the platform-independent measurement window.
package timer

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/tavianator/hyperfine/pkg/units"
)

// ErrSpawn is returned when the child process could not be launched.
var ErrSpawn = errors.New("spawn error")

// ErrWait is returned when waiting for the child process failed.
var ErrWait = errors.New("wait error")

// ProcessSpec is the prepared description of a child to launch: the
// executable, its argv, working directory, full environment, and
// resolved stdio bindings. Stdin/Stdout/Stderr are expected to already
// reflect the caller's output policy (null, inherit, file, or a
// discarding pipe); Timer itself does not interpret that policy.
type ProcessSpec struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Status is a child's exit disposition: either a numeric exit code or an
// indication of signal termination.
type Status struct {
	ExitCode int
	Signaled bool
	Signal   int
}

// Success reports whether the child exited cleanly with status 0.
func (s Status) Success() bool {
	return !s.Signaled && s.ExitCode == 0
}

// String renders a human-readable description of the disposition.
func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %d", s.Signal)
	}
	return fmt.Sprintf("exit code %d", s.ExitCode)
}

// TimerResult is one raw measurement.
type TimerResult struct {
	TimeReal   units.Second
	TimeUser   units.Second
	TimeSystem units.Second
	Status     Status
}

// Execute launches the prepared child process, records a monotonic
// wall-clock timestamp immediately before spawn and immediately after
// wait, and retrieves the child's accumulated user/system CPU time from
// the OS resource-accounting interface. The measurement window brackets
// only the spawn+wait; any stdio setup must have happened before this
// call and any teardown must happen after it returns.
func Execute(spec ProcessSpec) (TimerResult, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return TimerResult{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	waitErr := cmd.Wait()
	end := time.Now()

	if waitErr != nil {
		if _, isExitError := waitErr.(*exec.ExitError); !isExitError {
			return TimerResult{}, fmt.Errorf("%w: %v", ErrWait, waitErr)
		}
	}

	ps := cmd.ProcessState
	return TimerResult{
		TimeReal:   end.Sub(start).Seconds(),
		TimeUser:   ps.UserTime().Seconds(),
		TimeSystem: ps.SystemTime().Seconds(),
		Status:     extractStatus(ps),
	}, nil
}
