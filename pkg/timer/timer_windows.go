//go:build windows

package timer

import "os"

// extractStatus reports exit code only: Windows has no POSIX-style
// signal termination, so Signaled is always false.
func extractStatus(ps *os.ProcessState) Status {
	return Status{ExitCode: ps.ExitCode()}
}
