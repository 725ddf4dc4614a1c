//go:build !windows

package timer

import (
	"os"
	"syscall"
)

// extractStatus disambiguates normal exit from signal termination using
// the raw wait status POSIX platforms expose through os.ProcessState.
func extractStatus(ps *os.ProcessState) Status {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Status{Signaled: true, Signal: int(ws.Signal())}
	}
	return Status{ExitCode: ps.ExitCode()}
}
