//go:build unix

package harness

import (
	"os"
	"syscall"
)

// exitCode reports -N for a child killed by signal N.
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return state.ExitCode()
}
