//go:build unix

package shell

import (
	"os"
	"syscall"
)

// signalCode reports -N for a child terminated by signal N
func signalCode(state *os.ProcessState) (int, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return -int(ws.Signal()), true
}
