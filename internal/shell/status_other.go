//go:build !unix

package shell

import "os"

func signalCode(*os.ProcessState) (int, bool) {
	return 0, false
}
