//go:build unix

package capture

import "golang.org/x/sys/unix"

// dupCloexec duplicates fd so that spawned children do not inherit the copy
func dupCloexec(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
