package capture

import "golang.org/x/sys/unix"

// dup2 uses dup3 since some linux architectures have no dup2 syscall
func dup2(oldfd, newfd int) error {
	if oldfd == newfd {
		return nil
	}
	return unix.Dup3(oldfd, newfd, 0)
}
