//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package shell

// PTYSupported reports whether this build can drive pseudo-terminals
const PTYSupported = false

// RunPTY is not available on this platform
func (r *Runner) RunPTY(PTYRequest) (int, string, error) {
	return 0, "", ErrPTYUnavailable
}
