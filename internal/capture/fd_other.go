//go:build !unix

package capture

func dupCloexec(int) (int, error) {
	return -1, ErrUnsupported
}

func dup2(int, int) error {
	return ErrUnsupported
}

func closeFD(int) error {
	return ErrUnsupported
}
