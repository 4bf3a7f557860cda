package shell

// Executor abstracts child process execution for testing
type Executor interface {
	// RunProcess runs a command through pipes and returns its exit code and output
	RunProcess(req ProcessRequest) (code int, output string, err error)
	// RunPTY runs a command attached to a pseudo-terminal
	RunPTY(req PTYRequest) (code int, output string, err error)
}

var _ Executor = (*Runner)(nil)
