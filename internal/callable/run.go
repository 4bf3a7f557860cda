package callable

import (
	"os"

	"github.com/mbourmaud/failprint/internal/capture"
)

// Run invokes fn and derives its exit code. Unless mode is capture.None the
// call happens inside a capture session and the captured text is returned.
// The error is only ever about the capture session itself: whatever fn does
// ends up in the exit code.
func Run(fn Func, args []any, kwargs Kwargs, mode capture.Mode, input *string) (int, string, error) {
	if mode == capture.None {
		return Derive(invoke(fn, args, kwargs), os.Stderr), "", nil
	}

	var code int
	output, err := capture.Do(mode, input, func() error {
		code = Derive(invoke(fn, args, kwargs), os.Stderr)
		return nil
	})
	if err != nil {
		return 0, output, err
	}
	return code, output, nil
}

// RunCall invokes a deferred call with its bound arguments
func RunCall(call *Call, mode capture.Mode, input *string) (int, string, error) {
	return Run(call.Fn, call.Args, call.Kwargs, mode, input)
}
