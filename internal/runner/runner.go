package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mbourmaud/failprint/internal/callable"
	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/logger"
	"github.com/mbourmaud/failprint/internal/preflight"
	"github.com/mbourmaud/failprint/internal/shell"
)

// Options configures a run. The zero value captures both streams, shows
// progress only when Progress is set and prints with the default format.
type Options struct {
	// Args and Kwargs are passed to a KindCallable command
	Args   []any
	Kwargs callable.Kwargs

	// Number is the sequence number shown by some formats; 0 means 1
	Number  int
	Capture capture.Mode
	Title   string
	// Format defaults to the one named by FAILPRINT_FORMAT, else pretty
	Format *format.Format

	PTY      bool
	Progress bool
	NoFail   bool
	Quiet    bool
	Silent   bool

	// UseShell runs a KindArgv command through the shell after quoting it,
	// so that shell builtins can be named
	UseShell bool

	// Input replaces the standard input of the command when not nil
	Input *string
	// Display overrides the rendered command
	Display string
	PTYSize *shell.WindowSize

	// Out receives progress and result lines; defaults to os.Stdout
	Out      io.Writer
	Logger   *logger.Logger
	Executor shell.Executor
}

// Result is the outcome of a run
type Result struct {
	Code int
	// Output is empty when nothing was captured
	Output string
}

// Success reports whether the run exited with 0
func (r Result) Success() bool {
	return r.Code == 0
}

type run struct {
	cmd     Command
	opts    Options
	mode    capture.Mode
	format  *format.Format
	display string
	log     *logger.Logger
}

func newRun(cmd Command, opts Options) (*run, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	mode, err := capture.Cast(opts.Capture)
	if err != nil {
		return nil, err
	}

	f := opts.Format
	if f == nil {
		if f, err = format.Default(); err != nil {
			return nil, err
		}
	}

	display := opts.Display
	if display == "" {
		display = cmd.Display(opts.Args, opts.Kwargs)
	}

	lg := opts.Logger
	if lg == nil {
		lg = logger.Default()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Number == 0 {
		opts.Number = 1
	}

	return &run{
		cmd:     cmd,
		opts:    opts,
		mode:    mode,
		format:  f,
		display: display,
		log:     lg.WithFields(map[string]any{"run": uuid.NewString(), "kind": cmd.Kind.String()}),
	}, nil
}

// Run executes cmd, printing progress and result lines as configured. The
// returned code is 0 when NoFail is set. An error means the command could not
// be run at all; no result line is printed then.
func Run(cmd Command, opts Options) (Result, error) {
	r, err := newRun(cmd, opts)
	if err != nil {
		return Result{}, err
	}

	if err := r.progress(); err != nil {
		return Result{}, err
	}

	var res Result
	if cmd.IsProcess() {
		res, err = r.process()
	} else {
		res, err = r.callable()
	}
	if err != nil {
		r.log.Debug("run failed: %v", err)
		return Result{}, err
	}

	if err := r.report(res); err != nil {
		return Result{}, err
	}

	if r.opts.NoFail {
		res.Code = 0
	}
	return res, nil
}

// RunProcess runs a KindShell or KindArgv command and returns its raw result,
// without printing anything
func RunProcess(cmd Command, opts Options) (Result, error) {
	if !cmd.IsProcess() {
		return Result{}, fmt.Errorf("%w: %s is not a process", ErrInvalidCommand, cmd.Kind)
	}
	r, err := newRun(cmd, opts)
	if err != nil {
		return Result{}, err
	}
	return r.process()
}

// RunCallable runs a KindCallable or KindDeferred command and returns its raw
// result, without printing anything
func RunCallable(cmd Command, opts Options) (Result, error) {
	if cmd.IsProcess() {
		return Result{}, fmt.Errorf("%w: %s is not a callable", ErrInvalidCommand, cmd.Kind)
	}
	r, err := newRun(cmd, opts)
	if err != nil {
		return Result{}, err
	}
	return r.callable()
}

func (r *run) progress() error {
	if r.opts.Silent || !r.opts.Progress || !r.format.HasProgress() {
		return nil
	}
	line, err := r.format.RenderProgress(r.opts.Title, r.display)
	if err != nil {
		return fmt.Errorf("failed to render progress: %w", err)
	}
	_, _ = fmt.Fprint(r.opts.Out, line+"\r")
	return nil
}

func (r *run) report(res Result) error {
	if r.opts.Silent {
		return nil
	}
	line, err := r.format.RenderResult(format.Vars{
		Title:   r.opts.Title,
		Command: r.display,
		Code:    res.Code,
		Number:  r.opts.Number,
		Output:  res.Output,
		NoFail:  r.opts.NoFail,
		Quiet:   r.opts.Quiet,
		Silent:  r.opts.Silent,
	})
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, _ = fmt.Fprintln(r.opts.Out, line)
	return nil
}

// usePTY reports whether a process run goes through a pseudo-terminal: it
// must be requested, displayable by the format, possible on this system and
// compatible with the capture mode.
func (r *run) usePTY() bool {
	return r.opts.PTY &&
		r.format.AcceptANSI &&
		shell.SupportsPTY(r.mode) &&
		preflight.PTYAvailable()
}

func (r *run) executor() shell.Executor {
	if r.opts.Executor != nil {
		return r.opts.Executor
	}
	return &shell.Runner{Debug: r.log.Level() == logger.LevelDebug, Logger: r.log}
}

func (r *run) process() (Result, error) {
	ex := r.executor()

	var (
		code   int
		output string
		err    error
	)
	if r.usePTY() {
		argv := r.cmd.Argv
		switch {
		case r.cmd.Kind == KindShell:
			argv = []string{"sh", "-c", r.cmd.Line}
		case r.opts.UseShell:
			argv = []string{"sh", "-c", shell.Quote(r.cmd.Argv)}
		}
		r.log.Debug("running in a pty: %s", r.display)
		code, output, err = ex.RunPTY(shell.PTYRequest{
			Argv:  argv,
			Mode:  r.mode,
			Input: r.opts.Input,
			Size:  r.opts.PTYSize,
		})
	} else {
		req := shell.ProcessRequest{Mode: r.mode, Input: r.opts.Input, UseShell: r.opts.UseShell}
		if r.cmd.Kind == KindShell {
			req.Shell = r.cmd.Line
		} else {
			req.Argv = r.cmd.Argv
		}
		code, output, err = ex.RunProcess(req)
	}
	if err != nil {
		return Result{}, err
	}

	r.log.Debug("process exited with %d", code)
	return Result{Code: code, Output: output}, nil
}

func (r *run) callable() (Result, error) {
	call := r.cmd.Call
	if r.cmd.Kind == KindCallable {
		call = &callable.Call{Name: r.cmd.Name, Fn: r.cmd.Fn, Args: r.opts.Args, Kwargs: r.opts.Kwargs}
	}

	// nothing may be logged between here and the end of the capture
	r.log.Debug("calling %s (capture %s)", r.display, r.mode)
	code, output, err := callable.RunCall(call, r.mode, r.opts.Input)
	if err != nil {
		return Result{}, fmt.Errorf("failed to capture %s: %w", r.display, err)
	}

	r.log.Debug("callable exited with %d", code)
	return Result{Code: code, Output: output}, nil
}
