package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/config"
	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/logger"
	"github.com/mbourmaud/failprint/internal/runner"
	"github.com/mbourmaud/failprint/internal/shell"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type rootOptions struct {
	capture    string
	format     string
	pty        bool
	progress   bool
	noProgress bool
	quiet      bool
	silent     bool
	noFail     bool
	multi      bool
	number     int
	title      string
	stdinFile  string
	configPath string
	debug      bool
	logLevel   string
	logJSON    bool

	exitCode int
}

// NewRootCmd builds the failprint command tree
func NewRootCmd() (*cobra.Command, *rootOptions) {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "failprint [flags] COMMAND...",
		Short: "Run a command, print its output only if it fails",
		Long: `failprint runs a command and prints a one-line result.
The command output is only shown when it fails.

A single argument is run through the shell, several arguments are run
as is. The exit status of failprint is the exit status of the command.

Defaults are read from .failprint.yaml, .failprint.yml or .failprint.toml
in the current directory, then FAILPRINT_FORMAT, then flags.

Examples:
  failprint make test
  failprint -t "Linting" 'ruff check . && mypy .'
  failprint -f tap -m 'make build' 'make test'
  failprint -f 'custom={{.code}} {{.command}}' false`,
		Args: cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.Flags()
	// everything after the command name belongs to the command
	flags.SetInterspersed(false)
	flags.StringVarP(&o.capture, "capture", "c", "", "Which output to capture: stdout, stderr, both or none (default both)")
	flags.StringVarP(&o.format, "format", "f", "", "Output format: pretty, tap or custom=TEMPLATE (default from FAILPRINT_FORMAT, else pretty)")
	flags.BoolVarP(&o.pty, "pty", "y", false, "Run the command in a pseudo-terminal when the format accepts colors")
	flags.BoolVarP(&o.progress, "progress", "p", false, "Show a progress line while the command runs (default)")
	flags.BoolVarP(&o.noProgress, "no-progress", "P", false, "Do not show a progress line")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "Do not print the output of failed commands")
	flags.BoolVarP(&o.silent, "silent", "s", false, "Do not print anything")
	flags.BoolVarP(&o.noFail, "zero-exit", "z", false, "Always exit with 0")
	flags.BoolVar(&o.noFail, "nofail", false, "Alias for --zero-exit")
	flags.BoolVarP(&o.multi, "multi", "m", false, "Run each argument as a separate shell command")
	flags.IntVarP(&o.number, "number", "n", 1, "Number of the command, used by the tap format")
	flags.StringVarP(&o.title, "title", "t", "", "Title shown instead of the command")
	flags.StringVar(&o.stdinFile, "stdin-file", "", "File passed as standard input to the command (- for stdin)")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&o.configPath, "config", "", "Configuration file (default .failprint.yaml in the current directory)")
	pflags.BoolVar(&o.debug, "debug", false, "Print debug logs on stderr (same as --log-level debug)")
	pflags.StringVar(&o.logLevel, "log-level", "", "Minimum level of the logs printed on stderr: debug, info, warn or error (default warn)")
	pflags.BoolVar(&o.logJSON, "log-json", false, "Print logs as JSON")

	rootCmd.MarkFlagsMutuallyExclusive("progress", "no-progress")
	_ = rootCmd.RegisterFlagCompletionFunc("capture", fixedCompletion(capture.Names()))
	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedCompletion(format.Names()))
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", fixedCompletion([]string{"debug", "info", "warn", "error"}))

	rootCmd.AddCommand(
		newVersionCmd(),
		newFormatsCmd(),
		newCheckCmd(),
		newInitCmd(),
	)

	return rootCmd, o
}

// Execute runs the command line and returns the process exit status
func Execute() int {
	rootCmd, o := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return exitStatus(o.exitCode)
}

// exitStatus maps a result code onto a process exit status. Signals follow
// the shell convention of 128+N and anything else out of range fails with 1.
func exitStatus(code int) int {
	switch {
	case code >= 0 && code <= 255:
		return code
	case code < 0 && code >= -127:
		return 128 - code
	default:
		return 1
	}
}

func (o *rootOptions) setupLogging() error {
	level := logger.LevelWarn
	if o.logLevel != "" {
		parsed, err := logger.ParseLevel(o.logLevel)
		if err != nil {
			return err
		}
		level = parsed
	}
	if o.debug {
		level = logger.LevelDebug
	}
	logger.SetDefaultLevel(level)
	logger.SetDefaultJSON(o.logJSON)
	return nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return config.LoadOrDefault()
}

// settings merges defaults, the configuration file, the environment and the
// flags into runner options
func (o *rootOptions) settings(cmd *cobra.Command) (runner.Options, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return runner.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("capture") {
		cfg.Capture = o.capture
	}
	if flags.Changed("pty") {
		cfg.PTY = o.pty
	}
	switch {
	case flags.Changed("no-progress"):
		cfg.Progress = !o.noProgress
	case flags.Changed("progress"):
		cfg.Progress = o.progress
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.quiet
	}
	if flags.Changed("silent") {
		cfg.Silent = o.silent
	}
	if flags.Changed("zero-exit") || flags.Changed("nofail") {
		cfg.NoFail = o.noFail
	}

	mode, err := cfg.CaptureMode()
	if err != nil {
		return runner.Options{}, fmt.Errorf("invalid capture: %w", err)
	}

	formatName := format.DefaultName()
	if strings.TrimSpace(os.Getenv(format.EnvVar)) == "" && cfg.Format != "" {
		formatName = cfg.Format
	}
	if flags.Changed("format") {
		formatName = o.format
	}
	f, err := format.Resolve(formatName)
	if err != nil {
		return runner.Options{}, err
	}

	opts := runner.Options{
		Number:   o.number,
		Capture:  mode,
		Title:    o.title,
		Format:   f,
		PTY:      cfg.PTY,
		Progress: cfg.Progress,
		NoFail:   cfg.NoFail,
		Quiet:    cfg.Quiet,
		Silent:   cfg.Silent,
		Out:      cmd.OutOrStdout(),
		PTYSize:  terminalSize(),
	}

	if o.stdinFile != "" {
		input, err := readInput(o.stdinFile, cmd.InOrStdin())
		if err != nil {
			return runner.Options{}, err
		}
		opts.Input = &input
	}

	return opts, nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read standard input file: %w", err)
	}
	return string(data), nil
}

// terminalSize returns the size of the terminal on stdout, if any
func terminalSize() *shell.WindowSize {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return nil
	}
	return &shell.WindowSize{Rows: uint16(rows), Cols: uint16(cols)}
}

// commands turns positional arguments into commands
func (o *rootOptions) commands(args []string) []runner.Command {
	if o.multi {
		cmds := make([]runner.Command, 0, len(args))
		for _, arg := range args {
			cmds = append(cmds, runner.Shell(arg))
		}
		return cmds
	}
	if len(args) == 1 {
		return []runner.Command{runner.Shell(args[0])}
	}
	return []runner.Command{runner.Argv(args...)}
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	opts, err := o.settings(cmd)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	for i, command := range o.commands(args) {
		runOpts := opts
		runOpts.Number = opts.Number + i
		res, err := runner.Run(command, runOpts)
		if err != nil {
			if errors.Is(err, shell.ErrSpawn) {
				return err
			}
			return fmt.Errorf("failed to run %s: %w", command.Display(nil, nil), err)
		}
		if o.exitCode == 0 && !res.Success() {
			o.exitCode = res.Code
		}
	}
	return nil
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
