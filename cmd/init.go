package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mbourmaud/failprint/internal/capture"
	"github.com/mbourmaud/failprint/internal/config"
	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/ui"
	"github.com/spf13/cobra"
)

type initOptions struct {
	yes    bool
	force  bool
	output string
}

func newInitCmd() *cobra.Command {
	o := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create a configuration file with the default run settings.

The file is YAML unless its name ends in .toml.

Examples:
  failprint init
  failprint init --yes
  failprint init -o .failprint.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(ui.DefaultStdio(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Write the defaults without prompting")
	cmd.Flags().BoolVar(&o.force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVarP(&o.output, "output", "o", config.FileNames[0], "File to write")

	return cmd
}

func (o *initOptions) run(stdio terminal.Stdio, out io.Writer) error {
	if !o.force && fileExists(o.output) {
		return fmt.Errorf("%s already exists, use --force to overwrite it", o.output)
	}

	cfg := config.Default()
	if !o.yes {
		if err := promptConfig(cfg, stdio); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(o.output); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, ui.CheckMark("Wrote "+o.output))
	return nil
}

func promptConfig(cfg *config.Config, stdio terminal.Stdio) error {
	name, err := ui.PromptSelectWithStdio("Format:", format.Names(), format.DefaultName(), stdio)
	if err != nil {
		return err
	}
	cfg.Format = name

	cfg.Capture, err = ui.PromptSelectWithStdio("Capture:", capture.Names(), cfg.Capture, stdio)
	if err != nil {
		return err
	}

	cfg.PTY, err = ui.PromptConfirmWithStdio("Run commands in a PTY when possible?", cfg.PTY, stdio)
	if err != nil {
		return err
	}

	cfg.Progress, err = ui.PromptConfirmWithStdio("Show a progress line?", cfg.Progress, stdio)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
