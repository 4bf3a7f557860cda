package cmd

import (
	"fmt"

	"github.com/mbourmaud/failprint/internal/format"
	"github.com/mbourmaud/failprint/internal/ui"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the built-in output formats",
		Long: `List the built-in output formats.

The default format is marked with *. Use FAILPRINT_FORMAT or --format to
pick another one, or --format custom=TEMPLATE for a Go template using
.title .command .code .success .failure .number .output .nofail .quiet
and .silent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultName := format.DefaultName()

			var rows [][]string
			for _, name := range format.Names() {
				f, _ := format.Get(name)
				marker := " "
				if name == defaultName {
					marker = "*"
				}
				rows = append(rows, []string{
					marker + " " + name,
					yesNo(f.HasProgress()),
					yesNo(f.AcceptANSI),
				})
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), ui.Table([]string{"  NAME", "PROGRESS", "PTY"}, rows))
			return err
		},
	}
}

func yesNo(b bool) string {
	if b {
		return ui.StyleGreen.Render("yes")
	}
	return ui.StyleDim.Render("no")
}
