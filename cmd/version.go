package cmd

import (
	"fmt"
	"runtime"

	"github.com/mbourmaud/failprint/internal/ui"
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X github.com/mbourmaud/failprint/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersionString returns the styled version line
func GetVersionString() string {
	return fmt.Sprintf("%s %s %s",
		ui.StyleBold.Render("failprint"),
		ui.StyleCyan.Render(Version),
		ui.StyleDim.Render(fmt.Sprintf("(commit %s, built %s, %s/%s)", GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		},
	}
}
