package cmd

import (
	"errors"

	"github.com/mbourmaud/failprint/internal/preflight"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the environment supports every failprint feature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !preflight.PrintResults(cmd.OutOrStdout(), preflight.RunAllChecks()) {
				cmd.SilenceUsage = true
				return errors.New("some checks failed")
			}
			return nil
		},
	}
}
