package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the scribectl command tree. Commands print their own
// error messages, so cobra's usage and error output stay quiet.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scribectl",
		Short:         "Operator tooling for the Scribe API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSendWelcomeEmailCmd(connectWelcomeEmailService))

	return root
}
