package cmd

import (
	"fmt"
	"os"

	"orangebox-setup/internal/provision"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "orangebox-setup",
	Short:        "orangebox-setup provisions an Orange Box lab rack host",
	SilenceUsage: true,
}

// Execute runs the CLI and exits with the code carried by the error
// taxonomy (1 network/topology, 2 DNS, 77 privilege).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if hint := provision.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(provision.ExitCode(err))
	}
}
