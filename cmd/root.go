package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"audiolab/server"
)

var rootCmd = &cobra.Command{
	Use:   "audiolab_server",
	Short: "Audiolab tracks acoustic recorders and their captures.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
