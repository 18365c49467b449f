package cmd

import (
	"github.com/spf13/cobra"

	"audiolab/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP server",
	Long:  `Run the recorder catalog HTTP server with its MySQL, Redis and MinIO backends.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
