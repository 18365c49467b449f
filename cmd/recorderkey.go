package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"audiolab/config"
	"audiolab/core/auth"
)

// recorderkeyCmd mints a device credential for an already registered
// recorder, for provisioning a unit by hand.
var recorderkeyCmd = &cobra.Command{
	Use:   "recorderkey <recorder-uid>",
	Short: "Mint a recorder key",
	Long:  `Mint a signed recorder key for the given recorder uid, using the configured server secret.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		key, err := auth.EncodeRecorderKey(args[0], cfg.SecretKey)
		if err != nil {
			log.Fatalf("Failed to mint recorder key: %v", err)
		}
		fmt.Println(key)
	},
}

func init() {
	rootCmd.AddCommand(recorderkeyCmd)
}
