package main

import (
	"os"

	cmd "github.com/mosaicnetworks/dcr/cmd/dcr-client/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
