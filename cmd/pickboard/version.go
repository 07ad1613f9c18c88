package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sujalbistaa/pickboard/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pickboard version %s\n", config.GetFullVersion())
	},
}
