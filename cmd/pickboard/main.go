package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/sujalbistaa/pickboard/internal/common"
	"github.com/sujalbistaa/pickboard/internal/config"
)

var (
	configFiles []string
	cfg         *config.Config
	logger      arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:           "pickboard",
	Short:         "Extract trading picks from advisor reports and publish the pickboard page",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		if len(configFiles) == 0 {
			configFiles = config.DiscoverFiles()
		}
		var err error
		cfg, err = config.LoadFromFiles(configFiles...)
		if err != nil {
			return err
		}
		logger = common.NewLogger(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be repeated)")
	rootCmd.AddCommand(generateCmd, extractCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
