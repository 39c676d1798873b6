// Package cmd contains the howmuch CLI commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"howmuch-apple/config"
	"howmuch-apple/utils"
)

var (
	cfg      *config.Config
	logger   *utils.Logger
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "howmuch",
	Short: "Used Apple device price lookup",
	Long: `howmuch serves resale price estimates for used Apple devices by model,
configuration and Korean administrative region.

Example usage:
  howmuch serve                       # Start the web server (default)
  howmuch serve --mode live           # Proxy queries to the price backend
  howmuch import --file listings.csv  # Load market listings into PostgreSQL`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = utils.NewLogger(utils.ParseLevel(cfg.LogLevel))
		return nil
	},
	RunE: runServe,
}

// Execute runs the command line. With no sub-command it serves.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
}
