package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evidex-hq/custodia/pkg/config"
	"evidex-hq/custodia/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	verbose  bool
	operator struct {
		username  string
		firstName string
		lastName  string
	}
)

var rootCmd = &cobra.Command{
	Use:   "custodia",
	Short: "Custodia - evidence intake and exhibit lifecycle manager",
	Long: `Custodia manages the intake and lifecycle of digital evidence exhibits.

It provides:
  - Validated intake of devices with their investigative requests
  - Deterministic exhibit number assignment
  - Extraction status tracking through to release
  - Register search, filtering, and export for reporting`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		_, err := logging.Setup(logging.Config{Level: level, Format: "text"})
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file named by the --config flag,
// falling back to defaults when the file does not exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return config.NewDefaultConfig(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&operator.username, "operator", "", "operator username recorded in logs and audit entries")
	rootCmd.PersistentFlags().StringVar(&operator.firstName, "operator-first", "", "operator first name (used for exhibit number initials)")
	rootCmd.PersistentFlags().StringVar(&operator.lastName, "operator-last", "", "operator last name (used for exhibit number initials)")
}
