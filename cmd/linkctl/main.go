package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexraskin/linkflow/internal/config"
	"github.com/alexraskin/linkflow/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "linkctl",
	Short:         "Manage LinkFlow profiles from the command line",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logging.Init(level)
	},
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().String("database", cfg.DatabaseURL, "database URL (postgres://, file path, libsql://)")
	rootCmd.PersistentFlags().String("log-level", "error", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(themesCmd, renderCmd, hashPasswordCmd, createProfileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
