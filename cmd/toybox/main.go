// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the ToyBox catalog server.
// Subcommands cover serving HTTP, applying migrations and seeding the
// development catalog; running the binary without one starts the server.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"toybox/internal/config"
)

var (
	// Global flags
	verbose bool

	// cfg is loaded once by the root command before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "toybox",
	Short: "ToyBox - toy and category catalog",
	Long: `ToyBox serves a small catalog of toys grouped into categories.

Configuration is read from the environment, optionally pre-loaded from a
.env file in the working directory.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// setupLogger installs the default structured logger. Debug output is
// enabled by --verbose.
func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
