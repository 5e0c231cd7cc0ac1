// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/db47h/meshsim"
	"github.com/db47h/meshsim/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "meshsim",
	Short:         "meshsim simulates digital logic circuits",
	Long:          `meshsim flattens netlist designs into a mesh of nodes and simulates them tick by tick.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "meshsim.yaml", "Configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("workers", 0, "Number of evaluation workers (overrides the configuration file)")
}

// setup loads the configuration and creates the logger from the persistent
// flags of cmd.
func setup(cmd *cobra.Command) (meshsim.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := meshsim.LoadConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
		if err = cfg.Validate(); err != nil {
			return cfg, nil, err
		}
	}
	lvl, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(lvl)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}
