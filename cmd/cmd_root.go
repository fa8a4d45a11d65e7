// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/jcodagnone/donar/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootOptions = struct {
	dbDriver string
	dbDSN    string
}{}

var rootCmd = &cobra.Command{
	Use:   "donar",
	Short: "finds nearby places that accept donations",
	Long: `
donar combines a local registry of organizations with Google Places results,
keeps the ones that accept the requested kind of donation and ranks them by
driving distance.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg = config.Load(logrus.StandardLogger())

		if cmd.Flags().Changed("db-driver") {
			cfg.DBDriver = rootOptions.dbDriver
		}

		if cmd.Flags().Changed("db") {
			cfg.DBDSN = rootOptions.dbDSN
		}

		setupLogging(cfg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootOptions.dbDriver, "db-driver", config.DefaultDBDriver, "Registry database driver (duckdb or pgx)")
	pf.StringVar(&rootOptions.dbDSN, "db", config.DefaultDBDSN, "Registry database DSN")
}

func setupLogging(c *config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(c.LogLevel)

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})

		return
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
