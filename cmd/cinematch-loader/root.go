// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
)

// loaderApp carries state shared by the subcommands.
type loaderApp struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	app := &loaderApp{}

	root := &cobra.Command{
		Use:   "cinematch-loader",
		Short: "Load the movie catalog and build the similarity model",
		Long: `cinematch-loader populates the Cinematch catalog from the TMDB 5000
movies and credits CSV files, and builds the content-based similarity model
that the server loads at startup.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}
	root.PersistentFlags().StringVar(&app.envFile, "env-file", ".env", "dotenv file loaded before configuration (missing files are ignored)")

	root.AddCommand(newImportCmd(app), newRebuildCmd(app))
	return root
}

func (a *loaderApp) setup() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.LoadOffline()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return nil
}

// openDB opens the catalog. Migrations run on open.
func (a *loaderApp) openDB() (*database.DB, error) {
	return database.New(&a.cfg.Database)
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing database")
	}
}
