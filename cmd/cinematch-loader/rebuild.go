// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

func newRebuildCmd(app *loaderApp) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Build the similarity model from the catalog and save it",
		Long: `Rebuild fits the TF-IDF vocabulary over the whole catalog, computes the
pairwise similarity matrix and writes it to the configured model store.

A server running with RECOMMEND_WATCH_MODEL=true picks up the new file
without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			return app.rebuild(cmd.Context(), db, cmd.OutOrStdout())
		},
	}
}

// rebuild builds and persists a model. Unlike the server, a model that cannot
// be saved is a failure here.
func (a *loaderApp) rebuild(ctx context.Context, db *database.DB, out io.Writer) error {
	store, closeStore, err := recommend.OpenStore(&a.cfg.Recommend)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logging.Error().Err(err).Msg("error closing model store")
		}
	}()

	engine, err := recommend.NewEngine(recommend.ConfigFromApp(&a.cfg.Recommend), db, store, logging.Logger())
	if err != nil {
		return err
	}

	outcome := engine.Rebuild(ctx)
	if outcome.Err != nil {
		return fmt.Errorf("rebuild failed: %w", outcome.Err)
	}
	if outcome.SaveErr != nil {
		return fmt.Errorf("model built but not saved: %w", outcome.SaveErr)
	}

	fmt.Fprintf(out, "model rebuilt: %d movies, %d terms in %s, saved to %s\n",
		outcome.Movies, outcome.Terms, outcome.Duration.Round(time.Millisecond), store.Location())
	return nil
}
