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

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/tmdbimport"
)

type importOptions struct {
	moviesCSV  string
	creditsCSV string
	batchSize  int
	rebuild    bool
}

func newImportCmd(app *loaderApp) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the TMDB movies and credits CSV files",
		Long: `Import joins the movies file with the credits file on movie id and
upserts every joined row into the catalog. Rows that cannot be parsed are
skipped and counted; the import continues.

Flags override IMPORT_MOVIES_CSV, IMPORT_CREDITS_CSV and IMPORT_BATCH_SIZE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runImport(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.moviesCSV, "movies-csv", "", "path to tmdb_5000_movies.csv")
	cmd.Flags().StringVar(&opts.creditsCSV, "credits-csv", "", "path to tmdb_5000_credits.csv")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "rows per upsert batch")
	cmd.Flags().BoolVar(&opts.rebuild, "rebuild", false, "rebuild and save the similarity model after importing")
	return cmd
}

func (a *loaderApp) runImport(ctx context.Context, opts *importOptions, out io.Writer) error {
	importCfg := a.cfg.Import
	if opts.moviesCSV != "" {
		importCfg.MoviesCSV = opts.moviesCSV
	}
	if opts.creditsCSV != "" {
		importCfg.CreditsCSV = opts.creditsCSV
	}
	if opts.batchSize > 0 {
		importCfg.BatchSize = opts.batchSize
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	stats, err := tmdbimport.NewImporter(&importCfg, db).Import(ctx)
	if stats != nil {
		printImportStats(out, stats)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if !opts.rebuild {
		return nil
	}
	return a.rebuild(ctx, db, out)
}

func printImportStats(out io.Writer, s *tmdbimport.ImportStats) {
	logging.Info().
		Int64("total", s.Total).
		Int64("created", s.Created).
		Int64("updated", s.Updated).
		Int64("skipped", s.Skipped).
		Int64("errors", s.Errors).
		Int64("unmatched", s.Unmatched).
		Dur("duration", s.Duration()).
		Msg("import finished")

	fmt.Fprintf(out, "imported %d movies (%d created, %d updated), %d skipped, %d errors, %d without credits in %s\n",
		s.Imported(), s.Created, s.Updated, s.Skipped, s.Errors, s.Unmatched, s.Duration().Round(time.Millisecond))
}
