// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package tmdbimport loads the TMDB 5000 movies and credits CSV files into the
catalog.

The two files are joined on movies.id = credits.movie_id; movies without a
credits row are not imported. The JSON array columns (genres, keywords, cast,
crew) are parsed leniently: a malformed value becomes an empty list rather
than failing the row. Rows are written through the database batch upsert,
and per-row failures are counted and logged without stopping the import.

Usage:

	importer := tmdbimport.NewImporter(&cfg.Import, db)
	stats, err := importer.Import(ctx)
	if err != nil {
	    return err
	}
	logging.Info().Int64("created", stats.Created).Msg("Import done")
*/
package tmdbimport
