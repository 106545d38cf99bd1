// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the JSON HTTP API.

Routes (chi):

	GET  /api/v1/health                       liveness, DB ping, model status
	GET  /api/v1/movies/home                  popular, recent and top rated lists
	GET  /api/v1/movies/search?q=&page=       paginated search, logged
	GET  /api/v1/movies/{id}                  movie, 8 recommendations, caller's rating
	POST /api/v1/movies/{id}/rating           rate a movie (auth required)
	GET  /api/v1/recommendations/{id}?n=      similar movies with scores
	POST /api/v1/auth/register                create an account
	POST /api/v1/auth/login                   issue a JWT
	GET  /api/v1/admin/model                  similarity model status
	POST /api/v1/admin/model/rebuild          rebuild and hot-swap the model (auth required)
	GET  /metrics                             Prometheus

Every JSON response uses the models.APIResponse envelope. Errors carry a
stable code:

	VALIDATION_ERROR     400 malformed id, n, page, body or credentials
	UNAUTHORIZED         401 missing or invalid token, bad credentials
	NOT_FOUND            404 unknown movie
	CONFLICT             409 username taken, rebuild already running
	TOO_MANY_REQUESTS    429 rate limit, login lockout, rebuild cooldown
	SERVICE_UNAVAILABLE  503 recommendations disabled
	INTERNAL_ERROR       500 anything else

Recommendation responses are cached in an LRU keyed by movie id and n. The
cache is cleared whenever the engine installs a new model.
*/
package api
