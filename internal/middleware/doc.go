// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides HTTP infrastructure middleware: request ID
tracking and Prometheus instrumentation.

Both are written as http.HandlerFunc wrappers and adapted to chi in the api
package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Request IDs are taken from an incoming X-Request-ID header when it is
reasonable, generated otherwise, echoed on the response and stored in the
request context for logging.Ctx.

PrometheusMetrics labels requests by the matched chi route pattern
(/api/v1/movies/{id}) rather than the raw path, so movie ids do not create
one series each.
*/
package middleware
