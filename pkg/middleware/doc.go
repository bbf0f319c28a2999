// Package middleware provides production-grade middleware for route dispatch.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry distributed tracing middleware
//
// # Prometheus Metrics
//
// The Prometheus middleware collects metrics about dispatched requests,
// labeled by the matched route pattern so cardinality stays bounded:
//   - strata_requests_total: Total requests by pattern, kind, and status
//   - strata_request_duration_seconds: Handler duration histogram
//   - strata_request_errors_total: Handler errors by pattern and error type
//   - strata_requests_in_flight: Requests currently being handled
//   - strata_unmatched_total: Requests that matched no route
//   - strata_reloads_total: Route table reloads by status
//
//	handler := dispatch.NewHandler(rt, registry,
//	    dispatch.WithMiddleware(middleware.Prometheus()),
//	)
//
// Then expose the metrics endpoint:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware traces every dispatch. Spans are named
// after the matched route pattern ("route /users/:id") and carry the
// route id, kind, pattern, and parameter count as attributes.
//
//	handler := dispatch.NewHandler(rt, registry,
//	    dispatch.WithMiddleware(middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	        middleware.WithFilter(func(ctx *dispatch.Ctx) bool {
//	            return ctx.Request.URL.Path != "/healthz"
//	        }),
//	    )),
//	)
//
// # Context Propagation
//
// The tracing middleware swaps the request context, so database drivers
// and HTTP clients inherit the trace:
//
//	func MyHandler(ctx *dispatch.Ctx) error {
//	    row := db.QueryRowContext(ctx.Context(), "SELECT ...")
//	    req, _ := http.NewRequestWithContext(ctx.Context(), "GET", url, nil)
//	    return nil
//	}
package middleware
