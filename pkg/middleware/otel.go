package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strata-dev/strata/pkg/dispatch"
)

// Default tracer name for strata applications.
const defaultTracerName = "strata"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "strata").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// SpanNameFormatter builds the span name for a dispatch.
	// Default: "route <pattern>".
	SpanNameFormatter func(ctx *dispatch.Ctx) string

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(ctx *dispatch.Ctx) bool

	// AttributeExtractor extracts custom attributes from the context.
	// Called for each traced request.
	AttributeExtractor func(ctx *dispatch.Ctx) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithSpanNameFormatter sets a custom span name formatter.
func WithSpanNameFormatter(f func(ctx *dispatch.Ctx) string) OTelOption {
	return func(c *OTelConfig) {
		c.SpanNameFormatter = f
	}
}

// WithFilter sets a filter function for requests.
func WithFilter(filter func(ctx *dispatch.Ctx) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *dispatch.Ctx) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:        defaultTracerName,
		SpanNameFormatter: formatSpanName,
	}
}

// OpenTelemetry creates middleware that traces every dispatched request.
//
// The middleware:
//   - Creates a span per dispatch, named after the matched route pattern
//   - Replaces the request context so downstream calls inherit the trace
//   - Records handler errors and sets span status
//
// Example:
//
//	handler := dispatch.NewHandler(rt, registry,
//	    dispatch.WithMiddleware(middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	    )),
//	)
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure the provider in main() before
// starting the server:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) dispatch.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from the configured or global provider
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return dispatch.MiddlewareFunc(func(ctx *dispatch.Ctx, next func() error) error {
		// Apply filter if configured
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		spanName := config.SpanNameFormatter(ctx)

		// Build span attributes from the match, never the raw path
		attrs := []attribute.KeyValue{
			attribute.String("http.method", ctx.Request.Method),
		}
		if route := ctx.Route(); route != nil {
			attrs = append(attrs,
				attribute.String("strata.route_id", route.ID),
				attribute.String("strata.route_kind", string(route.Kind)),
				attribute.String("strata.route_pattern", route.Pattern),
			)
		}
		if ctx.Match != nil {
			attrs = append(attrs, attribute.Int("strata.param_count", len(ctx.Match.Params)))
		}

		// Add custom attributes
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		// Start span
		spanCtx, span := config.tracer.Start(
			ctx.Context(),
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		// Swap the request context so handlers and downstream calls
		// (database drivers, HTTP clients) inherit the trace.
		ctx.Request = ctx.Request.WithContext(spanCtx)

		// Execute the handler
		err := next()

		// Record result
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}

// SpanFromCtx retrieves the current trace span from a dispatch context.
// Returns a no-op span when the request is not traced.
//
// Example:
//
//	func MyHandler(ctx *dispatch.Ctx) error {
//	    span := middleware.SpanFromCtx(ctx)
//	    span.SetAttributes(attribute.Int("my.count", 42))
//	    return nil
//	}
func SpanFromCtx(ctx *dispatch.Ctx) trace.Span {
	return trace.SpanFromContext(ctx.Context())
}

// formatSpanName creates the default span name for a dispatch.
func formatSpanName(ctx *dispatch.Ctx) string {
	if route := ctx.Route(); route != nil {
		return "route " + route.Pattern
	}
	return "route /"
}
