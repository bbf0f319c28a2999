// Package strata compiles declarative route manifests into conflict-checked
// match tables and dispatches HTTP requests against them.
//
// This is the recommended import for simple embeddings:
//
//	import "github.com/strata-dev/strata"
//
// Usage:
//
//	table, err := strata.Load(ctx, "routes.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry := strata.NewRegistry().
//	    Page("home", func(ctx *strata.Ctx) error {
//	        return ctx.Text(http.StatusOK, "home")
//	    })
//	http.ListenAndServe(":5173", strata.Handler(table, registry))
//
// The full API lives in the subpackages: pkg/router for compilation and
// matching, pkg/manifest for manifest sources, pkg/dispatch for serving,
// and pkg/middleware for metrics and tracing.
package strata

import (
	"context"
	"net/http"

	"github.com/strata-dev/strata/pkg/dispatch"
	"github.com/strata-dev/strata/pkg/manifest"
	"github.com/strata-dev/strata/pkg/router"
)

// Common types, re-exported so simple embeddings need one import.
type (
	// Router is an immutable compiled route table.
	Router = router.Router

	// Live is an atomically swappable route table holder.
	Live = router.Live

	// RouteDeclaration describes one route before compilation.
	RouteDeclaration = router.RouteDeclaration

	// RouteKind distinguishes page routes from API routes.
	RouteKind = router.RouteKind

	// MatchResult carries the matched route and its bound parameters.
	MatchResult = router.MatchResult

	// Ctx carries the request, response writer, and match for one dispatch.
	Ctx = dispatch.Ctx

	// Registry maps route ids to handlers.
	Registry = dispatch.Registry
)

// Route kinds.
const (
	KindPage = router.KindPage
	KindAPI  = router.KindAPI
)

// New compiles a route table from declarations.
func New(decls []RouteDeclaration) (*Router, error) {
	return router.New(decls)
}

// NewLive wraps a compiled table for lock-free swapping.
func NewLive(r *Router) *Live {
	return router.NewLive(r)
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return dispatch.NewRegistry()
}

// Load reads and compiles a route manifest. The reference may be a local
// file path or an s3:// URL.
func Load(ctx context.Context, ref string) (*Router, error) {
	src, err := manifest.Open(ref)
	if err != nil {
		return nil, err
	}
	return manifest.Build(ctx, src)
}

// Handler builds the http.Handler that matches requests against the table
// and dispatches them through the registry.
func Handler(m dispatch.Matcher, registry *Registry, opts ...dispatch.HandlerOption) http.Handler {
	return dispatch.NewHandler(m, registry, opts...)
}
