package router

import (
	"github.com/strata-dev/strata/pkg/routepath"
)

// Router owns a compiled, validated route table. It is immutable for
// readers once built; Match is safe for concurrent use. AddRoute swaps
// the table wholesale and needs external synchronization (see Live).
type Router struct {
	decls  []RouteDeclaration
	routes []*CompiledRoute
	table  *table
}

// New compiles, validates and indexes the given declarations. The error,
// when non-nil, is always a *RouterError describing the first conflict
// found; on error no partial router exists.
func New(decls []RouteDeclaration) (*Router, error) {
	routes := compileAll(decls)
	if err := validateRoutes(routes); err != nil {
		return nil, err
	}
	return &Router{
		decls:  append([]RouteDeclaration(nil), decls...),
		routes: routes,
		table:  newTable(routes),
	}, nil
}

// compileAll compiles every declaration. Compilation cannot fail;
// malformed syntax degrades to literals and structural problems are the
// validator's to report.
func compileAll(decls []RouteDeclaration) []*CompiledRoute {
	routes := make([]*CompiledRoute, len(decls))
	for i, d := range decls {
		routes[i] = &CompiledRoute{
			Declaration: d,
			Segments:    CompilePattern(d.Pattern),
			Normalized:  NormalizePattern(d.Pattern),
		}
	}
	return routes
}

// Match resolves a raw request path against the table. It returns nil
// for no match and never panics; hostile encodings (fabricated slashes,
// double encoding, invalid UTF-8) are rejected rather than guessed at.
//
// rawPath must be the escaped request path (http.Request.URL.EscapedPath),
// not the pre-decoded URL.Path, so that the single decoding pass here
// remains the only one.
func (r *Router) Match(rawPath string) *MatchResult {
	segments, err := routepath.DecodeRequestPath(rawPath)
	if err != nil {
		return nil
	}
	params := make(map[string]string)
	idx, ok := r.table.match(0, segments, params)
	if !ok {
		return nil
	}
	return &MatchResult{
		Route:  &r.routes[idx].Declaration,
		Params: params,
	}
}

// AddRoute validates the extended route set and, on success, replaces
// the table with a freshly built one. The router is unchanged on error,
// so a bad declaration can never corrupt a serving table.
func (r *Router) AddRoute(decl RouteDeclaration) error {
	decls := make([]RouteDeclaration, 0, len(r.decls)+1)
	decls = append(decls, r.decls...)
	decls = append(decls, decl)
	next, err := New(decls)
	if err != nil {
		return err
	}
	*r = *next
	return nil
}

// Routes returns the declarations in declaration order. The slice is a
// copy; mutating it does not affect the router.
func (r *Router) Routes() []RouteDeclaration {
	return append([]RouteDeclaration(nil), r.decls...)
}

// Stats summarizes the table.
func (r *Router) Stats() Stats {
	s := Stats{TotalRoutes: len(r.routes)}
	for _, route := range r.routes {
		if route.Dynamic() {
			s.DynamicCount++
		} else {
			s.StaticCount++
		}
	}
	return s
}
