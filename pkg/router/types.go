package router

// RouteKind classifies what a declaration points at. The router carries
// the kind as opaque metadata; only the dispatch layer interprets it.
type RouteKind string

const (
	// KindPage declares a page route rendered by a component.
	KindPage RouteKind = "page"

	// KindAPI declares an API route returning data.
	KindAPI RouteKind = "api"
)

// Valid reports whether k is one of the declared kinds.
func (k RouteKind) Valid() bool {
	return k == KindPage || k == KindAPI
}

// RouteDeclaration is one route as declared by the application, typically
// loaded from a route manifest. Pattern syntax is documented at
// CompilePattern.
type RouteDeclaration struct {
	// ID uniquely identifies the route across the table, e.g. "users.show".
	ID string `json:"id"`

	// Pattern is the URL pattern, e.g. "/users/:id" or "/files/:path*".
	Pattern string `json:"pattern"`

	// Kind is page or api.
	Kind RouteKind `json:"kind"`

	// ModuleRef names the code module implementing the route.
	ModuleRef string `json:"module"`

	// ComponentRef optionally names the component within the module.
	ComponentRef string `json:"component,omitempty"`

	// Methods optionally lists the HTTP methods the route serves. The
	// router never interprets this; it is carried for the dispatch layer.
	Methods []string `json:"methods,omitempty"`
}

// CompiledRoute pairs a declaration with its compiled segment list.
type CompiledRoute struct {
	Declaration RouteDeclaration

	// Segments is the compiled pattern; empty for the root route "/".
	Segments []Segment

	// Normalized is the pattern in NormalizePattern form. Duplicate
	// detection compares this, so "/users" and "/users/" collide.
	Normalized string
}

// Dynamic reports whether any segment is a parameter or wildcard.
func (r *CompiledRoute) Dynamic() bool {
	for _, s := range r.Segments {
		if s.Kind != SegmentStatic {
			return true
		}
	}
	return false
}

// WildcardKey is the params key under which the anonymous wildcard "*"
// records its capture.
const WildcardKey = "*"

// MatchResult is a successful match: the winning route and the decoded
// parameter values extracted from the path.
type MatchResult struct {
	// Route is the matched declaration. Never nil.
	Route *RouteDeclaration

	// Params maps parameter names to decoded values. Non-nil, possibly
	// empty. An optional wildcard that matched zero segments records no
	// entry at all.
	Params map[string]string
}

// Param returns the named parameter value, or "" when absent.
func (m *MatchResult) Param(name string) string {
	if m == nil {
		return ""
	}
	return m.Params[name]
}

// Stats summarizes a route table.
type Stats struct {
	// StaticCount is the number of routes whose every segment is literal.
	StaticCount int `json:"staticCount"`

	// DynamicCount is the number of routes with at least one parameter
	// or wildcard segment.
	DynamicCount int `json:"dynamicCount"`

	// TotalRoutes is the number of routes in the table.
	TotalRoutes int `json:"totalRoutes"`
}
