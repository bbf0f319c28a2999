// Package router compiles route patterns, validates them for conflicts,
// and answers match queries against concrete request paths.
//
// # Route Patterns
//
// Patterns are URL paths whose segments are literals, named parameters,
// or wildcards:
//
//	/about                 static
//	/users/:id             parameter (one segment, bound by name)
//	/files/*               anonymous wildcard (one or more trailing segments)
//	/files/:path*          named wildcard
//	/docs/:path*?          optional named wildcard (also matches zero segments)
//
// Matching is strictly ordered by specificity: static segments beat
// parameters, parameters beat wildcards. The order routes were declared
// in never changes the outcome.
//
// # Building a Router
//
//	r, err := router.New([]router.RouteDeclaration{
//		{ID: "users.show", Pattern: "/users/:id", Kind: router.KindPage, ModuleRef: "routes/users"},
//		{ID: "files.raw", Pattern: "/files/:path*", Kind: router.KindAPI, ModuleRef: "routes/files"},
//	})
//	if err != nil {
//		// *router.RouterError: duplicate pattern, parameter name conflict,
//		// misplaced wildcard, or ambiguous wildcard overlap.
//	}
//
// Construction is fail-fast: the first conflict aborts the build. A
// misconfigured table is a deployment-time bug and is never served.
//
// # Matching
//
//	m := r.Match("/users/42")   // m.Params["id"] == "42"
//	m = r.Match("/users/a%2Fb") // nil: encoded slashes cannot fake depth
//
// Match never panics and never returns an error; hostile or malformed
// request paths degrade to a nil result. Each raw segment is
// percent-decoded exactly once before comparison, and segments whose
// decoded form contains a path separator, a residual encoded slash, a NUL
// byte, or invalid UTF-8 are rejected outright.
//
// # Concurrency
//
// A Router is immutable once built and safe for concurrent Match calls.
// AddRoute swaps in a rebuilt table and needs external synchronization;
// Live wraps a Router in an atomic pointer for lock-free reads with
// serialized updates.
package router
