package router

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewRejectsConflictsAtomically(t *testing.T) {
	_, err := New([]RouteDeclaration{
		declare("a", "/users/:id"),
		declare("b", "/users/:uid"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var rerr *RouterError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RouterError, got %T", err)
	}
}

func TestRoutesReturnsDeclarationOrder(t *testing.T) {
	decls := []RouteDeclaration{
		declare("c", "/c"),
		declare("a", "/a"),
		declare("b", "/b"),
	}
	r := mustRouter(t, decls...)

	got := r.Routes()
	if !reflect.DeepEqual(got, decls) {
		t.Errorf("Routes() = %v, want declaration order %v", got, decls)
	}

	// The returned slice is a copy.
	got[0].ID = "mutated"
	if r.Routes()[0].ID != "c" {
		t.Error("Routes() exposed internal state")
	}
}

func TestStats(t *testing.T) {
	r := mustRouter(t,
		declare("home", "/"),
		declare("about", "/about"),
		declare("users.show", "/users/:id"),
		declare("files.raw", "/files/*"),
		declare("docs", "/docs/:path*?"),
	)

	want := Stats{StaticCount: 2, DynamicCount: 3, TotalRoutes: 5}
	if got := r.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestAddRouteExtendsTable(t *testing.T) {
	r := mustRouter(t,
		declare("users.show", "/users/:id"),
	)

	if err := r.AddRoute(declare("users.stats", "/users/stats")); err != nil {
		t.Fatalf("AddRoute() unexpected error: %v", err)
	}

	// New route is live and the priority invariant holds across the
	// rebuild: the late static addition still beats the old param.
	if m := r.Match("/users/stats"); m == nil || m.Route.ID != "users.stats" {
		t.Errorf("Match(/users/stats) = %v, want users.stats", m)
	}
	if m := r.Match("/users/42"); m == nil || m.Route.ID != "users.show" {
		t.Errorf("Match(/users/42) = %v, want users.show", m)
	}
	if got := r.Stats().TotalRoutes; got != 2 {
		t.Errorf("TotalRoutes = %d, want 2", got)
	}
}

func TestAddRouteValidatesBeforeCommit(t *testing.T) {
	r := mustRouter(t,
		declare("users.show", "/users/:id"),
	)

	err := r.AddRoute(declare("users.other", "/users/:uid"))
	if err == nil {
		t.Fatal("expected conflict error")
	}
	var rerr *RouterError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RouterError, got %T", err)
	}
	if rerr.Code != ErrParamNameConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrParamNameConflict)
	}

	// Router is unchanged: old route still matches, bad one absent.
	if m := r.Match("/users/42"); m == nil || m.Route.ID != "users.show" {
		t.Errorf("Match(/users/42) = %v, want users.show after failed add", m)
	}
	if got := len(r.Routes()); got != 1 {
		t.Errorf("Routes() length = %d, want 1 after failed add", got)
	}
}

func TestAddRouteDuplicateRejected(t *testing.T) {
	r := mustRouter(t,
		declare("users.index", "/users"),
	)

	err := r.AddRoute(declare("users.again", "/users/"))
	var rerr *RouterError
	if !errors.As(err, &rerr) || rerr.Code != ErrDuplicatePattern {
		t.Fatalf("AddRoute() = %v, want DUPLICATE_PATTERN", err)
	}
}

func TestRouteKindValid(t *testing.T) {
	tests := []struct {
		kind RouteKind
		want bool
	}{
		{KindPage, true},
		{KindAPI, true},
		{RouteKind(""), false},
		{RouteKind("layout"), false},
	}
	for _, tc := range tests {
		if got := tc.kind.Valid(); got != tc.want {
			t.Errorf("RouteKind(%q).Valid() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestMatchResultParam(t *testing.T) {
	r := mustRouter(t, declare("users.show", "/users/:id"))

	m := r.Match("/users/42")
	if got := m.Param("id"); got != "42" {
		t.Errorf("Param(id) = %q, want %q", got, "42")
	}
	if got := m.Param("missing"); got != "" {
		t.Errorf("Param(missing) = %q, want empty", got)
	}

	var nilResult *MatchResult
	if got := nilResult.Param("id"); got != "" {
		t.Errorf("nil.Param(id) = %q, want empty", got)
	}
}

func TestDeclarationMetadataCarriedOpaque(t *testing.T) {
	decl := RouteDeclaration{
		ID:           "api.todos",
		Pattern:      "/api/todos/:id",
		Kind:         KindAPI,
		ModuleRef:    "routes/api/todos",
		ComponentRef: "TodoHandler",
		Methods:      []string{"GET", "DELETE"},
	}
	r := mustRouter(t, decl)

	m := r.Match("/api/todos/7")
	if m == nil {
		t.Fatal("expected match")
	}
	if !reflect.DeepEqual(m.Route.Methods, []string{"GET", "DELETE"}) {
		t.Errorf("Methods = %v, want carried through unchanged", m.Route.Methods)
	}
	if m.Route.ComponentRef != "TodoHandler" || m.Route.ModuleRef != "routes/api/todos" {
		t.Errorf("metadata not carried: %+v", m.Route)
	}
}
