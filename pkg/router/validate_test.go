package router

import (
	"errors"
	"strings"
	"testing"
)

// declare is a test shorthand for a page declaration.
func declare(id, pattern string) RouteDeclaration {
	return RouteDeclaration{
		ID:        id,
		Pattern:   pattern,
		Kind:      KindPage,
		ModuleRef: "routes/" + id,
	}
}

// buildErr runs the full construction path and returns the typed error.
func buildErr(t *testing.T, decls ...RouteDeclaration) *RouterError {
	t.Helper()
	_, err := New(decls)
	if err == nil {
		t.Fatal("expected construction to fail")
	}
	var rerr *RouterError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RouterError, got %T", err)
	}
	return rerr
}

// =============================================================================
// Duplicate Pattern Detection
// =============================================================================

func TestValidateDuplicatePattern(t *testing.T) {
	rerr := buildErr(t,
		declare("users.a", "/users/:id"),
		declare("users.b", "/users/:id"),
	)

	if rerr.Code != ErrDuplicatePattern {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrDuplicatePattern)
	}
	if rerr.RouteID != "users.b" {
		t.Errorf("RouteID = %q, want %q", rerr.RouteID, "users.b")
	}
	if rerr.ConflictsWith != "users.a" {
		t.Errorf("ConflictsWith = %q, want %q", rerr.ConflictsWith, "users.a")
	}
}

func TestValidateDuplicateViaTrailingSlash(t *testing.T) {
	// "/users" and "/users/" normalize to the same pattern.
	rerr := buildErr(t,
		declare("users.index", "/users"),
		declare("users.slash", "/users/"),
	)

	if rerr.Code != ErrDuplicatePattern {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrDuplicatePattern)
	}
	if rerr.ConflictsWith != "users.index" {
		t.Errorf("ConflictsWith = %q, want %q", rerr.ConflictsWith, "users.index")
	}
}

func TestValidateNoDuplicateForDifferentPaths(t *testing.T) {
	_, err := New([]RouteDeclaration{
		declare("users.show", "/users/:id"),
		declare("posts.show", "/posts/:id"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// =============================================================================
// Parameter Name Consistency
// =============================================================================

func TestValidateParamNameConflict(t *testing.T) {
	rerr := buildErr(t,
		declare("users.show", "/users/:id"),
		declare("users.edit", "/users/:userId/edit"),
	)

	if rerr.Code != ErrParamNameConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrParamNameConflict)
	}
	if rerr.RouteID != "users.edit" {
		t.Errorf("RouteID = %q, want %q", rerr.RouteID, "users.edit")
	}
	if rerr.ConflictsWith != "users.show" {
		t.Errorf("ConflictsWith = %q, want %q", rerr.ConflictsWith, "users.show")
	}
}

func TestValidateSameParamNameSharesPosition(t *testing.T) {
	// The same name at the same position is one tree slot, not a conflict.
	_, err := New([]RouteDeclaration{
		declare("users.show", "/users/:id"),
		declare("users.posts", "/users/:id/posts"),
		declare("users.post", "/users/:id/posts/:postId"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateParamNamesIndependentAcrossParents(t *testing.T) {
	// Same depth, different static prefix: groups never meet.
	_, err := New([]RouteDeclaration{
		declare("users.show", "/users/:id"),
		declare("teams.show", "/teams/:slug"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateParamConflictUnderParamPrefix(t *testing.T) {
	// The shared prefix itself contains a parameter; names must still
	// agree one level down.
	rerr := buildErr(t,
		declare("a", "/users/:id/posts/:postId"),
		declare("b", "/users/:id/posts/:slug/raw"),
	)

	if rerr.Code != ErrParamNameConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrParamNameConflict)
	}
	if rerr.ConflictsWith != "a" || rerr.RouteID != "b" {
		t.Errorf("pair = (%q, %q), want (a, b)", rerr.ConflictsWith, rerr.RouteID)
	}
}

// =============================================================================
// Wildcard Placement
// =============================================================================

func TestValidateWildcardNotLast(t *testing.T) {
	rerr := buildErr(t,
		declare("files.meta", "/files/*/meta"),
	)

	if rerr.Code != ErrWildcardNotLast {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrWildcardNotLast)
	}
	if rerr.RouteID != "files.meta" {
		t.Errorf("RouteID = %q, want %q", rerr.RouteID, "files.meta")
	}
}

func TestValidateNamedWildcardNotLast(t *testing.T) {
	rerr := buildErr(t,
		declare("files.meta", "/files/:path*/meta"),
	)

	if rerr.Code != ErrWildcardNotLast {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrWildcardNotLast)
	}
}

// =============================================================================
// Wildcard Overlap
// =============================================================================

func TestValidateWildcardOverlapAnonymousVsNamed(t *testing.T) {
	rerr := buildErr(t,
		declare("files.any", "/files/*"),
		declare("files.path", "/files/:path*"),
	)

	if rerr.Code != ErrRouteConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrRouteConflict)
	}
	if rerr.ConflictsWith != "files.any" || rerr.RouteID != "files.path" {
		t.Errorf("pair = (%q, %q), want (files.any, files.path)", rerr.ConflictsWith, rerr.RouteID)
	}
}

func TestValidateWildcardOverlapOptionality(t *testing.T) {
	rerr := buildErr(t,
		declare("docs.req", "/docs/:path*"),
		declare("docs.opt", "/docs/:path*?"),
	)

	if rerr.Code != ErrRouteConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrRouteConflict)
	}
}

func TestValidateWildcardOverlapDifferentNames(t *testing.T) {
	rerr := buildErr(t,
		declare("a", "/files/:path*"),
		declare("b", "/files/:rest*"),
	)

	if rerr.Code != ErrRouteConflict {
		t.Errorf("Code = %s, want %s", rerr.Code, ErrRouteConflict)
	}
}

func TestValidateWildcardsUnderDifferentParentsCoexist(t *testing.T) {
	_, err := New([]RouteDeclaration{
		declare("files.raw", "/files/*"),
		declare("static.raw", "/static/:path*"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateOptionalWildcardCoexistsWithStaticTerminal(t *testing.T) {
	// "/docs" owns the zero-segment case; the optional wildcard owns the
	// rest. Not ambiguous.
	_, err := New([]RouteDeclaration{
		declare("docs.index", "/docs"),
		declare("docs.page", "/docs/:path*?"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRootAndRootWildcardCoexist(t *testing.T) {
	_, err := New([]RouteDeclaration{
		declare("home", "/"),
		declare("catchall", "/*"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// =============================================================================
// Check Ordering
// =============================================================================

func TestValidateDuplicateReportedBeforeParamConflict(t *testing.T) {
	rerr := buildErr(t,
		declare("a", "/same"),
		declare("b", "/same"),
		declare("c", "/users/:id"),
		declare("d", "/users/:uid"),
	)

	if rerr.Code != ErrDuplicatePattern {
		t.Errorf("Code = %s, want %s (duplicates are checked first)", rerr.Code, ErrDuplicatePattern)
	}
}

func TestValidateParamConflictReportedBeforeWildcardPlacement(t *testing.T) {
	rerr := buildErr(t,
		declare("a", "/users/:id"),
		declare("b", "/users/:uid"),
		declare("c", "/files/*/meta"),
	)

	if rerr.Code != ErrParamNameConflict {
		t.Errorf("Code = %s, want %s (param names are checked before placement)", rerr.Code, ErrParamNameConflict)
	}
}

func TestValidateWildcardPlacementReportedBeforeOverlap(t *testing.T) {
	rerr := buildErr(t,
		declare("a", "/files/*/meta"),
		declare("b", "/docs/:p*"),
		declare("c", "/docs/:q*"),
	)

	if rerr.Code != ErrWildcardNotLast {
		t.Errorf("Code = %s, want %s (placement is checked before overlap)", rerr.Code, ErrWildcardNotLast)
	}
}

func TestValidateErrorMessageNamesBothRoutes(t *testing.T) {
	rerr := buildErr(t,
		declare("users.show", "/users/:id"),
		declare("users.edit", "/users/:userId/edit"),
	)

	msg := rerr.Error()
	for _, want := range []string{"PARAM_NAME_CONFLICT", "users.show", "users.edit", ":id", ":userId"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}
