package router

import (
	"fmt"
	"strings"
)

// validateRoutes checks a compiled route set for conflicts. It is
// fail-fast: the first conflict found is returned and nothing later is
// inspected. Checks run in a fixed order so error reporting is
// deterministic regardless of map iteration:
//
//  1. duplicate normalized patterns
//  2. parameter name consistency per position
//  3. wildcard placement (final segment only)
//  4. wildcard overlap (same position, different shape)
//
// Within each pass routes are scanned in declaration order, so the
// reported pair is always (first owner, first offender).
func validateRoutes(routes []*CompiledRoute) *RouterError {
	if err := checkDuplicates(routes); err != nil {
		return err
	}
	if err := checkParamNames(routes); err != nil {
		return err
	}
	if err := checkWildcardPlacement(routes); err != nil {
		return err
	}
	return checkWildcardOverlap(routes)
}

// checkDuplicates rejects two routes whose patterns normalize to the
// same path, which makes "/users" and "/users/" collide.
func checkDuplicates(routes []*CompiledRoute) *RouterError {
	seen := make(map[string]*CompiledRoute, len(routes))
	for _, r := range routes {
		if prev, ok := seen[r.Normalized]; ok {
			return &RouterError{
				Code:          ErrDuplicatePattern,
				RouteID:       r.Declaration.ID,
				ConflictsWith: prev.Declaration.ID,
				Pattern:       r.Declaration.Pattern,
				Message: fmt.Sprintf("route %q declares pattern %q, already registered by route %q as %q",
					r.Declaration.ID, r.Declaration.Pattern, prev.Declaration.ID, prev.Declaration.Pattern),
			}
		}
		seen[r.Normalized] = r
	}
	return nil
}

// checkParamNames walks all routes depth-by-depth in lock-step. Routes
// sharing a parent-prefix signature must agree on the parameter name at
// each depth: "/users/:id" and "/users/:userId" conflict, while
// "/users/:id" and "/posts/:id" never meet.
func checkParamNames(routes []*CompiledRoute) *RouterError {
	maxDepth := 0
	for _, r := range routes {
		if len(r.Segments) > maxDepth {
			maxDepth = len(r.Segments)
		}
	}

	type owner struct {
		route *CompiledRoute
		name  string
	}
	for depth := 0; depth < maxDepth; depth++ {
		first := make(map[string]owner)
		for _, r := range routes {
			if depth >= len(r.Segments) {
				continue
			}
			seg := r.Segments[depth]
			if seg.Kind != SegmentParam {
				continue
			}
			sig := prefixSignature(r.Segments, depth)
			o, ok := first[sig]
			if !ok {
				first[sig] = owner{route: r, name: seg.Name}
				continue
			}
			if o.name != seg.Name {
				return &RouterError{
					Code:          ErrParamNameConflict,
					RouteID:       r.Declaration.ID,
					ConflictsWith: o.route.Declaration.ID,
					Pattern:       r.Declaration.Pattern,
					Message: fmt.Sprintf("parameter name mismatch at segment %d: route %q declares :%s where route %q declares :%s",
						depth+1, r.Declaration.ID, seg.Name, o.route.Declaration.ID, o.name),
				}
			}
		}
	}
	return nil
}

// checkWildcardPlacement rejects wildcards anywhere but the final
// segment of their pattern.
func checkWildcardPlacement(routes []*CompiledRoute) *RouterError {
	for _, r := range routes {
		for i, seg := range r.Segments {
			if seg.Kind == SegmentWildcard && i != len(r.Segments)-1 {
				return &RouterError{
					Code:    ErrWildcardNotLast,
					RouteID: r.Declaration.ID,
					Pattern: r.Declaration.Pattern,
					Message: fmt.Sprintf("route %q places wildcard %q at segment %d of %d; wildcards must be the final segment",
						r.Declaration.ID, seg.String(), i+1, len(r.Segments)),
				}
			}
		}
	}
	return nil
}

// checkWildcardOverlap rejects two wildcard routes anchored at the same
// position. By this pass identical patterns are gone (pass 1) and prefix
// parameter names agree (pass 2), so a second wildcard under the same
// signature necessarily differs in name or optionality. Neither form is
// more specific than the other, so there is no tie-break to apply.
func checkWildcardOverlap(routes []*CompiledRoute) *RouterError {
	first := make(map[string]*CompiledRoute)
	for _, r := range routes {
		if len(r.Segments) == 0 {
			continue
		}
		last := r.Segments[len(r.Segments)-1]
		if last.Kind != SegmentWildcard {
			continue
		}
		sig := prefixSignature(r.Segments, len(r.Segments)-1)
		prev, ok := first[sig]
		if !ok {
			first[sig] = r
			continue
		}
		prevLast := prev.Segments[len(prev.Segments)-1]
		return &RouterError{
			Code:          ErrRouteConflict,
			RouteID:       r.Declaration.ID,
			ConflictsWith: prev.Declaration.ID,
			Pattern:       r.Declaration.Pattern,
			Message: fmt.Sprintf("route %q declares wildcard %q at the same position as wildcard %q of route %q; overlapping wildcards are ambiguous",
				r.Declaration.ID, last.String(), prevLast.String(), prev.Declaration.ID),
		}
	}
	return nil
}

// prefixSignature identifies a table position: two routes share a
// position when the shapes of all earlier segments agree. Parameter
// names are deliberately blind here so that differing names still land
// in the same group and get reported; static text carries a marker
// prefix so a literal ":" or "*" segment cannot masquerade as a
// parameter or wildcard.
func prefixSignature(segments []Segment, depth int) string {
	keys := make([]string, depth)
	for i := 0; i < depth; i++ {
		switch segments[i].Kind {
		case SegmentParam:
			keys[i] = ":"
		case SegmentWildcard:
			keys[i] = "*"
		default:
			keys[i] = "=" + segments[i].Text
		}
	}
	return strings.Join(keys, "/")
}
