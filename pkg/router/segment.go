package router

import "strings"

// SegmentKind identifies how one pattern segment participates in matching.
type SegmentKind uint8

const (
	// SegmentStatic matches its literal text exactly.
	SegmentStatic SegmentKind = iota
	// SegmentParam matches any single segment and binds it by name.
	SegmentParam
	// SegmentWildcard matches the remaining segments of the path.
	SegmentWildcard
)

// String returns the kind name for diagnostics.
func (k SegmentKind) String() string {
	switch k {
	case SegmentStatic:
		return "static"
	case SegmentParam:
		return "param"
	case SegmentWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Segment is one compiled pattern segment.
type Segment struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind SegmentKind

	// Text is the literal to compare against (static segments only).
	Text string

	// Name is the parameter or wildcard capture name. Empty for the
	// anonymous wildcard "*", whose capture is keyed by WildcardKey.
	Name string

	// Optional marks a wildcard that also matches zero segments.
	Optional bool
}

// String renders the segment back in pattern syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentParam:
		return ":" + s.Name
	case SegmentWildcard:
		if s.Name == "" {
			return "*"
		}
		if s.Optional {
			return ":" + s.Name + "*?"
		}
		return ":" + s.Name + "*"
	default:
		return s.Text
	}
}

// NormalizePattern brings a pattern into canonical form: a leading slash
// is ensured and exactly one trailing slash is stripped, except for the
// root pattern "/". "/users" and "/users/" normalize identically, which
// is also the form duplicate detection runs on.
func NormalizePattern(pattern string) string {
	if pattern == "" {
		return "/"
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	if len(pattern) > 1 && strings.HasSuffix(pattern, "/") {
		pattern = pattern[:len(pattern)-1]
	}
	return pattern
}

// CompilePattern compiles a route pattern into its segment list.
//
// Per-segment syntax:
//
//	:name     named parameter, matches exactly one segment
//	*         anonymous wildcard, matches one or more trailing segments
//	:name*    named wildcard, matches one or more trailing segments
//	:name*?   optional named wildcard, also matches zero segments
//
// Any other text is a literal static segment. Malformed parameter or
// wildcard syntax (":", ":*", "*?", names containing '*' or '?')
// degrades to a literal rather than failing; structural problems such as
// a wildcard before the final position are the validator's business, not
// the compiler's. The root pattern "/" compiles to an empty list.
func CompilePattern(pattern string) []Segment {
	p := strings.TrimPrefix(NormalizePattern(pattern), "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	segments := make([]Segment, len(parts))
	for i, part := range parts {
		segments[i] = compileSegment(part)
	}
	return segments
}

// compileSegment classifies a single raw pattern piece. Unrecognized
// syntax falls through to a static literal.
func compileSegment(part string) Segment {
	if part == "*" {
		return Segment{Kind: SegmentWildcard}
	}
	if name, ok := strings.CutPrefix(part, ":"); ok && name != "" {
		if base, ok := strings.CutSuffix(name, "*?"); ok && base != "" && !strings.ContainsAny(base, "*?") {
			return Segment{Kind: SegmentWildcard, Name: base, Optional: true}
		}
		if base, ok := strings.CutSuffix(name, "*"); ok && base != "" && !strings.ContainsAny(base, "*?") {
			return Segment{Kind: SegmentWildcard, Name: base}
		}
		if !strings.ContainsAny(name, "*?") {
			return Segment{Kind: SegmentParam, Name: name}
		}
	}
	return Segment{Kind: SegmentStatic, Text: part}
}
