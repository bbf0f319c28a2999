// Package routepath normalizes raw request paths and percent-decodes
// their segments under the routing security contract: one decoding pass,
// and nothing decoded may change the segment structure of the path.
package routepath

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Segment decoding errors. Callers on the request path treat any of
// these as "no match"; the CLI surfaces them verbatim for debugging.
var (
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrEncodedSlashInSegment = errors.New("encoded slash in segment")
	ErrNullByteInSegment     = errors.New("segment contains null byte")
	ErrInvalidUTF8           = errors.New("segment decodes to invalid utf-8")
)

// NormalizePath brings a raw request path into the same canonical form
// route patterns use: a leading slash is ensured and exactly one
// trailing slash is stripped, except for the root path "/". The empty
// path is the root.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// SplitPath splits a normalized path into its raw, still-encoded
// segments. The root path has no segments. Interior empty segments
// ("//" in the middle of a path) are preserved as empty strings;
// collapsing them would change the segment count the decoding rules
// are defined over.
func SplitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// DecodeSegment percent-decodes a single raw segment in one pass and
// enforces the security contract:
//
//   - invalid escapes (%GG, truncated %2) are rejected
//   - a decoded "/" is rejected, so %2F cannot fabricate path depth
//   - a residual encoded slash is rejected, so %252F is refused rather
//     than decoded a second time
//   - NUL bytes and invalid UTF-8 (overlong forms like %C0%AE) are
//     rejected
//
// Everything else, including other residual escapes such as %2541
// decoding to the literal text "%41", passes through unchanged.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}

	// SECURITY: a decoded slash would splice extra segments into the
	// path after splitting already happened.
	if strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}

	// SECURITY: %252F decodes to the text "%2F"; treating that as
	// decodable again would reintroduce the slash through the back
	// door. Reject it, do not double-decode.
	if strings.Contains(decoded, "%2F") || strings.Contains(decoded, "%2f") {
		return "", ErrEncodedSlashInSegment
	}

	// SECURITY: NUL terminates strings in enough downstream systems to
	// be worth refusing outright.
	if strings.Contains(decoded, "\x00") {
		return "", ErrNullByteInSegment
	}

	// SECURITY: overlong encodings like %C0%AE smuggle "." past naive
	// comparisons. Decoded bytes must be valid UTF-8.
	if !utf8.ValidString(decoded) {
		return "", ErrInvalidUTF8
	}

	return decoded, nil
}

// DecodeRequestPath normalizes rawPath, splits it, and decodes every
// segment. It returns the decoded segments in order, or the first
// decoding error. The root path yields zero segments and no error.
func DecodeRequestPath(rawPath string) ([]string, error) {
	raw := SplitPath(NormalizePath(rawPath))
	if len(raw) == 0 {
		return nil, nil
	}
	segments := make([]string, len(raw))
	for i, seg := range raw {
		decoded, err := DecodeSegment(seg)
		if err != nil {
			return nil, err
		}
		segments[i] = decoded
	}
	return segments, nil
}

// SplitPathAndQuery splits a request target into path and query parts.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
