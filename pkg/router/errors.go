package router

import "fmt"

// RouterErrorCode names a class of build-time routing failure.
type RouterErrorCode string

const (
	// ErrDuplicatePattern reports two routes whose patterns normalize to
	// the same path.
	ErrDuplicatePattern RouterErrorCode = "DUPLICATE_PATTERN"

	// ErrParamNameConflict reports two routes that declare parameters
	// with different names at the same position under the same prefix.
	ErrParamNameConflict RouterErrorCode = "PARAM_NAME_CONFLICT"

	// ErrWildcardNotLast reports a wildcard segment before the final
	// position of its pattern.
	ErrWildcardNotLast RouterErrorCode = "WILDCARD_NOT_LAST"

	// ErrRouteConflict reports two wildcard routes at the same position
	// that differ in name or optionality. Neither is more specific, so
	// the overlap is a hard build failure rather than a tie-break.
	ErrRouteConflict RouterErrorCode = "ROUTE_CONFLICT"
)

// RouterError is a fatal table-construction failure. Construction is
// fail-fast, so a RouterError always describes the first conflict found.
// Request-time matching never produces errors; a path that fits nothing
// is simply no match.
type RouterError struct {
	// Code classifies the failure.
	Code RouterErrorCode

	// Message is a human-readable description naming the routes involved.
	Message string

	// RouteID is the offending route.
	RouteID string

	// ConflictsWith is the id of the earlier-declared route the offender
	// collides with, when the failure involves a pair.
	ConflictsWith string

	// Pattern is the offending route's pattern as declared.
	Pattern string
}

// Error implements the error interface.
func (e *RouterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
