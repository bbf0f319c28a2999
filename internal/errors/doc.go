// Package errors provides structured, actionable error messages for strata.
//
// The errors package implements an error system that:
//   - Shows exact document locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - routing: Route table conflicts and match failures
//   - manifest: Route manifest loading and validation errors
//   - config: strata.json configuration errors
//   - server: Dev server and live reload errors
//   - cli: Command-line usage errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E104") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E104").
//	    WithDetail(`route "users.list" duplicates the pattern of route "users.index"`).
//	    WithSuggestion("Remove one of the declarations or change its pattern")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E104: Duplicate route pattern
//	//
//	//   route "users.list" duplicates the pattern of route "users.index"
//	//
//	//   Hint: Remove one of the declarations or change its pattern
//	//
//	//   Learn more: https://strata.dev/docs/errors/E104
package errors
