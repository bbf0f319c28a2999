package errors

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/strata-dev/strata/pkg/router"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting  Category = "routing"
	CategoryManifest Category = "manifest"
	CategoryConfig   Category = "config"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// Location represents a position in a source document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// StrataError is a structured error with document location, suggestions, and documentation.
type StrataError struct {
	// Code is a unique error identifier (e.g., "E104").
	Code string

	// Category is the error type (routing, manifest, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the document location where the error occurred.
	Location *Location

	// Context contains surrounding document lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is a snippet showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StrataError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StrataError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a document location to the error.
func (e *StrataError) WithLocation(file string, line, column int) *StrataError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromJSON derives a location from an encoding/json decode
// error. Syntax and type errors carry a byte offset into the document;
// this converts the offset to a line and column and captures the
// surrounding document lines as context.
func (e *StrataError) WithLocationFromJSON(name string, data []byte, err error) *StrataError {
	var offset int64
	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &synErr):
		offset = synErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return e
	}
	line, column := offsetToLineColumn(data, offset)
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Context = contextLinesFromData(data, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StrataError) WithSuggestion(s string) *StrataError {
	e.Suggestion = s
	return e
}

// WithExample adds a snippet to the error.
func (e *StrataError) WithExample(ex string) *StrataError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *StrataError) WithDetail(d string) *StrataError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *StrataError) WithContext(lines []string) *StrataError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *StrataError) Wrap(err error) *StrataError {
	e.Wrapped = err
	return e
}

// offsetToLineColumn converts a byte offset into a 1-based line and column.
func offsetToLineColumn(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, column = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// contextLinesFromData extracts lines around targetLine from an in-memory document.
func contextLinesFromData(data []byte, targetLine, contextSize int) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a StrataError from a registered error code.
func New(code string) *StrataError {
	template, ok := registry[code]
	if !ok {
		return &StrataError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StrataError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new StrataError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *StrataError {
	return &StrataError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a StrataError.
func FromError(err error, code string) *StrataError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StrataError); ok {
		return se
	}
	return New(code).Wrap(err)
}

// routerErrorCodes maps router conflict codes to registry codes.
var routerErrorCodes = map[router.RouterErrorCode]string{
	router.ErrDuplicatePattern:  "E104",
	router.ErrParamNameConflict: "E105",
	router.ErrWildcardNotLast:   "E106",
	router.ErrRouteConflict:     "E107",
}

// FromRouterError converts a router validation error into a StrataError.
// The original error is wrapped so errors.As can still recover it.
func FromRouterError(rerr *router.RouterError) *StrataError {
	if rerr == nil {
		return nil
	}
	code, ok := routerErrorCodes[rerr.Code]
	if !ok {
		return Newf(CategoryRouting, "%s", rerr.Message).Wrap(rerr)
	}
	e := New(code).WithDetail(rerr.Message).Wrap(rerr)
	if rerr.ConflictsWith != "" {
		e = e.WithSuggestion(fmt.Sprintf("Change the pattern of route %q or %q so they no longer collide", rerr.RouteID, rerr.ConflictsWith))
	}
	return e
}
