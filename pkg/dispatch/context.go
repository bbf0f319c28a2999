package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/strata-dev/strata/pkg/router"
	"github.com/strata-dev/strata/pkg/urlparam"
)

// Ctx carries the request, response writer, and match for one dispatch.
type Ctx struct {
	Writer  http.ResponseWriter
	Request *http.Request
	Match   *router.MatchResult

	logger *slog.Logger
	wrote  bool
}

// Param returns the decoded value of a route parameter, or "" when the
// parameter is not present.
func (c *Ctx) Param(name string) string {
	return c.Match.Param(name)
}

// Route returns the matched route declaration.
func (c *Ctx) Route() *router.RouteDeclaration {
	if c.Match == nil {
		return nil
	}
	return c.Match.Route
}

// Query returns the first query string value for name.
func (c *Ctx) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// Bind sets the fields of the struct pointed to by dst from the matched
// route parameters. See package urlparam for the tag rules.
func (c *Ctx) Bind(dst any) error {
	var params map[string]string
	if c.Match != nil {
		params = c.Match.Params
	}
	return urlparam.Bind(params, dst)
}

// BindQuery sets the fields of the struct pointed to by dst from the
// request query string.
func (c *Ctx) BindQuery(dst any) error {
	return urlparam.BindQuery(c.Request.URL.Query(), dst)
}

// Context returns the request context.
func (c *Ctx) Context() context.Context {
	return c.Request.Context()
}

// Logger returns a logger scoped to the matched route.
func (c *Ctx) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// JSON writes a JSON response with the given status.
func (c *Ctx) JSON(status int, v any) error {
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Writer.WriteHeader(status)
	c.wrote = true
	return json.NewEncoder(c.Writer).Encode(v)
}

// Text writes a plain text response with the given status.
func (c *Ctx) Text(status int, body string) error {
	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.WriteHeader(status)
	c.wrote = true
	_, err := io.WriteString(c.Writer, body)
	return err
}
