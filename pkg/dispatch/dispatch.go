// Package dispatch executes route handlers over HTTP.
//
// The router decides which route a request belongs to; dispatch owns
// everything after that decision: method checks for API routes, the
// middleware chain, handler execution, and response encoding. Handlers
// are registered by route id, matching the ids carried in the manifest.
package dispatch

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/strata-dev/strata/pkg/router"
)

// ErrNoHandler is returned when a matched route has no registered handler.
var ErrNoHandler = errors.New("dispatch: no handler registered for route")

// Matcher resolves a raw request path to a route. Both *router.Router
// and *router.Live satisfy it.
type Matcher interface {
	Match(rawPath string) *router.MatchResult
}

// PageHandlerFunc renders a page route.
type PageHandlerFunc func(ctx *Ctx) error

// APIHandlerFunc serves an API route. A non-nil result is JSON-encoded
// with status 200 unless the handler already wrote a response.
type APIHandlerFunc func(ctx *Ctx) (any, error)

// Registry maps route ids to handlers.
type Registry struct {
	pages map[string]PageHandlerFunc
	apis  map[string]APIHandlerFunc
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		pages: make(map[string]PageHandlerFunc),
		apis:  make(map[string]APIHandlerFunc),
	}
}

// Page registers a page handler for a route id.
func (r *Registry) Page(id string, h PageHandlerFunc) *Registry {
	r.pages[id] = h
	return r
}

// API registers an API handler for a route id.
func (r *Registry) API(id string, h APIHandlerFunc) *Registry {
	r.apis[id] = h
	return r
}

func (r *Registry) page(id string) (PageHandlerFunc, bool) {
	h, ok := r.pages[id]
	return h, ok
}

func (r *Registry) api(id string) (APIHandlerFunc, bool) {
	h, ok := r.apis[id]
	return h, ok
}

// Handler serves HTTP requests by matching them against a route table
// and running the registered handler for the matched route.
type Handler struct {
	matcher  Matcher
	registry *Registry
	mw       []Middleware
	notFound http.Handler
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMiddleware appends middleware run around every dispatched handler.
func WithMiddleware(mw ...Middleware) HandlerOption {
	return func(h *Handler) {
		h.mw = append(h.mw, mw...)
	}
}

// WithNotFound replaces the response for requests no route matches.
func WithNotFound(nf http.Handler) HandlerOption {
	return func(h *Handler) {
		h.notFound = nf
	}
}

// WithLogger replaces the handler's logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler builds an http.Handler over a matcher and a registry.
func NewHandler(m Matcher, registry *Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		matcher:  m,
		registry: registry,
		notFound: http.NotFoundHandler(),
		logger:   slog.Default().With("component", "dispatch"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// EscapedPath keeps percent escapes intact. URL.Path is already
	// decoded by net/http, so matching on it would let an encoded
	// slash cross segment boundaries.
	res := h.matcher.Match(r.URL.EscapedPath())
	if res == nil {
		h.notFound.ServeHTTP(w, r)
		return
	}

	route := res.Route
	if route.Kind == router.KindAPI && len(route.Methods) > 0 && !methodAllowed(route.Methods, r.Method) {
		w.Header().Set("Allow", strings.Join(route.Methods, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := &Ctx{
		Writer:  w,
		Request: r,
		Match:   res,
		logger:  h.logger.With("route", route.ID),
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("handler panic", "route", route.ID, "path", r.URL.Path, "panic", rec)
			if !ctx.wrote {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}
	}()

	err := Compose(ctx, h.mw, func() error {
		return h.dispatch(ctx, route)
	})
	if err == nil {
		return
	}

	if errors.Is(err, ErrNoHandler) {
		h.logger.Warn("no handler registered", "route", route.ID, "kind", route.Kind)
		if !ctx.wrote {
			http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		}
		return
	}

	h.logger.Error("handler failed", "route", route.ID, "error", err)
	if ctx.wrote {
		return
	}
	if route.Kind == router.KindAPI {
		ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// dispatch runs the handler registered for the route.
func (h *Handler) dispatch(ctx *Ctx, route *router.RouteDeclaration) error {
	switch route.Kind {
	case router.KindAPI:
		fn, ok := h.registry.api(route.ID)
		if !ok {
			return ErrNoHandler
		}
		result, err := fn(ctx)
		if err != nil {
			return err
		}
		if ctx.wrote {
			return nil
		}
		return ctx.JSON(http.StatusOK, result)
	default:
		fn, ok := h.registry.page(route.ID)
		if !ok {
			return ErrNoHandler
		}
		return fn(ctx)
	}
}

// methodAllowed reports whether method appears in the declaration's list.
func methodAllowed(methods []string, method string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
