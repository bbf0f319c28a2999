// Package manifest loads route declarations from JSON manifest documents.
//
// A manifest is the build artifact that tells the router which routes
// exist. It can live on the local filesystem or in an S3 bucket; the
// Source interface abstracts over both.
package manifest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/strata-dev/strata/internal/errors"
	"github.com/strata-dev/strata/pkg/router"
)

// Manifest is a parsed route manifest document.
type Manifest struct {
	// Schema optionally names the document schema for editor tooling.
	Schema string `json:"$schema,omitempty"`

	// Routes holds the declarations in document order.
	Routes []router.RouteDeclaration `json:"routes"`
}

// Parse decodes and validates a manifest document. The name appears in
// error locations; pass the file path or source name.
func Parse(name string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("E110").
			WithLocationFromJSON(name, data, err).
			WithDetail("Failed to parse route manifest: "+err.Error()).
			WithSuggestion("Check that " + name + " is valid JSON")
	}
	if err := m.validate(name); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate checks every declaration for the fields the router needs.
// Pattern conflicts are left to router.New; this only rejects documents
// that are structurally unusable.
func (m *Manifest) validate(name string) error {
	seen := make(map[string]int, len(m.Routes))
	for i, decl := range m.Routes {
		at := fmt.Sprintf("%s: routes[%d]", name, i)
		if decl.ID == "" {
			return errors.New("E112").
				WithDetail(at + ": missing route id").
				WithSuggestion(`Give every route a unique "id"`)
		}
		if prev, ok := seen[decl.ID]; ok {
			return errors.New("E113").
				WithDetail(fmt.Sprintf("%s: id %q is already used by routes[%d]", at, decl.ID, prev))
		}
		seen[decl.ID] = i
		if decl.Pattern == "" {
			return errors.New("E112").
				WithDetail(fmt.Sprintf("%s: route %q has no pattern", at, decl.ID))
		}
		if !decl.Kind.Valid() {
			return errors.New("E112").
				WithDetail(fmt.Sprintf("%s: route %q has kind %q", at, decl.ID, decl.Kind)).
				WithSuggestion(`Set "kind" to "page" or "api"`)
		}
		if decl.ModuleRef == "" {
			return errors.New("E112").
				WithDetail(fmt.Sprintf("%s: route %q has no module", at, decl.ID))
		}
	}
	return nil
}

// Declarations returns a copy of the route declarations for router construction.
func (m *Manifest) Declarations() []router.RouteDeclaration {
	return append([]router.RouteDeclaration(nil), m.Routes...)
}

// Load reads a manifest from src and parses it.
func Load(ctx context.Context, src Source) (*Manifest, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return nil, errors.New("E111").
			WithDetail("Failed to read "+src.Name()+": "+err.Error()).
			Wrap(err)
	}
	return Parse(src.Name(), data)
}

// Build loads a manifest and constructs a validated router from it.
// Route conflicts surface as coded errors that still carry the
// underlying router.RouterError for errors.As.
func Build(ctx context.Context, src Source) (*router.Router, error) {
	m, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	rt, err := router.New(m.Declarations())
	if err != nil {
		var rerr *router.RouterError
		if stderrors.As(err, &rerr) {
			return nil, errors.FromRouterError(rerr)
		}
		return nil, err
	}
	return rt, nil
}
