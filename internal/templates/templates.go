package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/strata-dev/strata/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// ModulePath is the Go module path for scaffolds that include Go code.
	ModulePath string

	// Manifest is the route manifest filename, usually "routes.json".
	Manifest string

	// Port is the dev server port.
	Port int
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"app":     appTemplate(),
	"api":     apiTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E143").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: minimal, app, api")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a project from the template.
func (t *Template) Create(dir string, cfg Config) error {
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "Config and manifest for an existing Go service",
		Files: map[string]string{
			"strata.json": `{
  "name": "{{.ProjectName}}",
  "manifest": "{{.Manifest}}",
  "server": {
    "port": {{.Port}},
    "host": "localhost"
  },
  "watch": {
    "enabled": true
  }
}
`,
			"routes.json": `{
  "routes": [
    { "id": "home", "pattern": "/", "kind": "page", "module": "routes/home" },
    { "id": "api.health", "pattern": "/api/health", "kind": "api", "module": "api/health", "methods": ["GET"] }
  ]
}
`,
		},
	}
}

// appTemplate returns the full application template.
func appTemplate() *Template {
	return &Template{
		Name:        "app",
		Description: "Complete starter with pages, an API route, and an embedding server",
		Files: map[string]string{
			"strata.json": `{
  "name": "{{.ProjectName}}",
  "manifest": "{{.Manifest}}",
  "server": {
    "port": {{.Port}},
    "host": "localhost"
  },
  "watch": {
    "enabled": true,
    "ignore": ["node_modules", ".git"]
  },
  "metrics": {
    "enabled": true,
    "namespace": "strata"
  }
}
`,
			"routes.json": `{
  "routes": [
    { "id": "home", "pattern": "/", "kind": "page", "module": "routes/home" },
    { "id": "about", "pattern": "/about", "kind": "page", "module": "routes/about" },
    { "id": "users.show", "pattern": "/users/:id", "kind": "page", "module": "routes/users" },
    { "id": "api.health", "pattern": "/api/health", "kind": "api", "module": "api/health", "methods": ["GET"] }
  ]
}
`,
			"main.go": `package main

import (
	"context"
	"log"
	"net/http"

	"github.com/strata-dev/strata/pkg/dispatch"
	"github.com/strata-dev/strata/pkg/manifest"
)

func main() {
	src, err := manifest.Open("routes.json")
	if err != nil {
		log.Fatal(err)
	}

	table, err := manifest.Build(context.Background(), src)
	if err != nil {
		log.Fatal(err)
	}

	registry := dispatch.NewRegistry().
		Page("home", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "Welcome to {{.ProjectName}}")
		}).
		Page("about", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "About {{.ProjectName}}")
		}).
		Page("users.show", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "User "+ctx.Param("id"))
		}).
		API("api.health", func(ctx *dispatch.Ctx) (any, error) {
			return map[string]string{"status": "ok"}, nil
		})

	log.Printf("Server running at http://localhost:{{.Port}}")
	if err := http.ListenAndServe(":{{.Port}}", dispatch.NewHandler(table, registry)); err != nil {
		log.Fatal(err)
	}
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.23

require github.com/strata-dev/strata v0.1.0
`,
			"README.md": `# {{.ProjectName}}

## Getting Started

` + "```" + `bash
# Validate the route manifest
strata check

# List the route table
strata routes

# Start the dev server with live reload
strata serve

# Or run the embedding server directly
go run .
` + "```" + `

## Project Structure

` + "```" + `
{{.ProjectName}}/
├── main.go        # Embedding server with route handlers
├── {{.Manifest}}  # Route manifest
├── strata.json    # Project configuration
└── README.md
` + "```" + `

## Routes

Routes are declared in ` + "`{{.Manifest}}`" + ` and bound to handlers by id in
` + "`main.go`" + `. Edit the manifest and the dev server reloads the table without
a restart.

## Learn More

- [Documentation](https://strata.dev/docs)
- [Pattern Reference](https://strata.dev/docs/patterns)
`,
		},
	}
}

// apiTemplate returns the API-only template.
func apiTemplate() *Template {
	return &Template{
		Name:        "api",
		Description: "API-only project without pages",
		Files: map[string]string{
			"strata.json": `{
  "name": "{{.ProjectName}}",
  "manifest": "{{.Manifest}}",
  "server": {
    "port": {{.Port}},
    "host": "localhost"
  }
}
`,
			"routes.json": `{
  "routes": [
    { "id": "api.health", "pattern": "/api/health", "kind": "api", "module": "api/health", "methods": ["GET"] },
    { "id": "api.users.list", "pattern": "/api/users", "kind": "api", "module": "api/users", "methods": ["GET"] },
    { "id": "api.users.show", "pattern": "/api/users/:id", "kind": "api", "module": "api/users", "methods": ["GET"] }
  ]
}
`,
			"main.go": `package main

import (
	"context"
	"log"
	"net/http"

	"github.com/strata-dev/strata/pkg/dispatch"
	"github.com/strata-dev/strata/pkg/manifest"
)

func main() {
	src, err := manifest.Open("routes.json")
	if err != nil {
		log.Fatal(err)
	}

	table, err := manifest.Build(context.Background(), src)
	if err != nil {
		log.Fatal(err)
	}

	registry := dispatch.NewRegistry().
		API("api.health", func(ctx *dispatch.Ctx) (any, error) {
			return map[string]string{"status": "ok"}, nil
		}).
		API("api.users.list", func(ctx *dispatch.Ctx) (any, error) {
			return []string{}, nil
		}).
		API("api.users.show", func(ctx *dispatch.Ctx) (any, error) {
			return map[string]string{"id": ctx.Param("id")}, nil
		})

	log.Printf("API server running at http://localhost:{{.Port}}")
	if err := http.ListenAndServe(":{{.Port}}", dispatch.NewHandler(table, registry)); err != nil {
		log.Fatal(err)
	}
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.23

require github.com/strata-dev/strata v0.1.0
`,
			"README.md": `# {{.ProjectName}}

## Getting Started

` + "```" + `bash
# Validate the route manifest
strata check

# Start the dev server
strata serve
` + "```" + `

## API Endpoints

- ` + "`GET /api/health`" + ` - Health check
- ` + "`GET /api/users`" + ` - List users
- ` + "`GET /api/users/:id`" + ` - Show a user
`,
		},
	}
}
