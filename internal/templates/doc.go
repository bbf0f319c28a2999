// Package templates provides project scaffolding templates.
//
// This package contains embedded templates for creating new strata projects.
// Templates include all necessary files for a working route manifest setup.
//
// # Available Templates
//
//   - minimal: Config and manifest for an existing Go service
//   - app: Complete starter with pages, an API route, and an embedding server
//   - api: API-only project without pages
//
// # Usage
//
//	tmpl, err := templates.Get("app")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, cfg); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Templates support variable substitution:
//
//	{{.ProjectName}}  - Name of the project
//	{{.ModulePath}}   - Go module path
//	{{.Manifest}}     - Route manifest filename
//	{{.Port}}         - Dev server port
package templates
