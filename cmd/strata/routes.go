package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/internal/errors"
	"github.com/strata-dev/strata/pkg/manifest"
	"github.com/strata-dev/strata/pkg/router"
)

func routesCmd() *cobra.Command {
	var (
		manifestRef string
		showStats   bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the compiled route table",
		Long: `Load the manifest, compile the route table, and print it.

The manifest comes from strata.json in the nearest project root, or
from --manifest. Both local paths and s3:// URLs work.

Examples:
  strata routes
  strata routes --stats
  strata routes --json
  strata routes --manifest s3://config/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(manifestRef, showStats, asJSON)
		},
	}

	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "Manifest path or s3:// URL (default from strata.json)")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print table statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runRoutes(manifestRef string, showStats, asJSON bool) error {
	src, err := openManifestSource(manifestRef)
	if err != nil {
		return err
	}

	rt, err := manifest.Build(context.Background(), src)
	if err != nil {
		return err
	}

	if asJSON {
		payload := struct {
			Source string                    `json:"source"`
			Stats  router.Stats              `json:"stats"`
			Routes []router.RouteDeclaration `json:"routes"`
		}{
			Source: src.Name(),
			Stats:  rt.Stats(),
			Routes: rt.Routes(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	routes := rt.Routes()
	fmt.Printf("Routes from %s (%d total)\n\n", src.Name(), len(routes))

	patternWidth := len("PATTERN")
	idWidth := len("ID")
	for _, r := range routes {
		if len(r.Pattern) > patternWidth {
			patternWidth = len(r.Pattern)
		}
		if len(r.ID) > idWidth {
			idWidth = len(r.ID)
		}
	}

	fmt.Printf("  %-*s  %-4s  %-*s  %s\n", patternWidth, "PATTERN", "KIND", idWidth, "ID", "MODULE")
	for _, r := range routes {
		module := r.ModuleRef
		if len(r.Methods) > 0 {
			module += "  [" + strings.Join(r.Methods, ",") + "]"
		}
		fmt.Printf("  %-*s  %-4s  %-*s  %s\n", patternWidth, r.Pattern, r.Kind, idWidth, r.ID, module)
	}

	if showStats {
		stats := rt.Stats()
		fmt.Println()
		fmt.Printf("  static: %d  dynamic: %d  total: %d\n", stats.StaticCount, stats.DynamicCount, stats.TotalRoutes)
	}

	return nil
}

// openManifestSource resolves the manifest reference from the flag or
// the nearest strata.json and verifies local files exist.
func openManifestSource(flagRef string) (manifest.Source, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}

	ref := flagRef
	if ref == "" {
		ref = cfg.ManifestPath()
	}

	if err := ensureManifestExists(ref); err != nil {
		return nil, err
	}

	return manifest.Open(ref)
}

func ensureManifestExists(ref string) error {
	if strings.HasPrefix(ref, "s3://") {
		return nil
	}
	if _, err := os.Stat(ref); os.IsNotExist(err) {
		return errors.New("E142").
			WithDetail("No manifest at " + ref).
			WithSuggestion("Run 'strata init' to scaffold one, or pass --manifest")
	}
	return nil
}
