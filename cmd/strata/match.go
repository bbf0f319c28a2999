package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/errors"
	"github.com/strata-dev/strata/pkg/manifest"
	"github.com/strata-dev/strata/pkg/routepath"
	"github.com/strata-dev/strata/pkg/router"
)

func matchCmd() *cobra.Command {
	var (
		manifestRef string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Match a request path against the route table",
		Long: `Compile the route table and match a single request path.

Prints the winning route and its extracted parameters, or why the
path does not match. Paths are percent-decoded per segment exactly as
at request time, so encoded-slash refusals reproduce here.

The exit status is 1 when the path does not match.

Examples:
  strata match /users/42
  strata match /docs/guides/intro --json
  strata match "/files/report%2F2024" --manifest routes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(args[0], manifestRef, asJSON)
		},
	}

	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "Manifest path or s3:// URL (default from strata.json)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runMatch(rawPath, manifestRef string, asJSON bool) error {
	src, err := openManifestSource(manifestRef)
	if err != nil {
		return err
	}

	rt, err := manifest.Build(context.Background(), src)
	if err != nil {
		return err
	}

	// Separate a decoding refusal from a plain miss
	if _, decErr := routepath.DecodeRequestPath(rawPath); decErr != nil {
		if asJSON {
			printMatchJSON(nil)
		}
		return errors.New("E101").
			WithDetail(decErr.Error() + ": " + rawPath)
	}

	m := rt.Match(rawPath)
	if m == nil {
		if asJSON {
			printMatchJSON(nil)
		}
		return errors.New("E100").
			WithDetail("No route matches " + rawPath).
			WithSuggestion("Run 'strata routes' to list the table")
	}

	if asJSON {
		printMatchJSON(m)
		return nil
	}

	success("%s → %s", rawPath, m.Route.ID)
	info("pattern: %s", m.Route.Pattern)
	info("kind:    %s", m.Route.Kind)
	info("module:  %s", m.Route.ModuleRef)
	if len(m.Route.Methods) > 0 {
		info("methods: %v", m.Route.Methods)
	}

	if len(m.Params) > 0 {
		fmt.Println()
		keys := make([]string, 0, len(m.Params))
		for k := range m.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			info("%s = %s", k, m.Params[k])
		}
	}

	return nil
}

func printMatchJSON(m *router.MatchResult) {
	payload := struct {
		Matched bool                     `json:"matched"`
		Route   *router.RouteDeclaration `json:"route,omitempty"`
		Params  map[string]string        `json:"params,omitempty"`
	}{}

	if m != nil {
		payload.Matched = true
		payload.Route = m.Route
		payload.Params = m.Params
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(payload)
}
