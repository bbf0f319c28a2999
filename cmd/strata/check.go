package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/pkg/manifest"
)

func checkCmd() *cobra.Command {
	var manifestRef string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the route manifest",
		Long: `Load the manifest and compile the route table without serving.

Parse errors and route conflicts are reported with their location and
a suggested fix. The exit status is 1 when the manifest is invalid.

Examples:
  strata check
  strata check --manifest routes.json
  strata check --manifest s3://config/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(manifestRef)
		},
	}

	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "Manifest path or s3:// URL (default from strata.json)")

	return cmd
}

func runCheck(manifestRef string) error {
	src, err := openManifestSource(manifestRef)
	if err != nil {
		return err
	}

	rt, err := manifest.Build(context.Background(), src)
	if err != nil {
		return err
	}

	stats := rt.Stats()
	success("%s: %d routes, no conflicts", src.Name(), stats.TotalRoutes)
	info("static: %d, dynamic: %d", stats.StaticCount, stats.DynamicCount)

	return nil
}
