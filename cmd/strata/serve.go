package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/internal/dev"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		host        string
		manifestRef string
		noWatch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development server",
		Long: `Start the development server with live route reload.

The server watches the manifest, rebuilds the route table on change,
and swaps it in without dropping requests. Connected browsers refresh
through the /_strata/reload WebSocket and manifest errors show as an
overlay.

Endpoints:
  /_strata/routes     current route table as JSON
  /_strata/client.js  live reload browser client
  /healthz            health check
  /metrics            Prometheus metrics (if enabled)

Examples:
  strata serve
  strata serve --port=8080
  strata serve --manifest s3://config/routes.json --no-watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, manifestRef, noWatch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from strata.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from strata.json)")
	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "Manifest path or s3:// URL (default from strata.json)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable manifest watching")

	return cmd
}

func runServe(port int, host, manifestRef string, noWatch bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if manifestRef != "" {
		// Flag paths are relative to the working directory, not the
		// config file
		if !strings.HasPrefix(manifestRef, "s3://") {
			if abs, absErr := filepath.Abs(manifestRef); absErr == nil {
				manifestRef = abs
			}
		}
		cfg.Manifest = manifestRef
	}
	if noWatch {
		cfg.Watch.Enabled = false
	}

	if err := ensureManifestExists(cfg.ManifestPath()); err != nil {
		return err
	}

	if cfg.Watch.Enabled && strings.HasPrefix(cfg.ManifestPath(), "s3://") {
		warn("Remote manifests are not watched; restart or reload to pick up changes")
	}

	// Print banner
	printBanner()
	fmt.Println("  serve")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := dev.NewServer(ctx, dev.ServerOptions{
		Config: cfg,
		OnReload: func(totalRoutes int) {
			success("Route table reloaded (%d routes)", totalRoutes)
		},
	})
	if err != nil {
		return err
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		server.Stop()
	}()

	info("Serving %s at %s", cfg.ManifestPath(), cfg.ServerURL())
	stats := server.Stats()
	info("%d routes (%d static, %d dynamic)", stats.TotalRoutes, stats.StaticCount, stats.DynamicCount)
	fmt.Println()

	// Start server
	return server.Start(ctx)
}
