// Package dev provides the development server and live route reload.
//
// This package implements:
//   - File watching for manifest and config changes
//   - Atomic route table swaps without dropping requests
//   - WebSocket-based browser refresh
//   - Error overlay in browser for manifest errors
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Monitors the manifest and strata.json for changes
//   - Server: Dispatches requests against the live route table
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv, err := dev.NewServer(ctx, dev.ServerOptions{
//	    Config:   cfg,
//	    Registry: registry,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Watching can be disabled via strata.json (watch.enabled=false).
// Watch paths are the manifest file and strata.json itself. Remote
// manifests (s3://) are not watched; use Reload or restart instead.
//
// # Live Reload Protocol
//
// The browser connects to /_strata/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "routes", "totalRoutes": 12}  // Route table changed, reload page
//	{"type": "error", "error": "..."}      // Shows error overlay
//	{"type": "clear"}                      // Clears error overlay
package dev
