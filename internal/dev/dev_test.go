package dev

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/pkg/dispatch"
)

func TestWatcher_ManifestChange(t *testing.T) {
	tmpDir := t.TempDir()

	// Create initial manifest
	manifestPath := filepath.Join(tmpDir, "routes.json")
	if err := os.WriteFile(manifestPath, []byte(`{"routes": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:        []string{tmpDir},
		Debounce:     50 * time.Millisecond,
		ManifestPath: manifestPath,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start watcher in background
	go watcher.Start(ctx)

	// Wait for initial scan
	time.Sleep(100 * time.Millisecond)

	// Modify manifest
	if err := os.WriteFile(manifestPath, []byte(`{"routes": [{"id": "home", "pattern": "/", "kind": "page", "module": "routes/home"}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for change detection
	select {
	case change := <-changes:
		if change.Type != ChangeManifest {
			t.Errorf("Expected manifest change, got %v", change.Type)
		}
		if change.Path != manifestPath {
			t.Errorf("Expected path %q, got %q", manifestPath, change.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for change")
	}

	watcher.Stop()
}

func TestWatcher_NewFile(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Debounce: 50 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(newFile, []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangeOther {
			t.Errorf("Expected other change, got %v", change.Type)
		}
		if change.Path != newFile {
			t.Errorf("Expected path %q, got %q", newFile, change.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for new file change")
	}

	watcher.Stop()
}

func TestWatcher_Ignore(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{tmpDir},
		Ignore: []string{"*.tmp", "node_modules"},
	})

	// Test ignore patterns
	if !watcher.shouldIgnore(filepath.Join(tmpDir, "routes.json.tmp")) {
		t.Error("Should ignore *.tmp files")
	}
	if !watcher.shouldIgnore(filepath.Join(tmpDir, "node_modules", "lib.js")) {
		t.Error("Should ignore node_modules directory")
	}
	if watcher.shouldIgnore(filepath.Join(tmpDir, "routes.json")) {
		t.Error("Should not ignore routes.json")
	}
}

func TestWatcher_IgnoreSegments(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{"."},
		Ignore: []string{"tmp"},
	})

	if !watcher.shouldIgnore(filepath.Join("foo", "tmp", "bar.json")) {
		t.Error("Should ignore tmp directory segment")
	}
	if watcher.shouldIgnore(filepath.Join("foo", "attempt.json")) {
		t.Error("Should not ignore substring match")
	}
}

func TestWatcher_Classify(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "routes.json")

	watcher := NewWatcher(WatcherConfig{
		Paths:        []string{tmpDir},
		ManifestPath: manifestPath,
	})

	tests := []struct {
		path string
		want ChangeType
	}{
		{filepath.Join(tmpDir, "strata.json"), ChangeConfig},
		{manifestPath, ChangeManifest},
		{filepath.Join(tmpDir, "other.json"), ChangeOther},
		{filepath.Join(tmpDir, "README.md"), ChangeOther},
	}

	for _, tt := range tests {
		got := watcher.classify(tt.path)
		if got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_IsRunning(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths: []string{"."},
	})

	if watcher.IsRunning() {
		t.Error("Watcher should not be running initially")
	}
}

func TestCollectWatchPaths(t *testing.T) {
	t.Run("zero config", func(t *testing.T) {
		paths := CollectWatchPaths(config.New())
		if len(paths) != 1 || paths[0] != "routes.json" {
			t.Errorf("CollectWatchPaths() = %v, want [routes.json]", paths)
		}
	})

	t.Run("project config", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "strata.json")
		if err := os.WriteFile(cfgPath, []byte(`{"manifest": "routes.json"}`), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.LoadFile(cfgPath)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}

		paths := CollectWatchPaths(cfg)
		want := []string{filepath.Join(tmpDir, "routes.json"), cfgPath}
		if len(paths) != len(want) {
			t.Fatalf("CollectWatchPaths() = %v, want %v", paths, want)
		}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
			}
		}
	})

	t.Run("remote manifest is skipped", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "strata.json")
		if err := os.WriteFile(cfgPath, []byte(`{"manifest": "s3://my-bucket/routes.json"}`), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.LoadFile(cfgPath)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}

		paths := CollectWatchPaths(cfg)
		if len(paths) != 1 || paths[0] != cfgPath {
			t.Errorf("CollectWatchPaths() = %v, want [%s]", paths, cfgPath)
		}
	})
}

func TestReloadServer_ClientCount(t *testing.T) {
	rs := NewReloadServer()

	if rs.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", rs.ClientCount())
	}
}

func TestReloadMessage_JSON(t *testing.T) {
	data, err := json.Marshal(ReloadMessage{Type: ReloadTypeRoutes, TotalRoutes: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"type":"routes","totalRoutes":3}` {
		t.Errorf("Marshal = %s", got)
	}

	data, err = json.Marshal(ReloadMessage{Type: ReloadTypeClear})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"type":"clear"}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestDevClientScript(t *testing.T) {
	// Verify the script contains essential parts
	if len(DevClientScript) == 0 {
		t.Error("DevClientScript should not be empty")
	}

	if !strings.Contains(DevClientScript, "WebSocket") {
		t.Error("DevClientScript should contain WebSocket")
	}
	if !strings.Contains(DevClientScript, "_strata/reload") {
		t.Error("DevClientScript should contain reload endpoint")
	}
	if !strings.Contains(DevClientScript, "location.reload") {
		t.Error("DevClientScript should contain reload logic")
	}
	if !strings.Contains(DevClientScript, "strata-error-overlay") {
		t.Error("DevClientScript should contain error overlay")
	}
}

const devManifest = `{
  "routes": [
    {"id": "home", "pattern": "/", "kind": "page", "module": "routes/home"}
  ]
}`

const devManifestTwoRoutes = `{
  "routes": [
    {"id": "home", "pattern": "/", "kind": "page", "module": "routes/home"},
    {"id": "about", "pattern": "/about", "kind": "page", "module": "routes/about"}
  ]
}`

const devManifestConflict = `{
  "routes": [
    {"id": "a", "pattern": "/dup", "kind": "page", "module": "routes/a"},
    {"id": "b", "pattern": "/dup", "kind": "page", "module": "routes/b"}
  ]
}`

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newDevServer builds a server on a temp manifest with watching and
// metrics off so tests drive Reload directly.
func newDevServer(t *testing.T, manifestPath string, registry *dispatch.Registry) *Server {
	t.Helper()

	cfg := config.New()
	cfg.Manifest = manifestPath
	cfg.Watch.Enabled = false
	cfg.Metrics.Enabled = false

	s, err := NewServer(context.Background(), ServerOptions{
		Config:   cfg,
		Registry: registry,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func TestServer_ServesRoutesAndDispatches(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "routes.json")
	writeManifest(t, manifestPath, devManifest)

	registry := dispatch.NewRegistry().
		Page("home", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "home page")
		})

	s := newDevServer(t, manifestPath, registry)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	// Dispatches to the registered page
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}
	if string(body) != "home page" {
		t.Errorf("GET / body = %q, want %q", body, "home page")
	}

	// Route table debug endpoint
	resp, err = http.Get(srv.URL + "/_strata/routes")
	if err != nil {
		t.Fatal(err)
	}
	var routes struct {
		TotalRoutes int `json:"totalRoutes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		t.Fatalf("decoding /_strata/routes: %v", err)
	}
	resp.Body.Close()
	if routes.TotalRoutes != 1 {
		t.Errorf("totalRoutes = %d, want 1", routes.TotalRoutes)
	}

	// Health check
	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok\n" {
		t.Errorf("GET /healthz body = %q, want %q", body, "ok\n")
	}

	// Reload client script
	resp, err = http.Get(srv.URL + "/_strata/client.js")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "_strata/reload") {
		t.Error("client script should reference the reload endpoint")
	}
}

func TestServer_ReloadSwapsRouteTable(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "routes.json")
	writeManifest(t, manifestPath, devManifest)

	// Handlers for both routes are registered up front; only the
	// manifest decides which are reachable.
	registry := dispatch.NewRegistry().
		Page("home", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "home page")
		}).
		Page("about", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "about page")
		})

	s := newDevServer(t, manifestPath, registry)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/about")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /about before reload status = %d, want 404", resp.StatusCode)
	}

	writeManifest(t, manifestPath, devManifestTwoRoutes)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	resp, err = http.Get(srv.URL + "/about")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /about after reload status = %d, want 200", resp.StatusCode)
	}
	if string(body) != "about page" {
		t.Errorf("GET /about body = %q, want %q", body, "about page")
	}

	if got := s.Stats().TotalRoutes; got != 2 {
		t.Errorf("Stats().TotalRoutes = %d, want 2", got)
	}
}

func TestServer_ReloadKeepsServingOnError(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "routes.json")
	writeManifest(t, manifestPath, devManifest)

	registry := dispatch.NewRegistry().
		Page("home", func(ctx *dispatch.Ctx) error {
			return ctx.Text(http.StatusOK, "home page")
		})

	s := newDevServer(t, manifestPath, registry)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	writeManifest(t, manifestPath, devManifestConflict)

	err := s.Reload(context.Background())
	if err == nil {
		t.Fatal("Reload() with conflicting manifest should fail")
	}
	if !strings.Contains(err.Error(), "E131") {
		t.Errorf("Reload() error = %v, want E131", err)
	}

	// The previous table keeps serving
	resp, getErr := http.Get(srv.URL + "/")
	if getErr != nil {
		t.Fatal(getErr)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / after failed reload status = %d, want 200", resp.StatusCode)
	}
	if got := s.Stats().TotalRoutes; got != 1 {
		t.Errorf("Stats().TotalRoutes = %d, want 1", got)
	}
}

func TestServer_ReloadNotifiesClients(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "routes.json")
	writeManifest(t, manifestPath, devManifest)

	s := newDevServer(t, manifestPath, dispatch.NewRegistry())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/_strata/reload"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// Registration can lag the dial returning
	deadline := time.Now().Add(2 * time.Second)
	for s.reloadServer.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.reloadServer.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", s.reloadServer.ClientCount())
	}

	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// A reload also broadcasts a clear, so read until the routes event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg ReloadMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if msg.Type != ReloadTypeRoutes {
			continue
		}
		if msg.TotalRoutes != 1 {
			t.Errorf("TotalRoutes = %d, want 1", msg.TotalRoutes)
		}
		break
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "routes.json")
	writeManifest(t, manifestPath, devManifest)

	cfg := config.New()
	cfg.Manifest = manifestPath
	cfg.Watch.Enabled = false

	s, err := NewServer(context.Background(), ServerOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "go_") {
		t.Error("metrics output should include runtime metrics")
	}
}
