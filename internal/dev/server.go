package dev

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/strata-dev/strata/internal/config"
	"github.com/strata-dev/strata/internal/errors"
	"github.com/strata-dev/strata/pkg/dispatch"
	"github.com/strata-dev/strata/pkg/manifest"
	"github.com/strata-dev/strata/pkg/middleware"
	"github.com/strata-dev/strata/pkg/router"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Source overrides the manifest source. Defaults to the manifest
	// reference from Config.
	Source manifest.Source

	// Registry holds the page and API handlers to dispatch to.
	Registry *dispatch.Registry

	// Middleware is applied to every dispatched request.
	Middleware []dispatch.Middleware

	// Logger for server events. Defaults to slog.Default.
	Logger *slog.Logger

	// OnReload is called after the route table is rebuilt.
	OnReload func(totalRoutes int)
}

// Server is the development server. It serves the dispatcher behind a
// chi mux, watches the manifest for changes, and swaps the live route
// table without dropping requests.
type Server struct {
	config       *config.Config
	options      ServerOptions
	source       manifest.Source
	live         *router.Live
	registry     *dispatch.Registry
	logger       *slog.Logger
	watcher      *Watcher
	reloadServer *ReloadServer
	changeCh     chan Change
	handler      http.Handler
	httpServer   *http.Server
	mu           sync.Mutex
	running      bool
}

// NewServer creates a new development server. It loads and compiles the
// manifest immediately so a broken manifest fails here rather than on
// the first request.
func NewServer(ctx context.Context, options ServerOptions) (*Server, error) {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "dev")

	source := options.Source
	if source == nil {
		var err error
		source, err = manifest.Open(cfg.ManifestPath())
		if err != nil {
			return nil, err
		}
	}

	// Initial build
	rt, err := manifest.Build(ctx, source)
	if err != nil {
		return nil, err
	}

	registry := options.Registry
	if registry == nil {
		registry = dispatch.NewRegistry()
	}

	s := &Server{
		config:       cfg,
		options:      options,
		source:       source,
		live:         router.NewLive(rt),
		registry:     registry,
		logger:       logger,
		reloadServer: NewReloadServer(),
	}

	// Create watcher
	if cfg.Watch.Enabled {
		watchPaths := CollectWatchPaths(cfg)
		if len(watchPaths) > 0 {
			s.watcher = NewWatcher(WatcherConfig{
				Paths:        watchPaths,
				Ignore:       append(DefaultIgnore, cfg.Watch.Ignore...),
				Debounce:     cfg.Debounce(),
				ManifestPath: cfg.ManifestPath(),
			})
		}
	}

	var mw []dispatch.Middleware
	if cfg.Metrics.Enabled {
		mw = append(mw, middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)))
	}
	mw = append(mw, options.Middleware...)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.RecordUnmatched()
		http.NotFound(w, r)
	})

	dispatcher := dispatch.NewHandler(s.live, registry,
		dispatch.WithMiddleware(mw...),
		dispatch.WithNotFound(notFound),
		dispatch.WithLogger(logger),
	)

	s.handler = s.buildMux(dispatcher)

	return s, nil
}

// buildMux assembles the dev mux: reload endpoints under /_strata,
// health and metrics, and the dispatcher for everything else.
func (s *Server) buildMux(dispatcher http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/_strata/reload", s.reloadServer.HandleWebSocket)
	r.Get("/_strata/client.js", s.handleClientScript)
	r.Get("/_strata/routes", s.handleRoutes)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok\n"))
	})

	if s.config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Handle("/*", dispatcher)

	return r
}

// Start starts the development server and blocks until ctx is canceled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	// Set up watcher callback
	if s.watcher != nil {
		s.changeCh = make(chan Change, 64)
		s.watcher.OnChange(func(change Change) {
			select {
			case s.changeCh <- change:
			default:
			}
		})

		go s.watcher.Start(ctx)
		go s.processChanges(ctx)
	}

	s.httpServer = &http.Server{
		Addr:    s.config.ServerAddress(),
		Handler: s.handler,
	}

	s.logger.Info("dev server listening",
		"url", s.config.ServerURL(),
		"routes", s.live.Stats().TotalRoutes)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("E130").
				WithDetail(err.Error()).
				WithSuggestion("Another process may be using the port. Change server.port in strata.json or pass --port.").
				Wrap(err)
		}
		return nil
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.reloadServer.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// Reload rebuilds the route table from the manifest source and swaps it
// in. On failure the previous table keeps serving and connected
// browsers get an error overlay.
func (s *Server) Reload(ctx context.Context) error {
	rt, err := manifest.Build(ctx, s.source)
	if err != nil {
		middleware.RecordReload(false)
		s.reloadServer.NotifyError(err.Error())
		return errors.New("E131").
			WithDetail(err.Error()).
			Wrap(err)
	}

	s.live.Swap(rt)
	middleware.RecordReload(true)
	s.reloadServer.ClearError()

	total := rt.Stats().TotalRoutes
	s.reloadServer.NotifyRoutes(total)
	if s.options.OnReload != nil {
		s.options.OnReload(total)
	}

	s.logger.Info("route table reloaded",
		"source", s.source.Name(),
		"routes", total)

	return nil
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges handles a batch of file changes.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	hasManifest := false
	hasConfig := false

	for _, change := range changes {
		s.logger.Debug("file changed", "path", change.Path)
		switch change.Type {
		case ChangeManifest:
			hasManifest = true
		case ChangeConfig:
			hasConfig = true
		}
	}

	if hasConfig {
		s.logger.Info("strata.json changed; restart the server to apply it")
	}

	if hasManifest {
		if err := s.Reload(ctx); err != nil {
			s.logger.Error("route reload failed", "error", err)
		}
	}
}

// handleRoutes serves the current route table as JSON for debugging.
func (s *Server) handleRoutes(w http.ResponseWriter, req *http.Request) {
	snap := s.live.Snapshot()
	payload := struct {
		TotalRoutes int                       `json:"totalRoutes"`
		Stats       router.Stats              `json:"stats"`
		Routes      []router.RouteDeclaration `json:"routes"`
	}{
		TotalRoutes: snap.Stats().TotalRoutes,
		Stats:       snap.Stats(),
		Routes:      snap.Routes(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// handleClientScript serves the live reload client.
func (s *Server) handleClientScript(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(DevClientScript))
}

// Handler returns the dev mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stats returns statistics for the current route table.
func (s *Server) Stats() router.Stats {
	return s.live.Stats()
}
