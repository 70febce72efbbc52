// ABOUTME: HTTP runtime owning the MCP endpoints, the REST API, health, and metrics.
// ABOUTME: Built and shut down by main; there is no process-global server state.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/trans/sfm-mcp/internal/api"
	"github.com/trans/sfm-mcp/internal/config"
	"github.com/trans/sfm-mcp/internal/mcp"
	"github.com/trans/sfm-mcp/internal/storage"
	"go.uber.org/zap"
)

// Deps are the collaborators the runtime serves.
type Deps struct {
	Products storage.ProductRepository
	Daily    storage.DailyRepository
	Store    api.Pinger
}

// Runtime is the running HTTP surface of the process.
type Runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	handler   http.Handler
	srv       *http.Server
	endpoints []string

	mu   sync.Mutex
	ln   net.Listener
	done chan error
}

// New wires every enabled endpoint of registry plus the API routes.
func New(cfg *config.Config, registry *mcp.Registry, deps Deps, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	translator := api.NewTranslator(logger)
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	app := api.NewApp(api.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		MetricsPath:  metricsPath,
	}, translator)
	api.RegisterRoutes(app, api.NewHandler(logger, deps.Products, deps.Daily), deps.Store, metricsPath)

	for _, name := range cfg.Endpoints {
		if _, ok := registry.Lookup(name); !ok {
			logger.Warn("mcp.endpoint_unknown",
				zap.String("endpoint", name),
				zap.Strings("registered", registry.Names()),
			)
		}
	}

	mux := http.NewServeMux()
	rt := &Runtime{cfg: cfg, logger: logger}

	for _, ep := range registry.Endpoints() {
		if !cfg.EndpointEnabled(ep.Name) {
			logger.Info("mcp.endpoint_disabled", zap.String("endpoint", ep.Name))
			continue
		}

		server := mcp.NewServer(ep, logger)
		getServer := func(*http.Request) *mcpsdk.Server { return server }

		mux.Handle(ep.SSEPath, mcpsdk.NewSSEHandler(getServer, nil))
		mux.Handle(ep.StreamPath(), mcpsdk.NewStreamableHTTPHandler(getServer, nil))
		rt.endpoints = append(rt.endpoints, ep.Name)

		logger.Info("mcp.endpoint_registered",
			zap.String("endpoint", ep.Name),
			zap.String("sse", ep.SSEPath),
			zap.String("stream", ep.StreamPath()),
		)
	}
	if len(rt.endpoints) == 0 {
		return nil, fmt.Errorf("no MCP endpoints enabled (configured: %v, registered: %v)", cfg.Endpoints, registry.Names())
	}

	// Everything that is not an MCP transport goes to the Fiber app.
	mux.Handle("/", adaptor.FiberApp(app))

	routes := newRouteClassifier(registry, metricsPath)
	rt.handler = withRequestID(withRequestLog(logger, routes, translator.Recover(mux)))
	rt.srv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      rt.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return rt, nil
}

// Handler returns the root handler, for use with httptest.
func (r *Runtime) Handler() http.Handler {
	return r.handler
}

// Endpoints lists the names of mounted MCP endpoints.
func (r *Runtime) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// Start begins listening and serving in the background.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ln != nil {
		return errors.New("runtime already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", r.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", r.cfg.Server.Addr, err)
	}
	r.ln = ln
	r.done = make(chan error, 1)

	go func() {
		err := r.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		r.done <- err
		close(r.done)
	}()

	r.logger.Info("runtime.started",
		zap.String("addr", ln.Addr().String()),
		zap.Strings("endpoints", r.endpoints),
	)
	return nil
}

// Addr is the bound listen address once started.
func (r *Runtime) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ln == nil {
		return ""
	}
	return r.ln.Addr().String()
}

// Run starts the runtime and blocks until ctx is cancelled or serving fails.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	select {
	case err := <-r.done:
		return err
	case <-ctx.Done():
	}

	return r.Shutdown(context.Background())
}

// Shutdown stops accepting connections and waits up to server.stop_delay
// for in-flight requests. Long-lived SSE streams still open after the
// delay are closed.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	started := r.ln != nil
	r.mu.Unlock()
	if !started {
		return nil
	}

	r.logger.Info("runtime.stopping", zap.Duration("stop_delay", r.cfg.Server.StopDelay))

	shutdownCtx, cancel := context.WithTimeout(ctx, r.cfg.Server.StopDelay)
	defer cancel()

	err := r.srv.Shutdown(shutdownCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		r.logger.Warn("runtime.forced_close", zap.Duration("stop_delay", r.cfg.Server.StopDelay))
		err = r.srv.Close()
	}
	if serveErr := <-r.done; serveErr != nil && err == nil {
		err = serveErr
	}
	r.logger.Info("runtime.stopped")
	return err
}
