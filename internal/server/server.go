package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/config"
	"github.com/jackzampolin/timetable/internal/home"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/server/endpoints"
	"github.com/jackzampolin/timetable/internal/session"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 8 << 20

// Server is the timetable HTTP server.
// It owns the upload session store and the campus profile registry, and
// rebuilds both when the config file changes.
type Server struct {
	httpServer *http.Server
	sessions   *session.Store
	profiles   *schedule.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080, "0" picks a free port)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// ConfigStore edits the config file; enables the settings endpoints
	ConfigStore config.Store
	// Home is the data directory campus files are read from
	Home *home.Dir
	// SwaggerSpecPath overrides where swagger.json is read from
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	settings := schedule.DefaultSettings()
	sessionCfg := session.Config{}
	if cfg.ConfigManager != nil {
		c := cfg.ConfigManager.Get()
		settings = c.ToScheduleSettings()
		sessionCfg = c.ToSessionConfig()
	}

	profiles := schedule.NewRegistry(settings)
	profiles.SetLogger(cfg.Logger)

	sessions, err := session.NewStore(sessionCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			profiles.Reload(c.ToScheduleSettings())
			evicted := sessions.Resize(c.Sessions.MaxEntries)
			sessions.SetTTL(c.Sessions.TTL)
			cfg.Logger.Info("profiles reloaded from config",
				"sessions_evicted", evicted, "session_ttl", sessions.TTL())
		})
	}

	s := &Server{
		sessions:  sessions,
		profiles:  profiles,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		services: &svcctx.Services{
			Sessions:    sessions,
			Profiles:    profiles,
			Config:      cfg.ConfigManager,
			ConfigStore: cfg.ConfigStore,
			Logger:      cfg.Logger,
			Home:        cfg.Home,
		},
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		if err := s.endpointRegistry.Register(ep); err != nil {
			return nil, err
		}
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)
	cfg.Logger.Debug("registered endpoints", "routes", s.endpointRegistry.Routes())

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(s.limitBody(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.running = true
	s.listener = ln
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.listener = nil
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. While running it is the
// bound address, so a configured port of "0" resolves to the real port.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the upload session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Profiles returns the campus profile registry.
func (s *Server) Profiles() *schedule.Registry {
	return s.profiles
}
