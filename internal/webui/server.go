package webui

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hubscout/hubscout/internal/types"
)

// Searcher executes one search request. Satisfied by *search.Dispatcher.
type Searcher interface {
	Dispatch(ctx context.Context, req types.QueryRequest) ([]types.SearchRecord, error)
}

// ServerConfig holds the web UI server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	DefaultLimit    int
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "localhost",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		DefaultLimit:    10,
	}
}

// Server represents the web UI server
type Server struct {
	config       *ServerConfig
	searcher     Searcher
	modes        *ModeSelection
	templates    *TemplateManager
	dataSource   string
	httpServer   *http.Server
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer creates a new web UI server
func NewServer(serverConfig *ServerConfig, searcher Searcher, dataSource string, logger *log.Logger) (*Server, error) {
	if serverConfig == nil {
		serverConfig = DefaultServerConfig()
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[webui] ", log.LstdFlags)
	}

	templates, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}

	return &Server{
		config:     serverConfig,
		searcher:   searcher,
		modes:      NewModeSelection(),
		templates:  templates,
		dataSource: dataSource,
		logger:     logger,
	}, nil
}

// Run starts the server and blocks until context is cancelled
func (s *Server) Run(ctx context.Context) error {
	mux := s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.loggingMiddleware(mux),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting Web UI server at http://%s:%d", s.config.Host, s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

// shutdown performs graceful shutdown
func (s *Server) shutdown() error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	})
	return shutdownErr
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Printf("Warning: failed to setup static files: %v", err)
	} else {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Pages
	mux.HandleFunc("/", s.handleIndex)

	// HTMX partials
	mux.HandleFunc("/partials/results", s.handlePartialResults)
	mux.HandleFunc("/partials/mode", s.handlePartialMode)

	// API endpoints
	mux.HandleFunc("/api/search", s.handleAPISearch)

	return mux
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for static files (too noisy)
		skipLog := strings.HasPrefix(r.URL.Path, "/static/")

		if !skipLog {
			s.logger.Printf("%s %s", r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)

		if !skipLog {
			s.logger.Printf("%s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
		}
	})
}

// Modes returns the mode selection state
func (s *Server) Modes() *ModeSelection {
	return s.modes
}
