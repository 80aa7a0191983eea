// Package server provides the HTTP API over the career profile pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/blyn/internal/config"
	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/jonathan/blyn/internal/server/middleware"
	"github.com/jonathan/blyn/internal/server/ratelimit"
)

// maxBodyBytes bounds JSON request bodies. Document uploads have their own limit.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	pipeline    *pipeline.Pipeline
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	handler     http.Handler
	onShutdown  []func()
}

// Config holds server configuration
type Config struct {
	Port int
	// JWT enables bearer authentication. When nil every request runs with an
	// anonymous session and nothing is persisted per owner.
	JWT *config.JWTConfig
	// RateLimit overrides the environment-derived limiter configuration.
	RateLimit *ratelimit.Config
}

// New creates a new server instance around a wired pipeline.
func New(cfg Config, p *pipeline.Pipeline) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}

	s := &Server{pipeline: p}

	limits := cfg.RateLimit
	if limits == nil {
		limits = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(limits)

	var resolver middleware.OwnerResolver
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
		resolver = s.jwtService
	}
	withSession := middleware.SessionMiddleware(resolver)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	for _, route := range s.routes() {
		mux.Handle(route.pattern, withSession(route.handler))
	}

	s.handler = middleware.CORS(middleware.RateLimit(s.rateLimiter)(middleware.RequestLog(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Deploys upload whole bundles; leave room beyond the client timeout.
		WriteTimeout: 2 * time.Minute,
	}

	return s, nil
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

// routes lists the session-scoped endpoints.
func (s *Server) routes() []route {
	return []route{
		{"POST /v1/profiles/normalize", s.handleNormalize},
		{"POST /v1/profiles/extract", s.handleExtract},
		{"GET /v1/profiles/current", s.handleCurrentProfile},
		{"GET /v1/profiles/history", s.handleHistory},
		{"POST /v1/analyze", s.handleAnalyze},
		{"POST /v1/render/resume", s.handleRenderResume},
		{"POST /v1/render/cover-letter", s.handleRenderCoverLetter},
		{"POST /v1/render/portfolio", s.handleRenderPortfolio},
		{"POST /v1/deploy", s.handleDeploy},
	}
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// JWT returns the token service, or nil when authentication is disabled.
func (s *Server) JWT() *JWTService {
	return s.jwtService
}

// OnShutdown registers fn to run after the listener has drained.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background work and runs shutdown hooks.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.rateLimiter = nil
	}
	for _, fn := range s.onShutdown {
		fn()
	}
	s.onShutdown = nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failWith maps err to a status and writes it. Server-side failures are logged
// and reported without their internals.
func (s *Server) failWith(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	if status == http.StatusInternalServerError {
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
