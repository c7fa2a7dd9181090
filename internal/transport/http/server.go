package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sketchguess/internal/app"
	"sketchguess/internal/config"
	"sketchguess/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	dir    *app.Directory
	router *app.Router
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, dir *app.Directory, router *app.Router, logger *slog.Logger) *Server {
	s := &Server{
		dir:    dir,
		router: router,
		config: cfg,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Routes builds the HTTP handler tree
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.middleware)

	r.Get("/", s.handleRoot)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/rooms/{roomCode}", s.handleGetRoom)
		r.Get("/rooms/{roomCode}/exists", s.handleRoomExists)
		r.Get("/rooms/{roomCode}/qr", s.handleRoomQR)
	})

	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.router, s.config, s.logger))

	return r
}

// middleware adds CORS headers and logs each request
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if origin := s.allowedOrigin(r); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Health polls are only worth logging while developing
		if !s.config.IsDevelopment() && isHealthRequest(r.URL.Path) {
			return
		}

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}

// allowedOrigin returns the value for Access-Control-Allow-Origin, or "" when
// the request's origin is not allowed
func (s *Server) allowedOrigin(r *http.Request) string {
	if s.config.Server.CORSOrigin == "*" {
		return "*"
	}
	origin := r.Header.Get("Origin")
	if origin != "" && s.config.AllowsOrigin(origin) {
		return origin
	}
	return ""
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// isHealthRequest reports whether the request hits a liveness endpoint
func isHealthRequest(path string) bool {
	return path == "/" || path == "/api/health"
}
