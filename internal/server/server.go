package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/db"
	"github.com/jonathan/resume-layout/internal/export"
	"github.com/jonathan/resume-layout/internal/layout"
	"github.com/jonathan/resume-layout/internal/server/middleware"
	"github.com/jonathan/resume-layout/internal/server/ratelimit"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	exporter    PDFExporter
	layoutOpts  layout.Options
	layoutKey   string // layoutOpts.Key, stamped on page snapshots
	publicURL   string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validator   *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	PublicURL   string // base of share links; relative links when empty
	Layout      layout.Options
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Store     Store
	JWT       *JWTService
	Passwords *config.PasswordConfig
	Exporter  PDFExporter // nil disables PDF export
	Layout    layout.Options
	PublicURL string
	RateLimit *ratelimit.Config // nil uses the package defaults
}

// New connects to the database and the headless browser and creates a server.
// A missing browser only disables PDF export.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	exportConfig, err := config.NewExportConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create export config: %w", err)
	}

	var exporter PDFExporter
	exp, err := export.NewExporter(context.Background(), export.Options{
		Timeout:  exportConfig.Timeout,
		PoolSize: exportConfig.PoolSize,
	})
	if err != nil {
		log.Printf("[export] PDF export disabled: %v", err)
	} else {
		exporter = exp
	}

	s := NewWithDeps(cfg.Port, Deps{
		Store:     database,
		JWT:       NewJWTService(jwtConfig),
		Passwords: passwordConfig,
		Exporter:  exporter,
		Layout:    cfg.Layout,
		PublicURL: cfg.PublicURL,
		RateLimit: ratelimit.LoadConfig(),
	})
	return s, nil
}

// NewWithDeps creates a server from already constructed collaborators.
func NewWithDeps(port int, deps Deps) *Server {
	s := &Server{
		store:       deps.Store,
		exporter:    deps.Exporter,
		layoutOpts:  deps.Layout,
		layoutKey:   deps.Layout.Key(),
		publicURL:   deps.PublicURL,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		jwtService:  deps.JWT,
		validator:   validator.New(),
	}
	s.userService = NewUserService(deps.Store, deps.Passwords)
	s.authHandler = NewAuthHandler(s.userService, deps.JWT)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// routes registers all endpoints.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /paginate", s.handlePaginate)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}
	protected("GET /resumes", s.handleListResumes)
	protected("POST /resumes", s.handleCreateResume)
	protected("GET /resumes/{id}", s.handleGetResume)
	protected("PUT /resumes/{id}", s.handleUpdateResume)
	protected("DELETE /resumes/{id}", s.handleDeleteResume)
	protected("GET /resumes/{id}/pages", s.handleGetResumePages)
	protected("PUT /resumes/{id}/layout", s.handleUpdateLayout)
	protected("GET /resumes/{id}/export.pdf", s.handleExportPDF)
	protected("POST /resumes/{id}/share", s.handleShareResume)

	mux.HandleFunc("GET /shared/{token}", s.handleGetShared)
	return mux
}

// Handler returns the full handler chain including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
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
		s.close(context.Background())
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.close(ctx)
	log.Println("Server stopped")
	return nil
}

// close releases the rate limiter, browser and database.
func (s *Server) close(ctx context.Context) {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.exporter != nil {
		s.exporter.Close(ctx)
	}
	if s.store != nil {
		s.store.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d completed in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "export": "enabled"}
	if s.exporter == nil {
		resp["export"] = "disabled"
	}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			resp["status"] = "degraded"
			s.jsonResponse(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	s.authHandler.Login(w, r)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message)
}

// failResponse writes the response for err using HTTPStatus. Internal errors
// are logged and replaced by a generic message.
func (s *Server) failResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] %v", err)
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
