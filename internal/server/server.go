package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anand/job-board/internal/config"
	"github.com/anand/job-board/internal/refresh"
	"github.com/anand/job-board/internal/server/middleware"
	"github.com/anand/job-board/internal/store"
)

// Store is the persistence surface the handlers need. *store.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	CreateJob(ctx context.Context, title, description string) (*store.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*store.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, title, description string) error
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ListJobs(ctx context.Context, page int, query string, pageSize int) ([]store.Job, int, error)
	CreateApplication(ctx context.Context, a *store.Application) (uuid.UUID, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]store.Application, error)
	ListRegistrations(ctx context.Context) ([]store.Application, error)
	GetAdminByEmail(ctx context.Context, email string) (*store.Admin, error)
}

// Config holds server configuration.
type Config struct {
	Port      int
	PageSize  int
	ResumeDir string
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	store       Store
	hub         *refresh.Hub
	logger      *zap.Logger
	jwtService  *JWTService
	authHandler *AuthHandler
	pageSize    int
	resumeDir   string
}

// loginPath is where the admin gate sends unauthenticated page navigations.
const loginPath = "/login-admin"

// New creates a new server instance.
func New(cfg Config, st Store, hub *refresh.Hub, logger *zap.Logger) (*Server, error) {
	if cfg.PageSize < 1 {
		cfg.PageSize = 9
	}

	s := &Server{
		store:     st,
		hub:       hub,
		logger:    logger,
		pageSize:  cfg.PageSize,
		resumeDir: cfg.ResumeDir,
	}

	passwordConfig, err := config.LoadPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to load password config: %w", err)
	}

	jwtConfig, err := config.LoadJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(st, passwordConfig, s.jwtService, logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Admin mutations sit behind the API gate; the
// admin page prefix sits behind the redirecting gate. Everything else is
// unauthenticated.
func (s *Server) routes() http.Handler {
	requireAdmin := middleware.RequireAdmin(s.jwtService.AsTokenValidator())
	gatePages := middleware.RedirectToLogin(s.jwtService.AsTokenValidator(), loginPath)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", s.authHandler.Logout)

	// Catalog (public)
	mux.HandleFunc("GET /api/jobs/getJobs", s.handleGetJobs)
	mux.HandleFunc("GET /api/jobs/getJobDetails/{id}", s.handleGetJobDetails)

	// Posting CRUD (admin)
	mux.Handle("POST /api/jobs/addJob", requireAdmin(http.HandlerFunc(s.handleAddJob)))
	mux.Handle("PUT /api/jobs/updateJob/{id}", requireAdmin(http.HandlerFunc(s.handleUpdateJob)))
	mux.Handle("DELETE /api/jobs/deleteJob/{id}", requireAdmin(http.HandlerFunc(s.handleDeleteJob)))

	// Intake + review
	mux.HandleFunc("POST /api/application/apply/resumes", s.handleApply)
	mux.HandleFunc("GET /api/application/getApplications/{jobId}", s.handleGetApplications)
	mux.Handle("GET /api/application/getRegistrations", requireAdmin(http.HandlerFunc(s.handleGetRegistrations)))

	// Stored resumes
	mux.HandleFunc("GET /resumes/{filename}", s.handleGetResume)

	// Admin page shell: the front end renders it, the gate decides whether
	// the navigation ever gets that far.
	mux.Handle("GET /admin/", gatePages(http.HandlerFunc(s.handleAdminShell)))
	mux.Handle("GET /admin", gatePages(http.HandlerFunc(s.handleAdminShell)))

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers. The front end runs on a separate origin and
// sends the session cookie, so credentials must be allowed.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAdminShell serves the admin app shell. It only runs after the gate
// verified the session; the shell itself carries no data.
func (s *Server) handleAdminShell(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!DOCTYPE html><html><head><title>Admin</title></head><body></body></html>"))
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response. The payload field is "message"
// because that is what the front end surfaces verbatim on failures.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"message": message})
}

// parseQueryInt parses an integer query parameter with default and minimum values.
func parseQueryInt(r *http.Request, key string, defaultValue, minValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	if val < minValue {
		return minValue
	}
	return val
}
