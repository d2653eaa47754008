package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/garnizeh/feedback/internal/auth"
	"github.com/garnizeh/feedback/internal/config"
	"github.com/garnizeh/feedback/internal/dashboard"
	"github.com/garnizeh/feedback/internal/feedback"
	"github.com/garnizeh/feedback/pkg/repository"
)

// SetupRoutes wires the services on top of store and registers every endpoint.
func SetupRoutes(cfg *config.Config, version, buildTime string, store repository.Store, opts ...auth.Option) (*mux.Router, error) {
	schemas, err := LoadSchemas(schemaFiles)
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Services
	svcLogger := logger.With(slog.String("layer", "service"))
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, opts...)
	authSvc := auth.NewService(store, tokens, svcLogger)
	feedbackSvc := feedback.NewService(store, svcLogger)
	agg := dashboard.NewAggregator(store, svcLogger)

	// Handlers
	systemHandler := NewSystemHandler(store)
	authHandler := NewAuthHandler(authSvc, schemas, cfg.TokenTTL)
	feedbackHandler := NewFeedbackHandler(feedbackSvc, schemas)
	dashboardHandler := NewDashboardHandler(agg)

	// Open endpoints
	r.HandleFunc("/", systemHandler.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Bearer-protected endpoints
	r.HandleFunc("/dashboard", authHandler.Require(dashboardHandler.Dashboard)).Methods(http.MethodGet)
	r.HandleFunc("/team", authHandler.Require(dashboardHandler.Team)).Methods(http.MethodGet)
	r.HandleFunc("/feedback", authHandler.Require(feedbackHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/feedback/acknowledge/{id:[0-9]+}", authHandler.Require(feedbackHandler.Acknowledge)).Methods(http.MethodPut)
	r.HandleFunc("/feedback/{id:[0-9]+}", authHandler.Require(feedbackHandler.Update)).Methods(http.MethodPut)

	// Preflight requests never match a route method, so CORS handles them here.
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorDetail{Code: CodeMethodNotAllowed, Message: "method not allowed"}})
	}))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: CodeNotFound, Message: "route not found"}})
	})

	return r, nil
}
