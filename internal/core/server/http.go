// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/voyagehq/tripcheck/internal/core/api"
	"github.com/voyagehq/tripcheck/internal/core/auth"
	"github.com/voyagehq/tripcheck/internal/core/config"
)

// HTTPServer manages HTTP server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.ServerConfig
}

// NewHTTPServer creates the HTTP server with routes, auth middleware, and
// CORS registered. Every /v1 route requires an API key; /healthz does not.
func NewHTTPServer(cfg *config.ServerConfig, service *api.Service, authenticator *auth.Authenticator) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	router := httprouter.New()

	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	protected := authenticator.Middleware
	router.POST("/v1/itineraries", protected(service.CreateItinerary))
	router.GET("/v1/itineraries", protected(service.ListItineraries))
	router.GET("/v1/itineraries/:id", protected(service.GetItinerary))
	router.DELETE("/v1/itineraries/:id", protected(service.DeleteItinerary))
	router.POST("/v1/itineraries/:id/segments", protected(service.AddSegment))
	router.PUT("/v1/itineraries/:id/segments/:segmentID", protected(service.UpdateSegment))
	router.DELETE("/v1/itineraries/:id/segments/:segmentID", protected(service.DeleteSegment))
	router.GET("/v1/itineraries/:id/validation", protected(service.AuditItinerary))
	router.GET("/v1/rules", protected(service.ListRules))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
	}).Handler(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      corsHandler,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	return &HTTPServer{
		server: srv,
		config: cfg,
	}, nil
}

// Handler exposes the full middleware chain, primarily for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves HTTP requests until Shutdown is called.
// Context is provided for API consistency but ListenAndServe blocks.
func (s *HTTPServer) Start(ctx context.Context) error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server with a 30-second timeout.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
