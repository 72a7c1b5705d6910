package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmgilman/go/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-aside-cache/internal/product"
	"go-aside-cache/internal/utils"
)

const maxBodyBytes = 1 << 20

// Server represents the product HTTP API
type Server struct {
	catalog *product.Catalog
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a new product HTTP server
func NewServer(catalog *product.Catalog, logger *zap.Logger) *Server {
	return &Server{
		catalog: catalog,
		logger:  logger,
	}
}

// Start listens on the given TCP port and serves until Stop
func (s *Server) Start(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves the API on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting product HTTP server", zap.String("address", listener.Addr().String()))
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Stopping product HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.recoverPanics)

	// Product endpoints
	products := router.PathPrefix("/products").Subrouter()
	products.HandleFunc("", s.handleListProducts).Methods(http.MethodGet)
	products.HandleFunc("", s.handleCreateProduct).Methods(http.MethodPost)
	products.HandleFunc("/{id}", s.handleGetProduct).Methods(http.MethodGet)
	products.HandleFunc("/{id}", s.handleUpdateProduct).Methods(http.MethodPut)
	products.HandleFunc("/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// recoverPanics turns a handler panic into a coded 500 response
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("Recovered from handler panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"))
				s.writeErrorResponse(w, errors.New(errors.CodeInternal, "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// parseRequest parses JSON request body
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "failed to read request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid JSON body")
	}
	return nil
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes a coded error body with the status mapped from its code
func (s *Server) writeErrorResponse(w http.ResponseWriter, err error) {
	status := utils.StatusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: errors.ToJSON(err)}); encodeErr != nil {
		s.logger.Error("Failed to write error response", zap.Error(encodeErr))
	}
}
