// pkg/api/server.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/storylens/storylens/internal/config"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/types"
)

// maxRequestBody caps extract request bodies at 32MB; trays are far
// smaller in practice.
const maxRequestBody = 32 << 20

// Server exposes the extraction engine over HTTP.
type Server struct {
	client *Client
	cfg    config.ServerConfig
	logger utils.Logger
	router *mux.Router
}

// ExtractRequest is the POST /api/v1/extract payload. Envelope is the raw
// upstream response for the given user.
type ExtractRequest struct {
	UserID   string          `json:"user_id"`
	Envelope json.RawMessage `json:"envelope"`
}

// ExtractResponse carries the extracted records.
type ExtractResponse struct {
	Records []*types.StoryRecord `json:"records"`
	Count   int                  `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the HTTP server around an assembled client.
func NewServer(client *Client, cfg config.ServerConfig, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NopLogger{}
	}
	s := &Server{
		client: client,
		cfg:    cfg,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)

	if m := s.client.Metrics(); m != nil {
		s.router.Handle("/metrics", m.MetricsHandler()).Methods(http.MethodGet)
	}
}

// Handler returns the root HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("address", s.cfg.ListenAddress).Info("HTTP server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	var req ExtractRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if len(req.Envelope) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "envelope is required"})
		return
	}

	records, err := s.client.ExtractEnvelope(r.Context(), req.Envelope, req.UserID)
	if err != nil {
		s.logger.WithField("error", err).Warn("extraction request failed")
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{Records: records, Count: len(records)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(v)
}
