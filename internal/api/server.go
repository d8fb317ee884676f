// Package api exposes the terminal's command surface over local HTTP so
// kiosk front-ends can drive it. The bridge keeps no credential state: every
// sync request carries its own bearer token, which is rebuilt into a session
// per call.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Server wires the services onto an HTTP router.
type Server struct {
	auth    services.AuthService
	sync    services.SyncService
	local   services.LocalService
	checkin services.CheckinService
	metrics *Metrics
	log     logging.Logger
}

func NewServer(
	auth services.AuthService,
	sync services.SyncService,
	local services.LocalService,
	checkin services.CheckinService,
	reg *prometheus.Registry,
	log logging.Logger,
) *Server {
	return &Server{
		auth:    auth,
		sync:    sync,
		local:   local,
		checkin: checkin,
		metrics: NewMetrics(reg),
		log:     log,
	}
}

// Router builds the route table.
func (s *Server) Router(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", MetricsHandler(gatherer))

	r.Post("/login", s.handleLogin)
	r.Post("/sync/download", s.handleDownload)
	r.Post("/sync/upload", s.handleUpload)

	r.Post("/users", s.handleCreateUser)
	r.Post("/subscriptions", s.handleCreateSubscription)
	r.Post("/checkins", s.handleCreateCheckin)
	r.Post("/quick-checkin", s.handleQuickCheckin)

	r.Get("/local", s.handleFetchLocal)
	r.Delete("/subscriptions/{id}", s.handleCancelSubscription)
	r.Delete("/subscriptions/{id}/checkin", s.handleCancelCheckin)

	return r
}

var errInvalidID = fmt.Errorf("%w: invalid id", common.ErrValidation)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), response{Success: false, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sessionFrom rebuilds a sync session from the Authorization header.
func sessionFrom(r *http.Request) *services.Session {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return nil
	}
	return &services.Session{Token: token}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}
