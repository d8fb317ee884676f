package api

import (
	"net/http"
	"strconv"

	"github.com/dmoura/eventgate/internal/remote"
	"github.com/dmoura/eventgate/internal/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]string{"server": "offline"}})
		return
	}
	s.writeData(w, map[string]string{"server": "online"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  remote.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, loginResponse{Token: sess.Token, User: sess.User})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, err := s.sync.Download(r.Context(), sessionFrom(r))
	s.metrics.recordDownload(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, res)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	res, err := s.sync.Upload(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.recordUpload(res)
	s.writeData(w, res)
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.local.CreateUser(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, createdResponse{ID: id})
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSubscriptionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.local.CreateSubscription(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, createdResponse{ID: id})
}

func (s *Server) handleCreateCheckin(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCheckinRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.local.CreateCheckin(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, createdResponse{ID: id})
}

func (s *Server) handleQuickCheckin(w http.ResponseWriter, r *http.Request) {
	var req services.QuickCheckinRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.checkin.QuickCheckin(r.Context(), req)
	s.metrics.recordQuickCheckin(res, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, res)
}

func (s *Server) handleFetchLocal(w http.ResponseWriter, r *http.Request) {
	data, err := s.local.FetchLocalData(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, data)
}

func (s *Server) subscriptionID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func (s *Server) handleCancelCheckin(w http.ResponseWriter, r *http.Request) {
	id, err := s.subscriptionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.checkin.CancelCheckin(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Success: true})
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := s.subscriptionID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.checkin.CancelSubscription(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Success: true})
}
