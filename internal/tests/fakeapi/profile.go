package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sideline-app/client/internal/apiclient"
	"github.com/sideline-app/client/types"
)

type profileResponse struct {
	User types.User `json:"user"`
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	s.mu.Lock()
	acc := s.findByEmail(email)
	s.mu.Unlock()
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: acc.user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req apiclient.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[userID]
	if !ok || !strings.EqualFold(acc.user.Email, req.Email) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	acc.user.FirstName = req.FirstName
	acc.user.LastName = req.LastName
	acc.user.Phone = req.Phone
	writeJSON(w, http.StatusOK, profileResponse{User: acc.user})
}
