package handler

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"ceezaa-sessions/internal/service"
	"encoding/json"
	"net/http"
)

// AuthHandler mints dev tokens standing in for the identity provider
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Token handles POST /v1/auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	token, err := h.authSvc.IssueUserToken(req.UserID, req.DisplayName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token, UserID: req.UserID})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses
func writeDomainError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindNotFound, apperr.KindInvalidCode:
		status = http.StatusNotFound
	case apperr.KindForbidden, apperr.KindNotParticipant, apperr.KindCannotRemoveHost:
		status = http.StatusForbidden
	case apperr.KindInvalidState, apperr.KindSessionClosed, apperr.KindCapacityExceeded,
		apperr.KindDuplicateVenue, apperr.KindLastVenue, apperr.KindAlreadyVoted,
		apperr.KindAlreadyInvited, apperr.KindNoVenues:
		status = http.StatusConflict
	}
	if kind == apperr.KindUnknown {
		writeError(w, status, "internal error")
		return
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  string(kind),
	})
}
