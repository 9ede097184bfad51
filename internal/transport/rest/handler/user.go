package handler

import (
	"ceezaa-sessions/internal/service"
	"ceezaa-sessions/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// UserHandler serves a user's own session list and invite inbox
type UserHandler struct {
	sessionSvc *service.SessionService
	inviteSvc  *service.InviteService
}

// NewUserHandler creates a new user handler
func NewUserHandler(sessionSvc *service.SessionService, inviteSvc *service.InviteService) *UserHandler {
	return &UserHandler{sessionSvc: sessionSvc, inviteSvc: inviteSvc}
}

// Sessions handles GET /v1/users/{userId}/sessions
func (h *UserHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	userID := mux.Vars(r)["userId"]
	if userID != claims.UserID {
		writeError(w, http.StatusForbidden, "cannot list another user's sessions")
		return
	}

	list, err := h.sessionSvc.ListForUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Invitations handles GET /v1/users/{userId}/invitations
func (h *UserHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	userID := mux.Vars(r)["userId"]
	if userID != claims.UserID {
		writeError(w, http.StatusForbidden, "cannot list another user's invitations")
		return
	}

	views, err := h.inviteSvc.ListInvitations(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invitations": views})
}
