package handler

import (
	"ceezaa-sessions/internal/service"
	"ceezaa-sessions/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// InvitationHandler handles invitation and membership endpoints
type InvitationHandler struct {
	inviteSvc *service.InviteService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(inviteSvc *service.InviteService) *InvitationHandler {
	return &InvitationHandler{inviteSvc: inviteSvc}
}

// InviteRequest is the request body for sending invitations
type InviteRequest struct {
	UserIDs      []string `json:"userIds,omitempty"`
	PhoneNumbers []string `json:"phoneNumbers,omitempty"`
}

// Invite handles POST /v1/sessions/{id}/invitations
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.UserIDs) == 0 && len(req.PhoneNumbers) == 0 {
		writeError(w, http.StatusBadRequest, "userIds or phoneNumbers is required")
		return
	}

	result, err := h.inviteSvc.InviteBatch(r.Context(), mux.Vars(r)["id"], claims.UserID, req.UserIDs, req.PhoneNumbers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Accept handles POST /v1/invitations/{id}/accept
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	session, err := h.inviteSvc.AcceptInvite(r.Context(), mux.Vars(r)["id"], claims.UserID, claims.DisplayName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Decline handles POST /v1/invitations/{id}/decline
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	if err := h.inviteSvc.DeclineInvite(r.Context(), mux.Vars(r)["id"], claims.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RemoveParticipant handles DELETE /v1/sessions/{id}/participants/{userId}
func (h *InvitationHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	vars := mux.Vars(r)

	session, err := h.inviteSvc.RemoveParticipant(r.Context(), vars["id"], claims.UserID, vars["userId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
