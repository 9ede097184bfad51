package handler

import (
	"ceezaa-sessions/internal/service"
	"ceezaa-sessions/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler handles session lifecycle and ballot endpoints
type SessionHandler struct {
	sessionSvc   *service.SessionService
	venueSvc     *service.VenueService
	voteSvc      *service.VoteService
	consensusSvc *service.ConsensusService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, venueSvc *service.VenueService, voteSvc *service.VoteService, consensusSvc *service.ConsensusService) *SessionHandler {
	return &SessionHandler{
		sessionSvc:   sessionSvc,
		venueSvc:     venueSvc,
		voteSvc:      voteSvc,
		consensusSvc: consensusSvc,
	}
}

// VenueRequest references a venue by catalog id or ad-hoc name
type VenueRequest struct {
	VenueID   string `json:"venueId,omitempty"`
	VenueName string `json:"venueName,omitempty"`
	VenueType string `json:"venueType,omitempty"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Title       string         `json:"title"`
	PlannedDate string         `json:"plannedDate,omitempty"`
	PlannedTime string         `json:"plannedTime,omitempty"`
	Venues      []VenueRequest `json:"venues"`
}

func venueInputs(reqs []VenueRequest) []service.VenueInput {
	ins := make([]service.VenueInput, len(reqs))
	for i, r := range reqs {
		ins[i] = service.VenueInput{VenueID: r.VenueID, VenueName: r.VenueName, VenueType: r.VenueType}
	}
	return ins
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	for _, v := range req.Venues {
		if v.VenueID == "" && v.VenueName == "" {
			writeError(w, http.StatusBadRequest, "each venue needs venueId or venueName")
			return
		}
	}

	session, err := h.sessionSvc.Create(r.Context(), claims.UserID, claims.DisplayName, service.CreateSessionInput{
		Title:       req.Title,
		PlannedDate: req.PlannedDate,
		PlannedTime: req.PlannedTime,
		Venues:      venueInputs(req.Venues),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GetByCode handles GET /v1/sessions/code/{code}
func (h *SessionHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Join handles POST /v1/sessions/join/{code}
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	session, err := h.sessionSvc.JoinByCode(r.Context(), mux.Vars(r)["code"], claims.UserID, claims.DisplayName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// AddVenue handles POST /v1/sessions/{id}/venues
func (h *SessionHandler) AddVenue(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	var req VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VenueID == "" && req.VenueName == "" {
		writeError(w, http.StatusBadRequest, "venueId or venueName is required")
		return
	}

	session, err := h.venueSvc.AddVenue(r.Context(), mux.Vars(r)["id"], claims.UserID, service.VenueInput{
		VenueID:   req.VenueID,
		VenueName: req.VenueName,
		VenueType: req.VenueType,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// RemoveVenue handles DELETE /v1/sessions/{id}/venues/{venueId}
func (h *SessionHandler) RemoveVenue(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	vars := mux.Vars(r)

	session, err := h.venueSvc.RemoveVenue(r.Context(), vars["id"], vars["venueId"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Vote handles POST /v1/sessions/{id}/venues/{venueId}/vote
func (h *SessionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	vars := mux.Vars(r)

	session, err := h.voteSvc.Vote(r.Context(), vars["id"], vars["venueId"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Unvote handles DELETE /v1/sessions/{id}/venues/{venueId}/vote
func (h *SessionHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())
	vars := mux.Vars(r)

	session, err := h.voteSvc.Unvote(r.Context(), vars["id"], vars["venueId"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Close handles POST /v1/sessions/{id}/close
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	session, err := h.consensusSvc.CloseVoting(r.Context(), mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Cancel handles POST /v1/sessions/{id}/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	session, err := h.sessionSvc.Cancel(r.Context(), mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Complete handles POST /v1/sessions/{id}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUser(r.Context())

	session, err := h.sessionSvc.Complete(r.Context(), mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
