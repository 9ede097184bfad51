package rest

import (
	"ceezaa-sessions/internal/service"
	"ceezaa-sessions/internal/transport/rest/handler"
	"ceezaa-sessions/internal/transport/rest/middleware"
	"ceezaa-sessions/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	SessionService   *service.SessionService
	VenueService     *service.VenueService
	VoteService      *service.VoteService
	ConsensusService *service.ConsensusService
	InviteService    *service.InviteService
	WSHub            *ws.Hub
	AllowedOrigins   []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.VenueService, c.VoteService, c.ConsensusService)
	invitationHandler := handler.NewInvitationHandler(c.InviteService)
	userHandler := handler.NewUserHandler(c.SessionService, c.InviteService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/token", authHandler.Token).Methods("POST")

	// Authenticated routes
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/sessions", sessionHandler.Create).Methods("POST")
	authed.HandleFunc("/sessions/join/{code}", sessionHandler.Join).Methods("POST")
	authed.HandleFunc("/sessions/code/{code}", sessionHandler.GetByCode).Methods("GET")
	authed.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET")
	authed.HandleFunc("/sessions/{id}/venues", sessionHandler.AddVenue).Methods("POST")
	authed.HandleFunc("/sessions/{id}/venues/{venueId}", sessionHandler.RemoveVenue).Methods("DELETE")
	authed.HandleFunc("/sessions/{id}/venues/{venueId}/vote", sessionHandler.Vote).Methods("POST")
	authed.HandleFunc("/sessions/{id}/venues/{venueId}/vote", sessionHandler.Unvote).Methods("DELETE")
	authed.HandleFunc("/sessions/{id}/close", sessionHandler.Close).Methods("POST")
	authed.HandleFunc("/sessions/{id}/cancel", sessionHandler.Cancel).Methods("POST")
	authed.HandleFunc("/sessions/{id}/complete", sessionHandler.Complete).Methods("POST")

	authed.HandleFunc("/sessions/{id}/invitations", invitationHandler.Invite).Methods("POST")
	authed.HandleFunc("/invitations/{id}/accept", invitationHandler.Accept).Methods("POST")
	authed.HandleFunc("/invitations/{id}/decline", invitationHandler.Decline).Methods("POST")
	authed.HandleFunc("/sessions/{id}/participants/{userId}", invitationHandler.RemoveParticipant).Methods("DELETE")

	authed.HandleFunc("/users/{userId}/sessions", userHandler.Sessions).Methods("GET")
	authed.HandleFunc("/users/{userId}/invitations", userHandler.Invitations).Methods("GET")

	// WebSocket session feed (token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	corsMW := cors.New(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return corsMW.Handler(r)
}
