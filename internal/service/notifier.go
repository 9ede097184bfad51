package service

import "ceezaa-sessions/internal/model"

// Notifier pushes session events to connected clients. Defined here so
// services don't import the transport package (the ws hub implements it).
// Delivery is best effort; no operation depends on it succeeding.
type Notifier interface {
	SessionUpdated(session *model.Session)
	VotingClosed(session *model.Session)
	Invited(sessionID, inviteeID string)
}
