package model

import "time"

// InvitationStatus tracks an invitation's resolution
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is an offer of participation. Accepted invitations stay
// on the session with their status so a retried accept resolves as a
// no-op; declined ones are removed.
type Invitation struct {
	ID           string           `json:"id" bson:"id"`
	InviterID    string           `json:"inviterId" bson:"inviterId"`
	InviteeID    string           `json:"inviteeId,omitempty" bson:"inviteeId,omitempty"`
	InviteePhone string           `json:"inviteePhone,omitempty" bson:"inviteePhone,omitempty"`
	Status       InvitationStatus `json:"status" bson:"status"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
}

// Matches reports whether the invitation targets the given ref,
// either as a user id or a raw contact.
func (i *Invitation) Matches(userID, phone string) bool {
	if userID != "" && i.InviteeID == userID {
		return true
	}
	if phone != "" && i.InviteePhone == phone {
		return true
	}
	return false
}

// InvitationView is a pending invitation enriched for the invitee's inbox
type InvitationView struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"sessionId"`
	SessionTitle     string    `json:"sessionTitle"`
	SessionDate      string    `json:"sessionDate,omitempty"`
	InviterName      string    `json:"inviterName"`
	ParticipantCount int       `json:"participantCount"`
	VenueCount       int       `json:"venueCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// InviteResult summarizes a batch invite
type InviteResult struct {
	Sent     int    `json:"sent"`
	Failed   int    `json:"failed"`
	DeepLink string `json:"deepLink,omitempty"`
}
