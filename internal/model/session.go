package model

import (
	"strings"
	"time"
)

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	SessionVoting    SessionStatus = "voting"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// MaxVenues caps the ballot size of a session
const MaxVenues = 10

// Session is a group dining decision under negotiation
type Session struct {
	ID           string         `json:"id" bson:"_id"`
	Code         string         `json:"code" bson:"code"` // stored upper-case
	Title        string         `json:"title" bson:"title"`
	PlannedDate  string         `json:"plannedDate,omitempty" bson:"plannedDate,omitempty"`
	PlannedTime  string         `json:"plannedTime,omitempty" bson:"plannedTime,omitempty"`
	Status       SessionStatus  `json:"status" bson:"status"`
	HostID       string         `json:"hostId" bson:"hostId"`
	Participants []Participant  `json:"participants" bson:"participants"`
	Invitations  []Invitation   `json:"invitations" bson:"invitations"`
	Venues       []SessionVenue `json:"venues" bson:"venues"`
	WinnerID     string         `json:"winnerId,omitempty" bson:"winnerId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
}

// Participant is a user admitted to a session
type Participant struct {
	UserID      string    `json:"userId" bson:"userId"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	IsHost      bool      `json:"isHost" bson:"isHost"`
	JoinedAt    time.Time `json:"joinedAt" bson:"joinedAt"`
}

// SessionVenue is a venue under consideration, with its vote tally.
// Votes always equals len(VotedBy); both are mutated only by the
// voting engine.
type SessionVenue struct {
	VenueID   string   `json:"venueId" bson:"venueId"`
	VenueName string   `json:"venueName" bson:"venueName"`
	VenueType string   `json:"venueType,omitempty" bson:"venueType,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Votes     int      `json:"votes" bson:"votes"`
	VotedBy   []string `json:"votedBy" bson:"votedBy"`
}

// NormalizeCode upper-cases a join code for case-insensitive compare
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsParticipant reports whether the user is a member of the session
func (s *Session) IsParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// VenueByID returns the session venue with the given id, or nil
func (s *Session) VenueByID(venueID string) *SessionVenue {
	for i := range s.Venues {
		if s.Venues[i].VenueID == venueID {
			return &s.Venues[i]
		}
	}
	return nil
}

// HasVoted reports whether the user already holds a vote on this venue
func (v *SessionVenue) HasVoted(userID string) bool {
	for _, id := range v.VotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hold a snapshot outside the
// store's per-session critical section.
func (s *Session) Clone() *Session {
	c := *s
	c.Participants = append([]Participant(nil), s.Participants...)
	c.Invitations = append([]Invitation(nil), s.Invitations...)
	c.Venues = make([]SessionVenue, len(s.Venues))
	for i, v := range s.Venues {
		v.VotedBy = append([]string(nil), v.VotedBy...)
		c.Venues[i] = v
	}
	return &c
}

// SessionListItem is the compact shape for a user's session list
type SessionListItem struct {
	ID               string        `json:"id"`
	Code             string        `json:"code"`
	Title            string        `json:"title"`
	PlannedDate      string        `json:"plannedDate,omitempty"`
	Status           SessionStatus `json:"status"`
	ParticipantCount int           `json:"participantCount"`
	VenueCount       int           `json:"venueCount"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// SessionList splits a user's sessions into in-flight and settled
type SessionList struct {
	Active []SessionListItem `json:"active"`
	Past   []SessionListItem `json:"past"`
}
