package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"context"

	"github.com/rs/zerolog"
)

// VoteService is the voting engine. Voting is approval style: a
// participant may hold votes on several venues at once, but at most
// one vote per venue. Vote counts are maintained here and nowhere
// else, so Votes == len(VotedBy) always holds.
type VoteService struct {
	store    *SessionStore
	log      zerolog.Logger
	notifier Notifier
}

// NewVoteService creates a new vote service
func NewVoteService(store *SessionStore, log zerolog.Logger) *VoteService {
	return &VoteService{
		store: store,
		log:   log.With().Str("component", "votes").Logger(),
	}
}

// SetNotifier sets the notifier for tally changes
func (s *VoteService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Vote records a vote for a venue
func (s *VoteService) Vote(ctx context.Context, sessionID, venueID, userID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "voting is closed").In(sess.ID)
		}
		if !sess.IsParticipant(userID) {
			return apperr.New(apperr.KindNotParticipant, "only participants can vote").In(sess.ID).WithRef(userID)
		}
		venue := sess.VenueByID(venueID)
		if venue == nil {
			return apperr.New(apperr.KindNotFound, "venue not on the ballot").In(sess.ID).WithRef(venueID)
		}
		if venue.HasVoted(userID) {
			return apperr.New(apperr.KindAlreadyVoted, "vote already recorded").In(sess.ID).WithRef(venueID)
		}
		venue.VotedBy = append(venue.VotedBy, userID)
		venue.Votes = len(venue.VotedBy)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}

// Unvote retracts a vote. Retracting a vote that was never cast (or
// already retracted by a retry) succeeds without changing anything.
func (s *VoteService) Unvote(ctx context.Context, sessionID, venueID, userID string) (*model.Session, error) {
	changed := false
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "voting is closed").In(sess.ID)
		}
		venue := sess.VenueByID(venueID)
		if venue == nil {
			return apperr.New(apperr.KindNotFound, "venue not on the ballot").In(sess.ID).WithRef(venueID)
		}
		for i, id := range venue.VotedBy {
			if id == userID {
				venue.VotedBy = append(venue.VotedBy[:i], venue.VotedBy[i+1:]...)
				venue.Votes = len(venue.VotedBy)
				changed = true
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed && s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}
