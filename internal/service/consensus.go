package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"context"

	"github.com/rs/zerolog"
)

// ConsensusService closes voting and settles the winner. The winner is
// the venue with the most votes; on a tie the earliest-proposed venue
// wins, so every client derives the same outcome from the same state.
type ConsensusService struct {
	store    *SessionStore
	log      zerolog.Logger
	notifier Notifier
}

// NewConsensusService creates a new consensus service
func NewConsensusService(store *SessionStore, log zerolog.Logger) *ConsensusService {
	return &ConsensusService{
		store: store,
		log:   log.With().Str("component", "consensus").Logger(),
	}
}

// SetNotifier sets the notifier for closure events
func (s *ConsensusService) SetNotifier(n Notifier) {
	s.notifier = n
}

// CloseVoting freezes the session and records the winner. Host only.
// After this, venue and vote mutations fail with InvalidState.
func (s *ConsensusService) CloseVoting(ctx context.Context, sessionID, actingUserID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HostID != actingUserID {
			return apperr.New(apperr.KindForbidden, "only the host can close voting").In(sess.ID)
		}
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "session is not voting").In(sess.ID)
		}
		// Unreachable while the ballot invariants hold, but a session
		// with no venues has no defined winner.
		if len(sess.Venues) == 0 {
			return apperr.New(apperr.KindNoVenues, "no venues to decide between").In(sess.ID)
		}
		sess.WinnerID = pickWinner(sess.Venues)
		sess.Status = model.SessionConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", sessionID).Str("winner", session.WinnerID).Msg("voting closed")
	if s.notifier != nil {
		s.notifier.VotingClosed(session)
	}
	return session, nil
}

// pickWinner selects the venue with the most votes, keeping the
// earliest-proposed one on ties.
func pickWinner(venues []model.SessionVenue) string {
	winner := 0
	for i := 1; i < len(venues); i++ {
		if venues[i].Votes > venues[winner].Votes {
			winner = i
		}
	}
	return venues[winner].VenueID
}
