package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"ceezaa-sessions/internal/repository"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// VenueService manages a session's ballot: proposals are capped at
// MaxVenues, unique per venue, and the ballot never drops to zero
// while voting is open.
type VenueService struct {
	store    *SessionStore
	venues   repository.VenueRepo
	log      zerolog.Logger
	notifier Notifier
}

// NewVenueService creates a new venue service
func NewVenueService(store *SessionStore, venues repository.VenueRepo, log zerolog.Logger) *VenueService {
	return &VenueService{
		store:  store,
		venues: venues,
		log:    log.With().Str("component", "venues").Logger(),
	}
}

// SetNotifier sets the notifier for ballot changes
func (s *VenueService) SetNotifier(n Notifier) {
	s.notifier = n
}

// AddVenue proposes a venue. The catalog snapshot is resolved before
// the session lock is taken.
func (s *VenueService) AddVenue(ctx context.Context, sessionID, actingUserID string, in VenueInput) (*model.Session, error) {
	sv, err := resolveVenue(ctx, s.venues, in)
	if err != nil {
		return nil, err
	}

	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "session is no longer accepting venues").In(sess.ID)
		}
		if !sess.IsParticipant(actingUserID) {
			return apperr.New(apperr.KindNotParticipant, "only participants can propose venues").In(sess.ID).WithRef(actingUserID)
		}
		if len(sess.Venues) >= model.MaxVenues {
			return apperr.New(apperr.KindCapacityExceeded, fmt.Sprintf("a session holds at most %d venues", model.MaxVenues)).In(sess.ID)
		}
		if sess.VenueByID(sv.VenueID) != nil {
			return apperr.New(apperr.KindDuplicateVenue, "venue already on the ballot").In(sess.ID).WithRef(sv.VenueID)
		}
		sess.Venues = append(sess.Venues, sv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", sessionID).Str("venue", sv.VenueID).Msg("venue added")
	if s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}

// RemoveVenue withdraws a proposal. Votes cast for it are discarded,
// not reassigned. The last remaining venue cannot be removed.
func (s *VenueService) RemoveVenue(ctx context.Context, sessionID, venueID, actingUserID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "ballot is frozen").In(sess.ID)
		}
		if !sess.IsParticipant(actingUserID) {
			return apperr.New(apperr.KindNotParticipant, "only participants can remove venues").In(sess.ID).WithRef(actingUserID)
		}
		idx := -1
		for i := range sess.Venues {
			if sess.Venues[i].VenueID == venueID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.New(apperr.KindNotFound, "venue not on the ballot").In(sess.ID).WithRef(venueID)
		}
		if len(sess.Venues) == 1 {
			return apperr.New(apperr.KindLastVenue, "cannot remove the only venue").In(sess.ID).WithRef(venueID)
		}
		sess.Venues = append(sess.Venues[:idx], sess.Venues[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", sessionID).Str("venue", venueID).Msg("venue removed")
	if s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}
