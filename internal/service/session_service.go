package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"ceezaa-sessions/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateSessionInput carries everything needed to open a session
type CreateSessionInput struct {
	Title       string
	PlannedDate string
	PlannedTime string
	Venues      []VenueInput
}

// VenueInput references a venue either by catalog id or by an ad-hoc
// name/type pair (a vault place not yet in the catalog).
type VenueInput struct {
	VenueID   string
	VenueName string
	VenueType string
}

// SessionService handles session lifecycle: create, lookup, join by
// code, and the cancel/complete housekeeping transitions.
type SessionService struct {
	store    *SessionStore
	venues   repository.VenueRepo
	log      zerolog.Logger
	notifier Notifier
}

// NewSessionService creates a new session service
func NewSessionService(store *SessionStore, venues repository.VenueRepo, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		venues: venues,
		log:    log.With().Str("component", "sessions").Logger(),
	}
}

// SetNotifier sets the notifier for session events
func (s *SessionService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create opens a new session with the caller as host. A session always
// starts with at least one venue on the ballot; the ballot is capped
// at MaxVenues.
func (s *SessionService) Create(ctx context.Context, hostID, hostName string, in CreateSessionInput) (*model.Session, error) {
	if len(in.Venues) == 0 {
		return nil, apperr.New(apperr.KindNoVenues, "a session needs at least one venue")
	}
	if len(in.Venues) > model.MaxVenues {
		return nil, apperr.New(apperr.KindCapacityExceeded, fmt.Sprintf("a session holds at most %d venues", model.MaxVenues))
	}

	// Catalog lookups happen before the session exists, never under
	// its lock.
	venues := make([]model.SessionVenue, 0, len(in.Venues))
	for _, vin := range in.Venues {
		sv, err := resolveVenue(ctx, s.venues, vin)
		if err != nil {
			return nil, err
		}
		for _, existing := range venues {
			if existing.VenueID == sv.VenueID {
				return nil, apperr.New(apperr.KindDuplicateVenue, "venue already on the ballot").WithRef(sv.VenueID)
			}
		}
		venues = append(venues, sv)
	}

	now := time.Now()
	session := &model.Session{
		ID:          uuid.New().String(),
		Title:       in.Title,
		PlannedDate: in.PlannedDate,
		PlannedTime: in.PlannedTime,
		Status:      model.SessionVoting,
		HostID:      hostID,
		Participants: []model.Participant{{
			UserID:      hostID,
			DisplayName: hostName,
			IsHost:      true,
			JoinedAt:    now,
		}},
		Invitations: []model.Invitation{},
		Venues:      venues,
		CreatedAt:   now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info().Str("session", session.ID).Str("code", session.Code).Str("host", hostID).Msg("session created")
	return session, nil
}

// Get returns a session snapshot by id
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.store.Get(ctx, id)
}

// GetByCode returns a session snapshot by join code
func (s *SessionService) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	return s.store.GetByCode(ctx, code)
}

// JoinByCode admits a user via join code. Rejoining is a no-op, not an
// error, so clients can retry freely on flaky connections.
func (s *SessionService) JoinByCode(ctx context.Context, code, userID, displayName string) (*model.Session, error) {
	found, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindInvalidCode, "no session with that code").WithRef(model.NormalizeCode(code))
		}
		return nil, err
	}

	joined := false
	session, err := s.store.Mutate(ctx, found.ID, func(sess *model.Session) error {
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindSessionClosed, "session is no longer accepting participants").In(sess.ID)
		}
		if sess.IsParticipant(userID) {
			return nil
		}
		sess.Participants = append(sess.Participants, model.Participant{
			UserID:      userID,
			DisplayName: displayName,
			JoinedAt:    time.Now(),
		})
		// A pending invitation to this user is settled by the join.
		for i := range sess.Invitations {
			if sess.Invitations[i].InviteeID == userID && sess.Invitations[i].Status == model.InvitationPending {
				sess.Invitations[i].Status = model.InvitationAccepted
				break
			}
		}
		joined = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if joined && s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}

// Cancel abandons a voting session. Host only; terminal.
func (s *SessionService) Cancel(ctx context.Context, sessionID, actingUserID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HostID != actingUserID {
			return apperr.New(apperr.KindForbidden, "only the host can cancel a session").In(sess.ID)
		}
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "only a voting session can be cancelled").In(sess.ID)
		}
		sess.Status = model.SessionCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", sessionID).Msg("session cancelled")
	if s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}

// Complete marks a confirmed session as held. Host only; terminal.
func (s *SessionService) Complete(ctx context.Context, sessionID, actingUserID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HostID != actingUserID {
			return apperr.New(apperr.KindForbidden, "only the host can complete a session").In(sess.ID)
		}
		if sess.Status != model.SessionConfirmed {
			return apperr.New(apperr.KindInvalidState, "only a confirmed session can be completed").In(sess.ID)
		}
		sess.Status = model.SessionCompleted
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

// ListForUser returns the user's sessions split into active and past
func (s *SessionService) ListForUser(ctx context.Context, userID string) (*model.SessionList, error) {
	sessions, err := s.store.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &model.SessionList{
		Active: []model.SessionListItem{},
		Past:   []model.SessionListItem{},
	}
	for _, sess := range sessions {
		item := model.SessionListItem{
			ID:               sess.ID,
			Code:             sess.Code,
			Title:            sess.Title,
			PlannedDate:      sess.PlannedDate,
			Status:           sess.Status,
			ParticipantCount: len(sess.Participants),
			VenueCount:       len(sess.Venues),
			CreatedAt:        sess.CreatedAt,
		}
		if sess.Status == model.SessionVoting {
			list.Active = append(list.Active, item)
		} else {
			list.Past = append(list.Past, item)
		}
	}
	return list, nil
}

// resolveVenue turns a venue reference into a denormalized snapshot.
// Catalog ids are looked up; ad-hoc names reuse a same-named catalog
// entry or create one. The snapshot is frozen at proposal time.
func resolveVenue(ctx context.Context, venues repository.VenueRepo, in VenueInput) (model.SessionVenue, error) {
	if in.VenueID != "" {
		venue, err := venues.GetByID(ctx, in.VenueID)
		if err != nil {
			return model.SessionVenue{}, fmt.Errorf("lookup venue: %w", err)
		}
		if venue != nil {
			return snapshotOf(venue), nil
		}
		if in.VenueName == "" {
			return model.SessionVenue{}, apperr.New(apperr.KindNotFound, "venue not in catalog").WithRef(in.VenueID)
		}
	}

	if in.VenueName == "" {
		return model.SessionVenue{}, apperr.New(apperr.KindNotFound, "venue reference required")
	}

	venue, err := venues.GetByName(ctx, in.VenueName)
	if err != nil {
		return model.SessionVenue{}, fmt.Errorf("lookup venue by name: %w", err)
	}
	if venue == nil {
		venue = &model.Venue{
			ID:   uuid.New().String(),
			Name: in.VenueName,
			Type: in.VenueType,
		}
		if err := venues.Create(ctx, venue); err != nil {
			return model.SessionVenue{}, fmt.Errorf("create venue: %w", err)
		}
	}
	return snapshotOf(venue), nil
}

func snapshotOf(v *model.Venue) model.SessionVenue {
	return model.SessionVenue{
		VenueID:   v.ID,
		VenueName: v.Name,
		VenueType: v.Type,
		PhotoURL:  v.PhotoURL,
		Votes:     0,
		VotedBy:   []string{},
	}
}
