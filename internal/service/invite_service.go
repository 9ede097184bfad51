package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InviteeRef targets an invitation at either a known user or a raw
// contact (phone number) outside the app.
type InviteeRef struct {
	UserID string
	Phone  string
}

// InviteService manages invitations and participant membership
type InviteService struct {
	store    *SessionStore
	appHost  string
	log      zerolog.Logger
	notifier Notifier
}

// NewInviteService creates a new invite service. appHost is used to
// build join deep links for contact invites.
func NewInviteService(store *SessionStore, appHost string, log zerolog.Logger) *InviteService {
	return &InviteService{
		store:   store,
		appHost: appHost,
		log:     log.With().Str("component", "invites").Logger(),
	}
}

// SetNotifier sets the notifier for invitation events
func (s *InviteService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Invite creates a pending invitation. Host only. Inviting someone who
// already joined is a no-op; a duplicate pending invitation to the
// same target is rejected. The bool reports whether an invitation was
// actually created.
func (s *InviteService) Invite(ctx context.Context, sessionID, actingUserID string, ref InviteeRef) (*model.Session, bool, error) {
	created := false
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HostID != actingUserID {
			return apperr.New(apperr.KindForbidden, "only the host can send invitations").In(sess.ID)
		}
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "session is no longer accepting invitations").In(sess.ID)
		}
		if ref.UserID != "" && sess.IsParticipant(ref.UserID) {
			return nil
		}
		for _, inv := range sess.Invitations {
			if inv.Status == model.InvitationPending && inv.Matches(ref.UserID, ref.Phone) {
				return apperr.New(apperr.KindAlreadyInvited, "invitation already pending").In(sess.ID).WithRef(ref.UserID + ref.Phone)
			}
		}
		sess.Invitations = append(sess.Invitations, model.Invitation{
			ID:           uuid.New().String(),
			InviterID:    actingUserID,
			InviteeID:    ref.UserID,
			InviteePhone: ref.Phone,
			Status:       model.InvitationPending,
			CreatedAt:    time.Now(),
		})
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created && ref.UserID != "" && s.notifier != nil {
		s.notifier.Invited(sessionID, ref.UserID)
	}
	return session, created, nil
}

// InviteBatch sends invitations to a mix of user ids and phone
// numbers, mirroring the client's contact picker. Targets already
// invited or already participating are skipped. When any phone numbers
// are present the result carries a join deep link for SMS delivery.
func (s *InviteService) InviteBatch(ctx context.Context, sessionID, actingUserID string, userIDs, phones []string) (*model.InviteResult, error) {
	result := &model.InviteResult{}

	refs := make([]InviteeRef, 0, len(userIDs)+len(phones))
	for _, id := range userIDs {
		refs = append(refs, InviteeRef{UserID: id})
	}
	for _, phone := range phones {
		refs = append(refs, InviteeRef{Phone: phone})
	}

	var session *model.Session
	for _, ref := range refs {
		sess, created, err := s.Invite(ctx, sessionID, actingUserID, ref)
		switch apperr.KindOf(err) {
		case apperr.KindUnknown:
			if err != nil {
				result.Failed++
				continue
			}
			session = sess
			if created {
				result.Sent++
			}
		case apperr.KindAlreadyInvited:
			// Retried or doubled-up invite; not a failure.
		default:
			// Forbidden, closed session, missing session: the whole
			// batch is rejected, not just one target.
			return nil, err
		}
	}

	if len(phones) > 0 {
		if session == nil {
			sess, err := s.store.Get(ctx, sessionID)
			if err != nil {
				return nil, err
			}
			session = sess
		}
		result.DeepLink = fmt.Sprintf("https://%s/join/%s", s.appHost, session.Code)
	}
	return result, nil
}

// AcceptInvite resolves a pending invitation and admits the invitee.
// The invitation stays on the session marked accepted, so a client
// retrying after a timeout gets a no-op success instead of NotFound.
func (s *InviteService) AcceptInvite(ctx context.Context, invitationID, userID, displayName string) (*model.Session, error) {
	found, err := s.store.FindByInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	accepted := false
	session, err := s.store.Mutate(ctx, found.ID, func(sess *model.Session) error {
		idx := invitationIndex(sess, invitationID)
		if idx < 0 {
			return apperr.New(apperr.KindNotFound, "invitation not found").In(sess.ID).WithRef(invitationID)
		}
		inv := &sess.Invitations[idx]
		// Contact invites are accepted through the join deep link,
		// not by id.
		if inv.InviteeID == "" || inv.InviteeID != userID {
			return apperr.New(apperr.KindForbidden, "invitation addressed to someone else").In(sess.ID).WithRef(invitationID)
		}
		if inv.Status == model.InvitationAccepted {
			return nil
		}
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindSessionClosed, "session is no longer accepting participants").In(sess.ID)
		}
		inv.Status = model.InvitationAccepted
		if !sess.IsParticipant(userID) {
			sess.Participants = append(sess.Participants, model.Participant{
				UserID:      userID,
				DisplayName: displayName,
				JoinedAt:    time.Now(),
			})
		}
		accepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if accepted {
		s.log.Info().Str("session", session.ID).Str("user", userID).Msg("invitation accepted")
		if s.notifier != nil {
			s.notifier.SessionUpdated(session)
		}
	}
	return session, nil
}

// DeclineInvite resolves a pending invitation without admitting the
// invitee. Resolved invitations are never resurrected.
func (s *InviteService) DeclineInvite(ctx context.Context, invitationID, userID string) error {
	found, err := s.store.FindByInvitation(ctx, invitationID)
	if err != nil {
		return err
	}

	_, err = s.store.Mutate(ctx, found.ID, func(sess *model.Session) error {
		idx := invitationIndex(sess, invitationID)
		if idx < 0 {
			return apperr.New(apperr.KindNotFound, "invitation not found").In(sess.ID).WithRef(invitationID)
		}
		if sess.Invitations[idx].InviteeID != userID {
			return apperr.New(apperr.KindForbidden, "invitation addressed to someone else").In(sess.ID).WithRef(invitationID)
		}
		if sess.Invitations[idx].Status == model.InvitationAccepted {
			return apperr.New(apperr.KindInvalidState, "invitation already accepted").In(sess.ID).WithRef(invitationID)
		}
		sess.Invitations = append(sess.Invitations[:idx], sess.Invitations[idx+1:]...)
		return nil
	})
	return err
}

// RemoveParticipant expels a member. Host only; the host cannot be
// removed. Every vote the member held is struck from the tallies.
func (s *InviteService) RemoveParticipant(ctx context.Context, sessionID, actingUserID, targetUserID string) (*model.Session, error) {
	session, err := s.store.Mutate(ctx, sessionID, func(sess *model.Session) error {
		if sess.HostID != actingUserID {
			return apperr.New(apperr.KindForbidden, "only the host can remove participants").In(sess.ID)
		}
		if targetUserID == sess.HostID {
			return apperr.New(apperr.KindCannotRemoveHost, "the host cannot be removed").In(sess.ID)
		}
		if sess.Status != model.SessionVoting {
			return apperr.New(apperr.KindInvalidState, "membership is frozen once voting closes").In(sess.ID)
		}
		idx := -1
		for i := range sess.Participants {
			if sess.Participants[i].UserID == targetUserID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.New(apperr.KindNotFound, "participant not found").In(sess.ID).WithRef(targetUserID)
		}
		sess.Participants = append(sess.Participants[:idx], sess.Participants[idx+1:]...)
		// Drop the member's invitation record too, so a later
		// re-invite starts clean.
		for i := len(sess.Invitations) - 1; i >= 0; i-- {
			if sess.Invitations[i].InviteeID == targetUserID {
				sess.Invitations = append(sess.Invitations[:i], sess.Invitations[i+1:]...)
			}
		}
		for i := range sess.Venues {
			venue := &sess.Venues[i]
			for j, id := range venue.VotedBy {
				if id == targetUserID {
					venue.VotedBy = append(venue.VotedBy[:j], venue.VotedBy[j+1:]...)
					break
				}
			}
			venue.Votes = len(venue.VotedBy)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", sessionID).Str("user", targetUserID).Msg("participant removed")
	if s.notifier != nil {
		s.notifier.SessionUpdated(session)
	}
	return session, nil
}

// ListInvitations returns the user's pending invitations, enriched for
// the invite inbox. Invitations whose session already left voting are
// filtered out rather than shown as dead entries.
func (s *InviteService) ListInvitations(ctx context.Context, userID string) ([]model.InvitationView, error) {
	sessions, err := s.store.ListByInvitee(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := []model.InvitationView{}
	for _, sess := range sessions {
		if sess.Status != model.SessionVoting {
			continue
		}
		for _, inv := range sess.Invitations {
			if inv.InviteeID != userID || inv.Status != model.InvitationPending {
				continue
			}
			views = append(views, model.InvitationView{
				ID:               inv.ID,
				SessionID:        sess.ID,
				SessionTitle:     sess.Title,
				SessionDate:      sess.PlannedDate,
				InviterName:      displayNameOf(sess, inv.InviterID),
				ParticipantCount: len(sess.Participants),
				VenueCount:       len(sess.Venues),
				CreatedAt:        inv.CreatedAt,
			})
		}
	}
	return views, nil
}

func invitationIndex(sess *model.Session, invitationID string) int {
	for i := range sess.Invitations {
		if sess.Invitations[i].ID == invitationID {
			return i
		}
	}
	return -1
}

func displayNameOf(sess *model.Session, userID string) string {
	for _, p := range sess.Participants {
		if p.UserID == userID {
			return p.DisplayName
		}
	}
	return ""
}
