package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/cache"
	"ceezaa-sessions/internal/model"
	"ceezaa-sessions/internal/repository"
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	codeAttempts = 10
)

// SessionStore owns all session state. Every mutation passes through
// Mutate, which serializes writes per session id: concurrent votes,
// venue changes and a close against the same session apply one at a
// time, while different sessions proceed in parallel.
type SessionStore struct {
	repo      repository.SessionRepo
	codes     cache.CodeIndex
	snapshots cache.SessionCache
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is a reference-counted per-session mutex. The map entry
// is dropped once the last holder releases it, so the registry stays
// bounded by the number of in-flight mutations.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionStore creates a new session store
func NewSessionStore(repo repository.SessionRepo, codes cache.CodeIndex, snapshots cache.SessionCache, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		repo:      repo,
		codes:     codes,
		snapshots: snapshots,
		log:       log.With().Str("component", "store").Logger(),
		locks:     make(map[string]*sessionLock),
	}
}

func (s *SessionStore) acquire(id string) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *SessionStore) release(id string, l *sessionLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()
}

// Create persists a new session, generating a join code that is unique
// among active sessions (retried on collision).
func (s *SessionStore) Create(ctx context.Context, session *model.Session) error {
	code, err := s.claimCode(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Code = code

	if err := s.repo.Create(ctx, session); err != nil {
		if relErr := s.codes.Release(ctx, code); relErr != nil {
			s.log.Warn().Err(relErr).Str("code", code).Msg("release code after failed create")
		}
		return fmt.Errorf("create session: %w", err)
	}
	s.cacheSnapshot(ctx, session)
	return nil
}

// claimCode draws random codes until one reserves cleanly
func (s *SessionStore) claimCode(ctx context.Context, sessionID string) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		// The redis index is the fast path; the repo check covers
		// codes that outlived their index entry.
		ok, err := s.codes.Reserve(ctx, code, sessionID)
		if err != nil {
			return "", fmt.Errorf("reserve code: %w", err)
		}
		if !ok {
			continue
		}
		existing, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if existing != nil && existing.Status == model.SessionVoting {
			if relErr := s.codes.Release(ctx, code); relErr != nil {
				s.log.Warn().Err(relErr).Str("code", code).Msg("release colliding code")
			}
			continue
		}
		return code, nil
	}
	return "", fmt.Errorf("failed to generate unique session code")
}

func randomCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(code), nil
}

// Get returns a session snapshot by id
func (s *SessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	if cached, err := s.snapshots.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("session", id).Msg("snapshot cache read")
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "session not found").WithRef(id)
	}
	s.cacheSnapshot(ctx, session)
	return session, nil
}

// GetByCode resolves a join code case-insensitively
func (s *SessionStore) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	code = model.NormalizeCode(code)

	if id, err := s.codes.Lookup(ctx, code); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("code index read")
	} else if id != "" {
		return s.Get(ctx, id)
	}

	// Index miss: the entry may have expired while the session is
	// still live, so fall back to the repo and re-reserve.
	session, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get session by code: %w", err)
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "no session with that code").WithRef(code)
	}
	if session.Status == model.SessionVoting {
		if _, err := s.codes.Reserve(ctx, code, session.ID); err != nil {
			s.log.Warn().Err(err).Str("code", code).Msg("reindex code")
		}
	}
	return session, nil
}

// ListByParticipant returns every session the user belongs to, newest first
func (s *SessionStore) ListByParticipant(ctx context.Context, userID string) ([]*model.Session, error) {
	return s.repo.ListByParticipant(ctx, userID)
}

// ListByInvitee returns sessions holding an invitation for the user
func (s *SessionStore) ListByInvitee(ctx context.Context, userID string) ([]*model.Session, error) {
	return s.repo.ListByInvitee(ctx, userID)
}

// FindByInvitation resolves the session holding a pending invitation
func (s *SessionStore) FindByInvitation(ctx context.Context, invitationID string) (*model.Session, error) {
	session, err := s.repo.GetByInvitation(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "invitation not found").WithRef(invitationID)
	}
	return session, nil
}

// Mutate runs fn against the current session state under the
// per-session lock and persists the result. fn must not block on
// external collaborators; resolve catalog lookups before calling. If
// fn returns an error nothing is written.
func (s *SessionStore) Mutate(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	l := s.acquire(id)
	defer s.release(id, l)

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, apperr.New(apperr.KindNotFound, "session not found").WithRef(id)
	}

	prevStatus := session.Status
	if err := fn(session); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	if prevStatus == model.SessionVoting && session.Status != model.SessionVoting {
		if err := s.codes.Release(ctx, session.Code); err != nil {
			s.log.Warn().Err(err).Str("code", session.Code).Msg("release code")
		}
	}
	s.cacheSnapshot(ctx, session)
	return session, nil
}

func (s *SessionStore) cacheSnapshot(ctx context.Context, session *model.Session) {
	if err := s.snapshots.Set(ctx, session); err != nil {
		s.log.Warn().Err(err).Str("session", session.ID).Msg("snapshot cache write")
	}
}
