package service

import (
	"ceezaa-sessions/internal/model"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// memSessionRepo is an in-memory stand-in for the Mongo session
// collection. Reads return deep copies, mirroring document decoding.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *memSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

func (r *memSessionRepo) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = model.NormalizeCode(code)
	var settled *model.Session
	for _, s := range r.sessions {
		if s.Code != code {
			continue
		}
		if s.Status == model.SessionVoting {
			return s.Clone(), nil
		}
		settled = s
	}
	if settled != nil {
		return settled.Clone(), nil
	}
	return nil, nil
}

func (r *memSessionRepo) GetByInvitation(ctx context.Context, invitationID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		for _, inv := range s.Invitations {
			if inv.ID == invitationID {
				return s.Clone(), nil
			}
		}
	}
	return nil, nil
}

func (r *memSessionRepo) ListByParticipant(ctx context.Context, userID string) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Session
	for _, s := range r.sessions {
		if s.IsParticipant(userID) {
			out = append(out, s.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memSessionRepo) ListByInvitee(ctx context.Context, userID string) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Session
	for _, s := range r.sessions {
		for _, inv := range s.Invitations {
			if inv.InviteeID == userID {
				out = append(out, s.Clone())
				break
			}
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memSessionRepo) Update(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func sortNewestFirst(sessions []*model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}

// memVenueRepo is an in-memory venue catalog
type memVenueRepo struct {
	mu     sync.Mutex
	venues map[string]*model.Venue
}

func newMemVenueRepo() *memVenueRepo {
	return &memVenueRepo{venues: make(map[string]*model.Venue)}
}

func (r *memVenueRepo) Create(ctx context.Context, venue *model.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := *venue
	r.venues[venue.ID] = &v
	return nil
}

func (r *memVenueRepo) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.venues[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (r *memVenueRepo) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.venues {
		if v.Name == name {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

// memCodeIndex is an in-memory join-code index
type memCodeIndex struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemCodeIndex() *memCodeIndex {
	return &memCodeIndex{codes: make(map[string]string)}
}

func (c *memCodeIndex) Reserve(ctx context.Context, code, sessionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.codes[code]; held {
		return false, nil
	}
	c.codes[code] = sessionID
	return true, nil
}

func (c *memCodeIndex) Lookup(ctx context.Context, code string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[code], nil
}

func (c *memCodeIndex) Release(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.codes, code)
	return nil
}

// memSessionCache is an in-memory snapshot cache
type memSessionCache struct {
	mu        sync.Mutex
	snapshots map[string]*model.Session
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{snapshots: make(map[string]*model.Session)}
}

func (c *memSessionCache) Set(ctx context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[session.ID] = session.Clone()
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.snapshots[id]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

func (c *memSessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, id)
	return nil
}

// recordingNotifier counts events for assertions
type recordingNotifier struct {
	mu      sync.Mutex
	updated int
	closed  int
	invited []string
}

func (n *recordingNotifier) SessionUpdated(*model.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated++
}

func (n *recordingNotifier) VotingClosed(*model.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed++
}

func (n *recordingNotifier) Invited(sessionID, inviteeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invited = append(n.invited, inviteeID)
}

func (n *recordingNotifier) updatedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.updated
}

// testEnv wires the full service layer over in-memory collaborators
type testEnv struct {
	repo      *memSessionRepo
	venues    *memVenueRepo
	codes     *memCodeIndex
	store     *SessionStore
	sessions  *SessionService
	ballot    *VenueService
	votes     *VoteService
	consensus *ConsensusService
	invites   *InviteService
	notifier  *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	env := &testEnv{
		repo:     newMemSessionRepo(),
		venues:   newMemVenueRepo(),
		codes:    newMemCodeIndex(),
		notifier: &recordingNotifier{},
	}
	env.store = NewSessionStore(env.repo, env.codes, newMemSessionCache(), log)
	env.sessions = NewSessionService(env.store, env.venues, log)
	env.ballot = NewVenueService(env.store, env.venues, log)
	env.votes = NewVoteService(env.store, log)
	env.consensus = NewConsensusService(env.store, log)
	env.invites = NewInviteService(env.store, "ceezaa.app", log)

	env.sessions.SetNotifier(env.notifier)
	env.ballot.SetNotifier(env.notifier)
	env.votes.SetNotifier(env.notifier)
	env.consensus.SetNotifier(env.notifier)
	env.invites.SetNotifier(env.notifier)
	return env
}

// seedVenues registers n catalog venues with ids v1..vn
func (e *testEnv) seedVenues(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("v%d", i)
		e.venues.Create(context.Background(), &model.Venue{
			ID:   id,
			Name: fmt.Sprintf("Venue %d", i),
			Type: "restaurant",
		})
		ids = append(ids, id)
	}
	return ids
}

// createSession opens a session hosted by "host" with catalog venues
// v1..vn seeded and on the ballot.
func (e *testEnv) createSession(t *testing.T, venueCount int) *model.Session {
	t.Helper()
	ids := e.seedVenues(t, venueCount)
	in := CreateSessionInput{Title: "Team dinner"}
	for _, id := range ids {
		in.Venues = append(in.Venues, VenueInput{VenueID: id})
	}
	session, err := e.sessions.Create(context.Background(), "host", "Host", in)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

// join admits a user through the session's code
func (e *testEnv) join(t *testing.T, code, userID string) *model.Session {
	t.Helper()
	session, err := e.sessions.JoinByCode(context.Background(), code, userID, userID)
	if err != nil {
		t.Fatalf("join %s: %v", userID, err)
	}
	return session
}
