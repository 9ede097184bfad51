package service

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"context"
	"testing"
)

func TestCloseVotingPicksMostVoted(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, 3)
	env.join(t, session.Code, "alice")
	env.join(t, session.Code, "bob")

	ctx := context.Background()
	env.votes.Vote(ctx, session.ID, "v2", "host")
	env.votes.Vote(ctx, session.ID, "v2", "alice")
	env.votes.Vote(ctx, session.ID, "v1", "bob")

	closed, err := env.consensus.CloseVoting(ctx, session.ID, "host")
	if err != nil {
		t.Fatalf("close voting: %v", err)
	}
	if closed.Status != model.SessionConfirmed {
		t.Fatalf("status = %v, want confirmed", closed.Status)
	}
	if closed.WinnerID != "v2" {
		t.Fatalf("winner = %q, want v2", closed.WinnerID)
	}
}

func TestCloseVotingTieKeepsEarliestProposal(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, 3)
	env.join(t, session.Code, "alice")

	ctx := context.Background()
	// v2 and v3 tie at one vote each; v2 was proposed first
	env.votes.Vote(ctx, session.ID, "v3", "host")
	env.votes.Vote(ctx, session.ID, "v2", "alice")

	closed, err := env.consensus.CloseVoting(ctx, session.ID, "host")
	if err != nil {
		t.Fatal(err)
	}
	if closed.WinnerID != "v2" {
		t.Fatalf("winner = %q, want earliest-proposed v2", closed.WinnerID)
	}
}

func TestCloseVotingZeroVotes(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, 3)

	closed, err := env.consensus.CloseVoting(context.Background(), session.ID, "host")
	if err != nil {
		t.Fatal(err)
	}
	// All venues tie at zero; the first proposal wins
	if closed.WinnerID != "v1" {
		t.Fatalf("winner = %q, want v1", closed.WinnerID)
	}
}

func TestCloseVotingIsHostOnly(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, 1)
	env.join(t, session.Code, "alice")

	_, err := env.consensus.CloseVoting(context.Background(), session.ID, "alice")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("kind = %v, want Forbidden", apperr.KindOf(err))
	}
}

func TestCloseVotingTwice(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, 1)

	ctx := context.Background()
	if _, err := env.consensus.CloseVoting(ctx, session.ID, "host"); err != nil {
		t.Fatal(err)
	}
	_, err := env.consensus.CloseVoting(ctx, session.ID, "host")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("kind = %v, want InvalidState", apperr.KindOf(err))
	}
}

func TestPickWinner(t *testing.T) {
	tests := []struct {
		name   string
		votes  []int
		winner int
	}{
		{"clear majority", []int{1, 4, 2}, 1},
		{"tie keeps earliest", []int{3, 3, 1}, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"single venue", []int{0}, 0},
		{"late surge", []int{0, 1, 5}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venues := make([]model.SessionVenue, len(tt.votes))
			for i, v := range tt.votes {
				venues[i] = model.SessionVenue{VenueID: string(rune('a' + i)), Votes: v}
			}
			got := pickWinner(venues)
			if got != venues[tt.winner].VenueID {
				t.Errorf("winner = %q, want %q", got, venues[tt.winner].VenueID)
			}
		})
	}
}
