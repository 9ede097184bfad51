package model

import "testing"

func TestNormalizeCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc123", "ABC123"},
		{"  XYZ789 ", "XYZ789"},
		{"MiXeD0", "MIXED0"},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVenueByIDReturnsMutablePointer(t *testing.T) {
	s := &Session{Venues: []SessionVenue{{VenueID: "v1"}, {VenueID: "v2"}}}

	venue := s.VenueByID("v2")
	if venue == nil {
		t.Fatal("v2 not found")
	}
	venue.VotedBy = append(venue.VotedBy, "alice")
	venue.Votes = 1

	if s.Venues[1].Votes != 1 {
		t.Fatal("mutation through the pointer did not reach the session")
	}
	if s.VenueByID("ghost") != nil {
		t.Fatal("unknown venue id resolved")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := &Session{
		ID:           "s1",
		Participants: []Participant{{UserID: "host", IsHost: true}},
		Invitations:  []Invitation{{ID: "i1", InviteeID: "alice"}},
		Venues:       []SessionVenue{{VenueID: "v1", Votes: 1, VotedBy: []string{"host"}}},
	}

	c := s.Clone()
	c.Participants = append(c.Participants, Participant{UserID: "bob"})
	c.Venues[0].VotedBy[0] = "mallory"
	c.Invitations[0].InviteeID = "eve"

	if len(s.Participants) != 1 {
		t.Fatal("clone shares the participants slice")
	}
	if s.Venues[0].VotedBy[0] != "host" {
		t.Fatal("clone shares a VotedBy slice")
	}
	if s.Invitations[0].InviteeID != "alice" {
		t.Fatal("clone shares the invitations slice")
	}
}

func TestInvitationMatches(t *testing.T) {
	userInv := Invitation{InviteeID: "alice"}
	phoneInv := Invitation{InviteePhone: "+15550100"}

	if !userInv.Matches("alice", "") {
		t.Fatal("user invitation should match its invitee")
	}
	if userInv.Matches("bob", "") || userInv.Matches("", "") {
		t.Fatal("user invitation matched a different or empty ref")
	}
	if !phoneInv.Matches("", "+15550100") {
		t.Fatal("contact invitation should match its phone")
	}
	if phoneInv.Matches("alice", "+15550199") {
		t.Fatal("contact invitation matched a different target")
	}
}
