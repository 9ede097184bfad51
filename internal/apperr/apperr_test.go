package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(KindNotFound, "venue not on the ballot").WithRef("v9")
	want := "NOT_FOUND: venue not on the ballot (v9)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}

	bare := New(KindForbidden, "host only")
	if bare.Error() != "FORBIDDEN: host only" {
		t.Fatalf("Error() = %q", bare.Error())
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := New(KindAlreadyVoted, "vote already recorded").In("s1").WithRef("v1")

	if !errors.Is(err, New(KindAlreadyVoted, "")) {
		t.Fatal("errors.Is should match on kind alone")
	}
	if errors.Is(err, New(KindNotFound, "")) {
		t.Fatal("errors.Is matched across kinds")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", errors.New("boom"), KindUnknown},
		{"domain error", New(KindLastVenue, "cannot remove"), KindLastVenue},
		{"wrapped once", fmt.Errorf("mutate: %w", New(KindSessionClosed, "closed")), KindSessionClosed},
		{"wrapped twice", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", New(KindInvalidCode, "bad code"))), KindInvalidCode},
		{"domain wrapping plain", Wrap(KindNotFound, "load", errors.New("io")), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindUnknown, "persist session", cause)

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost from the chain")
	}
}
