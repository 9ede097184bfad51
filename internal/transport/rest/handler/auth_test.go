package handler

import (
	"ceezaa-sessions/internal/apperr"
	"ceezaa-sessions/internal/model"
	"ceezaa-sessions/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTokenEndpoint(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService("test-secret"))

	body := `{"userId":"user-1","displayName":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp model.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.UserID != "user-1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestTokenEndpointRejectsMissingUser(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperr.New(apperr.KindNotFound, "gone"), http.StatusNotFound},
		{"invalid code", apperr.New(apperr.KindInvalidCode, "bad code"), http.StatusNotFound},
		{"forbidden", apperr.New(apperr.KindForbidden, "host only"), http.StatusForbidden},
		{"cannot remove host", apperr.New(apperr.KindCannotRemoveHost, "host stays"), http.StatusForbidden},
		{"session closed", apperr.New(apperr.KindSessionClosed, "closed"), http.StatusConflict},
		{"capacity", apperr.New(apperr.KindCapacityExceeded, "full"), http.StatusConflict},
		{"already voted", apperr.New(apperr.KindAlreadyVoted, "recorded"), http.StatusConflict},
		{"last venue", apperr.New(apperr.KindLastVenue, "keep one"), http.StatusConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["error"] == "" {
				t.Error("missing error message")
			}
			if tt.status == http.StatusInternalServerError {
				// Internals are not leaked to clients
				if body["error"] != "internal error" {
					t.Errorf("error = %q, want opaque message", body["error"])
				}
			} else if body["kind"] == "" {
				t.Error("missing kind")
			}
		})
	}
}
