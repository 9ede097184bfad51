package middleware

import (
	"ceezaa-sessions/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireUser(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")
	token, err := authSvc.IssueUserToken("user-1", "Alice")
	if err != nil {
		t.Fatal(err)
	}

	mw := NewAuthMiddleware(authSvc)
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUser(r.Context())
		if claims.UserID != "user-1" {
			t.Errorf("claims.UserID = %q, want user-1", claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"query param fallback", "", token, http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"malformed header", token, "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/v1/sessions/s1"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestGetUserWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := GetUser(req.Context())
	if claims == nil || claims.UserID != "" {
		t.Fatalf("claims = %+v, want empty", claims)
	}
}
