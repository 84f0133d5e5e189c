package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubAuth struct {
	enabled bool
	token   string
}

func (s *stubAuth) Enabled() bool { return s.enabled }

func (s *stubAuth) Login(ctx context.Context, password string) (string, error) {
	return s.token, nil
}

func (s *stubAuth) ValidateToken(ctx context.Context, token string) (bool, error) {
	if !s.enabled {
		return true, nil
	}
	return token == s.token, nil
}

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name     string
		enabled  bool
		path     string
		header   string
		wantCode int
	}{
		{"disabled passes everything", false, "/api/jobs/1", "", http.StatusOK},
		{"login always public", true, "/api/login", "", http.StatusOK},
		{"missing token", true, "/api/jobs/1", "", http.StatusUnauthorized},
		{"wrong token", true, "/api/jobs/1", "bad", http.StatusUnauthorized},
		{"good token", true, "/api/jobs/1", "tok", http.StatusOK},
	}

	for _, tc := range cases {
		mw := AuthMiddleware(&stubAuth{enabled: tc.enabled, token: "tok"})

		req := httptest.NewRequest("GET", tc.path, nil)
		if tc.header != "" {
			req.Header.Set("X-Auth", tc.header)
		}

		rec := httptest.NewRecorder()
		mw(next).ServeHTTP(rec, req)

		if rec.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.wantCode, rec.Code)
		}
	}
}
