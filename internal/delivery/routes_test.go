package delivery

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	r := chi.NewRouter()
	RegisterRoutes(
		r,
		NewAuthHandler(&stubAuth{enabled: true, token: "tok"}, testLogger()),
		&stubAuth{},
		NewUploadHandler(&stubTranscriber{text: "ok"}, t.TempDir(), testLogger()),
		nil, // job handler unused in these cases
	)
	return r
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}

		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if resp["status"] != "ok" {
			t.Fatalf("%s: expected status ok, got %q", path, resp["status"])
		}
	}
}

func TestLoginRoute(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(
		r,
		NewAuthHandler(&stubAuth{enabled: true, token: "tok"}, testLogger()),
		&stubAuth{enabled: true, token: "tok"},
		NewUploadHandler(&stubTranscriber{}, t.TempDir(), testLogger()),
		nil,
	)

	req := httptest.NewRequest("POST", "/api/login", jsonBody(`{"password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
}
