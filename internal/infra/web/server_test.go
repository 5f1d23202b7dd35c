package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/usecase"
)

func newTestServer(apiKey string) (*Server, *usecase.StatusTracker) {
	tracker := usecase.NewStatusTracker("run_test")
	logger := zerolog.Nop()
	return NewServer(0, apiKey, tracker, &logger), tracker
}

func get(t *testing.T, s *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer("secret")
	if rec := get(t, s, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
}

func TestStatusRequiresAuth(t *testing.T) {
	s, _ := newTestServer("secret")

	if rec := get(t, s, "/api/v1/status", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", rec.Code)
	}
	if rec := get(t, s, "/api/v1/status", "Bearer wrong"); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong token = %d, want 403", rec.Code)
	}
	if rec := get(t, s, "/api/v1/status", "Basic abc def"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed = %d, want 401", rec.Code)
	}
}

func TestStatusUnconfiguredKeyIsForbidden(t *testing.T) {
	s, _ := newTestServer("")
	if rec := get(t, s, "/api/v1/status", "Bearer anything"); rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403 when key unset", rec.Code)
	}
}

func TestStatusSnapshot(t *testing.T) {
	s, tracker := newTestServer("secret")
	tracker.SetPhase(usecase.PhaseIndexing)
	tracker.SetStore("vs_1")

	rec := get(t, s, "/api/v1/status", "Bearer secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var snap usecase.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RunID != "run_test" || snap.Phase != usecase.PhaseIndexing || snap.StoreID != "vs_1" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	s, _ := newTestServer("secret")
	if rec := get(t, s, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rec.Code)
	}
}
