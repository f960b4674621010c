package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"snowarena/game"
)

func newTestManager(t *testing.T) *RoomManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRoomManager(ctx, game.DefaultTileMap(50, 50), game.DefaultRegistry(), game.DefaultConfig())
}

func TestAdminConfigRoundTrip(t *testing.T) {
	rm := newTestManager(t)
	room := rm.GetOrCreateRoom(DefaultRoom)
	mux := rm.Routes("")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/config", strings.NewReader(`{"speed":7.5,"edgesBlock":true}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d", rec.Code)
	}
	if got := room.Tunables(); got.Speed != 7.5 || !got.EdgesBlock {
		t.Fatalf("tunables not updated: %+v", got)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/config?room="+DefaultRoom, nil))
	var body struct {
		Speed      float64 `json:"speed"`
		EdgesBlock bool    `json:"edgesBlock"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Speed != 7.5 || !body.EdgesBlock {
		t.Fatalf("GET returned %+v", body)
	}
}

func TestAdminConfigRejectsBadRequests(t *testing.T) {
	rm := newTestManager(t)
	rm.GetOrCreateRoom(DefaultRoom)
	mux := rm.Routes("")

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodPost, "/admin/config", `{`, http.StatusBadRequest},
		{http.MethodPost, "/admin/config", `{"speed":-1}`, http.StatusBadRequest},
		{http.MethodDelete, "/admin/config", ``, http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/config?room=nope", ``, http.StatusNotFound},
		{http.MethodGet, "/metrics?room=nope", ``, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
		if rec.Code != tc.want {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.target, rec.Code, tc.want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rm := newTestManager(t)
	room := rm.GetOrCreateRoom("arena")
	room.metrics.IncInvalidAbility()

	rec := httptest.NewRecorder()
	rm.Routes("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics?room=arena", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Room    string         `json:"room"`
		Metrics map[string]any `json:"metrics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Room != "arena" || payload.Metrics["invalid_ability"] != float64(1) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestManager(t).Routes("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
