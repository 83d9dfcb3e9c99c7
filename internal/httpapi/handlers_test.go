package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/quartz"

	"holdemhall/holdem"
	"holdemhall/internal/lobby"
	"holdemhall/internal/ws"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	registry := lobby.New(quartz.NewMock(t))
	broadcaster := ws.NewBroadcaster()
	h := New(registry, broadcaster, holdem.Config{Seed: 1})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createStartedGame(t *testing.T, mux *http.ServeMux) (roomID string) {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create-room", map[string]any{
		"roomName": "table-1", "playerName": "alice", "maxPlayers": 4,
		"smallBlind": 50, "bigBlind": 100, "buyIn": 1000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create-room status %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		RoomID string `json:"roomId"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, mux, http.MethodPost, "/api/game/room/"+created.RoomID+"/join", map[string]any{
		"roomId": created.RoomID, "playerName": "bob",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("join status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/game/room/"+created.RoomID+"/start-game", map[string]any{
		"playerName": "alice",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("start-game status %d: %s", rec.Code, rec.Body.String())
	}
	return created.RoomID
}

func TestActionRoute_TurnOrderAndLegality(t *testing.T) {
	mux := newTestMux(t)
	gameID := createStartedGame(t, mux)

	rec := doJSON(t, mux, http.MethodGet, "/api/game/"+gameID+"/state?playerName=alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state status %d: %s", rec.Code, rec.Body.String())
	}
	var snap struct {
		Phase             string `json:"phase"`
		CurrentPlayerName string `json:"currentPlayerName"`
	}
	decodeBody(t, rec, &snap)
	if snap.Phase != "PRE_FLOP" {
		t.Fatalf("expected PRE_FLOP after start, got %q", snap.Phase)
	}
	actor := snap.CurrentPlayerName
	other := "alice"
	if actor == "alice" {
		other = "bob"
	}

	// an intent from the non-actor is rejected with 403 and no state change.
	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+gameID+"/action", map[string]any{
		"playerName": other, "action": "FOLD",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for out-of-turn action, got %d: %s", rec.Code, rec.Body.String())
	}

	// heads-up preflop: the first actor is the small blind, behind the big
	// blind, so CHECK lacks parity and must come back as 400.
	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+gameID+"/action", map[string]any{
		"playerName": actor, "action": "CHECK",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for illegal check, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/game/"+gameID+"/action", map[string]any{
		"playerName": actor, "action": "CALL",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a legal call, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestActionRoute_UnknownGame404(t *testing.T) {
	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/nope/action", map[string]any{
		"playerName": "alice", "action": "FOLD",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rec.Code)
	}
}

func TestLeaveRoute_HostLeaveClosesRoom(t *testing.T) {
	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create-room", map[string]any{
		"roomName": "table-2", "playerName": "alice", "maxPlayers": 4,
		"smallBlind": 50, "bigBlind": 100, "buyIn": 1000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create-room status %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		RoomID string `json:"roomId"`
	}
	decodeBody(t, rec, &created)

	for _, name := range []string{"bob", "carol"} {
		rec = doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/game/room/%s/join", created.RoomID), map[string]any{
			"roomId": created.RoomID, "playerName": name,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("join %s status %d", name, rec.Code)
		}
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/game/room/"+created.RoomID+"/leave", map[string]any{
		"playerName": "alice",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("leave status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/game/room/"+created.RoomID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after the host closed the room, got %d", rec.Code)
	}
}

func TestCreateRoom_BadBlindsRejected(t *testing.T) {
	mux := newTestMux(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/game/create-room", map[string]any{
		"roomName": "bad", "playerName": "alice", "maxPlayers": 4,
		"smallBlind": 200, "bigBlind": 100, "buyIn": 1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted blinds, got %d", rec.Code)
	}
}
