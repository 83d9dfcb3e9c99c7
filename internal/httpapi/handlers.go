// Package httpapi implements the CORS-enabled JSON HTTP route table of §6:
// room CRUD against the lobby.Registry, and the action/state surface
// against each started room's room.Coordinator.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"holdemhall/holdem"
	"holdemhall/internal/lobby"
	"holdemhall/internal/ws"
)

// Handler wires the route table onto an http.ServeMux.
type Handler struct {
	registry    *lobby.Registry
	broadcaster *ws.Broadcaster
	cfg         holdem.Config
}

// New builds a Handler. cfg supplies the pacing (and any seed/deck
// override) every started room's HandEngine is constructed with; its
// MaxSeats/MinSeats/blinds are overwritten per-room by the Registry.
func New(registry *lobby.Registry, broadcaster *ws.Broadcaster, cfg holdem.Config) *Handler {
	return &Handler{registry: registry, broadcaster: broadcaster, cfg: cfg}
}

// RegisterRoutes mounts every §6 HTTP route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/game/create-room", h.handleCreateRoom)
	mux.HandleFunc("POST /api/game/room/join-by-name", h.handleJoinByName)
	mux.HandleFunc("POST /api/game/room/{roomId}/join", h.handleJoinByID)
	mux.HandleFunc("POST /api/game/room/{roomId}/start-game", h.handleStartGame)
	mux.HandleFunc("POST /api/game/room/{roomId}/leave", h.handleLeaveRoom)
	mux.HandleFunc("POST /api/game/{gameId}/action", h.handleAction)
	// GET /api/game/room/{roomId} and GET /api/game/{gameId}/state both match
	// /api/game/room/state, which ServeMux rejects, so one pattern serves both.
	mux.HandleFunc("GET /api/game/{first}/{second}", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("first") == "room":
			r.SetPathValue("roomId", r.PathValue("second"))
			h.handleGetRoom(w, r)
		case r.PathValue("second") == "state":
			r.SetPathValue("gameId", r.PathValue("first"))
			h.handleState(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type createRoomRequest struct {
	RoomName   string `json:"roomName"`
	PlayerName string `json:"playerName"`
	MaxPlayers int    `json:"maxPlayers"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	BuyIn      int64  `json:"buyIn"`
	Password   string `json:"password,omitempty"`
}

type createRoomResponse struct {
	RoomID   string `json:"roomId"`
	HostName string `json:"hostName"`
	Message  string `json:"message"`
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.registry.CreateRoom(lobby.CreateRoomParams{
		RoomName:   req.RoomName,
		PlayerName: req.PlayerName,
		MaxPlayers: req.MaxPlayers,
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		BuyIn:      req.BuyIn,
		Password:   req.Password,
	})
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createRoomResponse{
		RoomID:   room.ID,
		HostName: room.HostName,
		Message:  "room created",
	})
}

type joinByNameRequest struct {
	RoomName   string `json:"roomName"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password,omitempty"`
}

type joinRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password,omitempty"`
}

type joinResponse struct {
	RoomID     string `json:"roomId"`
	RoomName   string `json:"roomName"`
	PlayerName string `json:"playerName"`
}

func (h *Handler) handleJoinByName(w http.ResponseWriter, r *http.Request) {
	var req joinByNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.registry.JoinRoomByName(req.RoomName, req.PlayerName, req.Password)
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	h.broadcaster.NotifyRoomUpdate(room)
	writeJSON(w, http.StatusOK, joinResponse{RoomID: room.ID, RoomName: room.Name, PlayerName: req.PlayerName})
}

func (h *Handler) handleJoinByID(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.registry.JoinRoomByID(roomID, req.PlayerName, req.Password)
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	h.broadcaster.NotifyRoomUpdate(room)
	writeJSON(w, http.StatusOK, joinResponse{RoomID: room.ID, RoomName: room.Name, PlayerName: req.PlayerName})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.registry.GetRoom(r.PathValue("roomId"))
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.RoomUpdateData(room))
}

type startGameRequest struct {
	PlayerName string `json:"playerName"`
}

type startGameResponse struct {
	GameID  string `json:"gameId"`
	Message string `json:"message"`
}

func (h *Handler) handleStartGame(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gameID, err := h.registry.StartGame(roomID, req.PlayerName, h.cfg, h.broadcaster.Hooks())
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	h.broadcaster.NotifyGameStarted(roomID, gameID)
	writeJSON(w, http.StatusOK, startGameResponse{GameID: gameID, Message: "game started"})
}

type leaveRequest struct {
	PlayerName string `json:"playerName"`
}

func (h *Handler) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	var req leaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	closed, err := h.registry.Leave(roomID, req.PlayerName)
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	if closed {
		h.broadcaster.CloseRoom(roomID, ws.Frame{Type: ws.TypeRoomClosed})
	} else if room, err := h.registry.GetRoom(roomID); err == nil {
		h.broadcaster.Broadcast(roomID, ws.Frame{Type: ws.TypePlayerLeft, Data: ws.RoomUpdateData(room)})
	}
	w.WriteHeader(http.StatusNoContent)
}

type actionRequest struct {
	PlayerName string            `json:"playerName"`
	Action     holdem.ActionKind `json:"action"`
	Amount     int64             `json:"amount,omitempty"`
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	coord, err := h.registry.Coordinator(gameID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	result, err := coord.Act(req.PlayerName, holdem.Action{Kind: req.Action, Amount: req.Amount})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	playerName := r.URL.Query().Get("playerName")
	coord, err := h.registry.Coordinator(gameID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coord.Snapshot(playerName))
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeLobbyError maps the §7 lobby error kinds to their HTTP status.
func writeLobbyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lobby.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lobby.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lobby.ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, lobby.ErrNameTaken),
		errors.Is(err, lobby.ErrRoomFull),
		errors.Is(err, lobby.ErrBadPassword),
		errors.Is(err, lobby.ErrNotEnoughSeated),
		errors.Is(err, lobby.ErrAlreadyStarted),
		errors.Is(err, lobby.ErrPlayerNotFound),
		errors.Is(err, lobby.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeEngineError maps the §7 engine error kinds to their HTTP status.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, holdem.ErrOutOfTurn):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, holdem.ErrIllegalAction),
		errors.Is(err, holdem.ErrHandEnded),
		errors.Is(err, holdem.ErrAutoAdvancing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		// DeckExhausted / EvaluatorMalformed / any other engine bug (§7):
		// surface as 500 without crashing the room's executor goroutine.
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
