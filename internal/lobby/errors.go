package lobby

import "errors"

// Typed errors mapped to HTTP status by the handler layer (§7).
var (
	ErrRoomNotFound  = errors.New("lobby: room not found")
	ErrGameNotFound  = errors.New("lobby: game not found")
	ErrNameTaken     = errors.New("lobby: player name already seated in this room")
	ErrRoomFull      = errors.New("lobby: room is full")
	ErrBadPassword   = errors.New("lobby: wrong room password")
	ErrNotHost       = errors.New("lobby: only the host may do this")
	ErrNotEnoughSeated = errors.New("lobby: need at least two seated players to start")
	ErrAlreadyStarted = errors.New("lobby: game already started")
	ErrPlayerNotFound = errors.New("lobby: player not seated in this room")
	ErrInvalidInput   = errors.New("lobby: invalid request")
)
