package lobby

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"holdemhall/holdem"
	"holdemhall/internal/room"
)

// Hooks are the Coordinator callbacks a caller (the transport layer) wants
// wired in for a room as soon as its game starts (§4.6: the collaborator
// that turns engine mutations into broadcast fan-out). Any of them may be
// nil. The room.View carries the same call-synchronously contract it has on
// the Coordinator's own hooks.
type Hooks struct {
	OnSnapshot    func(roomID string, view room.View)
	OnHandEnd     func(roomID string, info room.HandEndInfo)
	OnAutoAdvance func(roomID string, view room.View)
}

// RoomSession binds a started Room to the room.Coordinator running its
// hand engine.
type RoomSession struct {
	Room        *Room
	Coordinator *room.Coordinator
}

// Registry is the roomId -> (Room, Coordinator) map of §4.5/§5: a single
// mutex is enough, since inserts/lookups/deletes are the only concurrent
// operation on it; all hand-state mutation is already serialised inside
// each room's own Coordinator.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*RoomSession
	clock quartz.Clock
}

// New builds an empty Registry. clk is used to construct every room's
// Coordinator; pass nil for a real clock, or a quartz.NewMock for tests
// that need deterministic auto-advance pacing.
func New(clk quartz.Clock) *Registry {
	if clk == nil {
		clk = quartz.NewReal()
	}
	return &Registry{rooms: make(map[string]*RoomSession), clock: clk}
}

// CreateRoomParams mirrors the POST /api/game/create-room body (§6).
type CreateRoomParams struct {
	RoomName   string
	PlayerName string
	MaxPlayers int
	SmallBlind int64
	BigBlind   int64
	BuyIn      int64
	Password   string
}

// CreateRoom builds a new Room hosted by PlayerName and seats the host.
func (reg *Registry) CreateRoom(p CreateRoomParams) (*Room, error) {
	if p.RoomName == "" || p.PlayerName == "" {
		return nil, ErrInvalidInput
	}
	if p.MaxPlayers < 2 {
		return nil, ErrInvalidInput
	}
	if p.SmallBlind < 0 || p.BigBlind <= 0 || p.SmallBlind > p.BigBlind {
		return nil, ErrInvalidInput
	}
	if p.BuyIn <= 0 {
		return nil, ErrInvalidInput
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, sess := range reg.rooms {
		if sess.Room.Name == p.RoomName {
			return nil, ErrNameTaken
		}
	}

	r := &Room{
		ID:         uuid.NewString(),
		Name:       p.RoomName,
		HostName:   p.PlayerName,
		Seats:      []RosterSeat{{Name: p.PlayerName}},
		MaxPlayers: p.MaxPlayers,
		SmallBlind: p.SmallBlind,
		BigBlind:   p.BigBlind,
		BuyIn:      p.BuyIn,
		CreatedAt:  time.Now(),
	}
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		r.PasswordHash = hash
	}

	reg.rooms[r.ID] = &RoomSession{Room: r}
	return r, nil
}

// JoinRoomByName resolves a room by its display name, per
// POST /api/game/room/join-by-name.
func (reg *Registry) JoinRoomByName(roomName, playerName, password string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, sess := range reg.rooms {
		if sess.Room.Name == roomName {
			return reg.joinLocked(sess, playerName, password)
		}
	}
	return nil, ErrRoomNotFound
}

// JoinRoomByID resolves a room by id, per POST /api/game/room/{roomId}/join.
func (reg *Registry) JoinRoomByID(roomID, playerName, password string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	sess, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return reg.joinLocked(sess, playerName, password)
}

func (reg *Registry) joinLocked(sess *RoomSession, playerName, password string) (*Room, error) {
	r := sess.Room
	if r.GameStarted {
		return nil, ErrAlreadyStarted
	}
	if len(r.PasswordHash) > 0 {
		if bcrypt.CompareHashAndPassword(r.PasswordHash, []byte(password)) != nil {
			return nil, ErrBadPassword
		}
	}
	if r.hasSeat(playerName) {
		return nil, ErrNameTaken
	}
	if len(r.Seats) >= r.MaxPlayers {
		return nil, ErrRoomFull
	}
	r.Seats = append(r.Seats, RosterSeat{Name: playerName})
	return r, nil
}

// GetRoom returns a room by id.
func (reg *Registry) GetRoom(roomID string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	sess, ok := reg.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return sess.Room, nil
}

// Coordinator returns the running game's Coordinator, for the action/state
// HTTP endpoints (§6) keyed by gameId.
func (reg *Registry) Coordinator(gameID string) (*room.Coordinator, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	sess, ok := reg.rooms[gameID]
	if !ok || sess.Coordinator == nil {
		return nil, ErrGameNotFound
	}
	return sess.Coordinator, nil
}

// StartGame transitions a room from lobby to play (§6
// POST /room/{roomId}/start-game): only the host may start, and at least
// two seats must be filled. Builds the HandEngine seat roster in join
// order, wires hooks onto its Coordinator, and deals the first hand.
func (reg *Registry) StartGame(roomID, playerName string, cfg holdem.Config, hooks Hooks) (gameID string, err error) {
	reg.mu.Lock()
	sess, ok := reg.rooms[roomID]
	if !ok {
		reg.mu.Unlock()
		return "", ErrRoomNotFound
	}
	r := sess.Room
	if r.HostName != playerName {
		reg.mu.Unlock()
		return "", ErrNotHost
	}
	if r.GameStarted {
		reg.mu.Unlock()
		return "", ErrAlreadyStarted
	}
	if len(r.Seats) < 2 {
		reg.mu.Unlock()
		return "", ErrNotEnoughSeated
	}

	cfg.MaxSeats = r.MaxPlayers
	cfg.MinSeats = 2
	cfg.SmallBlind = r.SmallBlind
	cfg.BigBlind = r.BigBlind

	seats := make([]*holdem.Seat, len(r.Seats))
	for i, rs := range r.Seats {
		seats[i] = holdem.NewSeat(uint16(i), rs.Name, r.BuyIn)
	}

	coord, err := room.New(roomID, seats, cfg, reg.clock)
	if err != nil {
		reg.mu.Unlock()
		return "", err
	}
	coord.OnSnapshot = func(view room.View) {
		if hooks.OnSnapshot != nil {
			hooks.OnSnapshot(roomID, view)
		}
	}
	coord.OnHandEnd = func(info room.HandEndInfo) {
		if hooks.OnHandEnd != nil {
			hooks.OnHandEnd(roomID, info)
		}
	}
	coord.OnAutoAdvance = func(view room.View) {
		if hooks.OnAutoAdvance != nil {
			hooks.OnAutoAdvance(roomID, view)
		}
	}

	r.GameStarted = true
	r.GameID = roomID
	sess.Coordinator = coord
	reg.mu.Unlock()

	if err := coord.StartHand(); err != nil {
		return "", err
	}
	return r.GameID, nil
}

// Leave removes playerName from roomID's roster (§6
// POST /room/{roomId}/leave). If the host leaves, or the roster empties,
// the room is closed and removed from the registry; closed is true in
// either case.
func (reg *Registry) Leave(roomID, playerName string) (closed bool, err error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	sess, ok := reg.rooms[roomID]
	if !ok {
		return false, ErrRoomNotFound
	}
	r := sess.Room
	if !r.removeSeat(playerName) {
		return false, ErrPlayerNotFound
	}

	if playerName == r.HostName || len(r.Seats) == 0 {
		if sess.Coordinator != nil {
			sess.Coordinator.Close()
		}
		delete(reg.rooms, roomID)
		return true, nil
	}
	return false, nil
}
