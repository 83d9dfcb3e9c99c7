package ws

import (
	"encoding/json"
	"log"
	"sync"

	"holdemhall/internal/lobby"
)

// Session is one attached socket connection (§5: "a session disconnect
// cancels pending outbound messages to that session only"). The gateway
// owns reading frames off Conn; the Broadcaster only ever writes to Send.
// Send is the connection's own outbound channel, shared for the socket's
// whole lifetime: the connection's single writePump goroutine is its only
// reader, so attaching/detaching a Session never hands the socket off
// between two concurrent writers.
type Session struct {
	ID         string
	PlayerName string
	RoomID     string
	Send       chan []byte
}

func newSession(id, roomID, playerName string, send chan []byte) *Session {
	return &Session{ID: id, RoomID: roomID, PlayerName: playerName, Send: send}
}

// push encodes and queues frame, dropping it (rather than blocking) if the
// session's outbound buffer is full, so a slow client never blocks a hand
// (§4.6: "failure on one session never blocks others").
func (s *Session) push(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[ws] frame marshal error: %v", err)
		return
	}
	select {
	case s.Send <- data:
	default:
		log.Printf("[ws] session %s send buffer full, dropping frame %s", s.ID, frame.Type)
	}
}

// Broadcaster delivers snapshots and lobby events to every session attached
// to a room (§4.6). It is the only place that knows about the set of
// sockets watching a given room; the Registry and Coordinator never see a
// Session directly.
type Broadcaster struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

// NewBroadcaster builds an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{rooms: make(map[string]map[*Session]struct{})}
}

// Attach adds sess to the set of sockets watching roomID.
func (b *Broadcaster) Attach(sess *Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.rooms[sess.RoomID]
	if !ok {
		set = make(map[*Session]struct{})
		b.rooms[sess.RoomID] = set
	}
	set[sess] = struct{}{}
}

// Detach removes sess, garbage-collecting the room's set once empty.
func (b *Broadcaster) Detach(sess *Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.rooms[sess.RoomID]
	if !ok {
		return
	}
	delete(set, sess)
	if len(set) == 0 {
		delete(b.rooms, sess.RoomID)
	}
}

// Broadcast sends the same frame to every session attached to roomID.
func (b *Broadcaster) Broadcast(roomID string, frame Frame) {
	frame.RoomID = roomID
	for _, sess := range b.sessionsFor(roomID) {
		sess.push(frame)
	}
}

// FanoutViewer sends a per-viewer frame to every session attached to
// roomID, built fresh per session's PlayerName (§4.5: snapshots hide other
// players' hole cards). build returns the `data` payload for that viewer.
func (b *Broadcaster) FanoutViewer(roomID string, msgType MessageType, build func(viewerName string) any) {
	for _, sess := range b.sessionsFor(roomID) {
		sess.push(Frame{Type: msgType, RoomID: roomID, Data: build(sess.PlayerName)})
	}
}

func (b *Broadcaster) sessionsFor(roomID string) []*Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set := b.rooms[roomID]
	out := make([]*Session, 0, len(set))
	for sess := range set {
		out = append(out, sess)
	}
	return out
}

// NotifyRoomUpdate broadcasts the current lobby roster to every session
// attached to r.ID, regardless of which HTTP or socket action changed it.
func (b *Broadcaster) NotifyRoomUpdate(r *lobby.Room) {
	b.Broadcast(r.ID, Frame{Type: TypeRoomUpdate, Data: RoomUpdateData(r)})
}

// NotifyGameStarted broadcasts that roomID's game has begun.
func (b *Broadcaster) NotifyGameStarted(roomID, gameID string) {
	b.Broadcast(roomID, Frame{Type: TypeGameStarted, Data: map[string]string{"gameId": gameID}})
}

// CloseRoom detaches and drains every session watching roomID, after
// pushing a final frame (typically ROOM_CLOSED) to each.
func (b *Broadcaster) CloseRoom(roomID string, final Frame) {
	b.mu.Lock()
	set := b.rooms[roomID]
	delete(b.rooms, roomID)
	b.mu.Unlock()

	final.RoomID = roomID
	for sess := range set {
		sess.push(final)
	}
}
