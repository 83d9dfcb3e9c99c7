package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"holdemhall/internal/lobby"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Gateway upgrades `/ws/room` connections and dispatches the two
// client-to-server frame types named in §6: JOIN_ROOM and LEAVE_ROOM.
// Every other piece of client intent (betting actions) travels over the
// HTTP API instead (§6); the socket exists only for room attach/detach and
// server-to-client push.
type Gateway struct {
	registry    *lobby.Registry
	broadcaster *Broadcaster
	nextConnID  uint64
}

// New builds a Gateway around a room registry and its Broadcaster.
func New(registry *lobby.Registry, broadcaster *Broadcaster) *Gateway {
	return &Gateway{registry: registry, broadcaster: broadcaster}
}

// HandleWebSocket is the http.HandlerFunc for `/ws/room`.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}
	connID := fmt.Sprintf("conn_%d", atomic.AddUint64(&g.nextConnID, 1))
	c := &connection{id: connID, conn: conn, gateway: g, send: make(chan []byte, 32)}
	go c.writePump()
	go c.readPump()
}

// connection is one upgraded socket, paired read/write pumps in the
// teacher's gateway.go shape: exactly one writePump goroutine owns
// conn.WriteMessage for the connection's whole lifetime, so send is the
// single channel both the pre-join gateway and any attached Session push
// onto. It attaches to at most one room's Session at a time; JOIN_ROOM
// while already attached re-attaches to the new room.
type connection struct {
	id      string
	conn    *websocket.Conn
	gateway *Gateway
	session *Session
	send    chan []byte
}

func (c *connection) readPump() {
	defer func() {
		c.detach()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] conn %s read error: %v", c.id, err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("[ws] conn %s malformed frame: %v", c.id, err)
			continue
		}
		c.handle(frame)
	}
}

func (c *connection) handle(frame Frame) {
	switch frame.Type {
	case TypeJoinRoom:
		c.handleJoin(frame)
	case TypeLeaveRoom:
		c.handleLeave(frame)
	default:
		log.Printf("[ws] conn %s unknown frame type %q", c.id, frame.Type)
	}
}

func (c *connection) handleJoin(frame Frame) {
	room, err := c.gateway.registry.GetRoom(frame.RoomID)
	if err != nil {
		c.sendError(err)
		return
	}
	if !room.HasSeat(frame.PlayerName) {
		c.sendError(lobby.ErrPlayerNotFound)
		return
	}

	c.detach() // re-join replaces any prior attachment
	sess := newSession(c.id, frame.RoomID, frame.PlayerName, c.send)
	c.session = sess
	c.gateway.broadcaster.Attach(sess)

	update := RoomUpdateData(room)
	sess.push(Frame{Type: TypeJoinedRoom, RoomID: room.ID, Data: update})
	c.gateway.broadcaster.Broadcast(room.ID, Frame{Type: TypePlayerJoined, Data: update})
}

func (c *connection) handleLeave(frame Frame) {
	roomID := frame.RoomID
	if c.session != nil {
		roomID = c.session.RoomID
	}
	closed, err := c.gateway.registry.Leave(roomID, frame.PlayerName)
	if err != nil {
		c.sendError(err)
		return
	}
	if closed {
		c.gateway.broadcaster.CloseRoom(roomID, Frame{Type: TypeRoomClosed})
	} else if room, err := c.gateway.registry.GetRoom(roomID); err == nil {
		c.gateway.broadcaster.Broadcast(roomID, Frame{
			Type: TypePlayerLeft,
			Data: RoomUpdateData(room),
		})
	}
	c.detach()
}

// sendError queues a PLAYER_NOTIFICATION frame onto c.send rather than
// writing the socket directly, so it is serialised through writePump with
// every other outbound frame.
func (c *connection) sendError(err error) {
	data, marshalErr := json.Marshal(Frame{Type: TypePlayerNotification, Data: PlayerNotificationPayload{Message: err.Error()}})
	if marshalErr != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[ws] conn %s send buffer full, dropping error frame", c.id)
	}
}

func (c *connection) detach() {
	if c.session == nil {
		return
	}
	c.gateway.broadcaster.Detach(c.session)
	c.session = nil
}

// writePump is the connection's single writer goroutine, for its whole
// lifetime: it relays c.send onto the socket and pings on pingInterval
// whether or not a room Session is currently attached. Both the gateway's
// own error frames and any attached Session's broadcast pushes land on the
// same c.send channel, so conn.WriteMessage is never called from two
// goroutines at once.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// RoomUpdateData renders a Room's lobby roster as the data payload used by
// JOINED_ROOM, ROOM_UPDATE, PLAYER_JOINED, and PLAYER_LEFT frames.
func RoomUpdateData(r *lobby.Room) RoomUpdatePayload {
	return RoomUpdatePayload{
		RoomID:     r.ID,
		RoomName:   r.Name,
		HostName:   r.HostName,
		Players:    r.SeatNames(),
		MaxPlayers: r.MaxPlayers,
	}
}
