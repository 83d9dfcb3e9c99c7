// Package lobby implements the Room lifecycle and the roomId -> (Room,
// Coordinator) registry described in §4.5/§3: lobby metadata, roster
// management, and the concurrent map that hands a started room's play off
// to its own room.Coordinator.
package lobby

import "time"

// RosterSeat is one seated-but-not-yet-playing player in a Room's lobby.
type RosterSeat struct {
	Name  string
	Ready bool
}

// Room is lobby metadata for one table (§3 Room): name, host, roster, caps,
// blinds, buy-in, and an optional password. A Room becomes the input queue
// for a HandEngine instance, via the Registry, once GameStarted is set.
type Room struct {
	ID         string
	Name       string
	HostName   string
	Seats      []RosterSeat
	MaxPlayers int
	SmallBlind int64
	BigBlind   int64
	BuyIn      int64

	// PasswordHash is a bcrypt hash of an optional join password, nil if
	// the room is open to anyone who knows the room name/id.
	PasswordHash []byte

	GameStarted bool
	GameID      string
	CreatedAt   time.Time
}

// SeatNames returns the roster in join order.
func (r *Room) SeatNames() []string {
	names := make([]string, len(r.Seats))
	for i, s := range r.Seats {
		names[i] = s.Name
	}
	return names
}

// HasSeat reports whether name is already seated in the room's roster.
func (r *Room) HasSeat(name string) bool {
	return r.hasSeat(name)
}

// hasSeat reports whether name is already seated.
func (r *Room) hasSeat(name string) bool {
	for _, s := range r.Seats {
		if s.Name == name {
			return true
		}
	}
	return false
}

// removeSeat drops name from the roster, reporting whether it was present.
func (r *Room) removeSeat(name string) bool {
	for i, s := range r.Seats {
		if s.Name == name {
			r.Seats = append(r.Seats[:i], r.Seats[i+1:]...)
			return true
		}
	}
	return false
}
