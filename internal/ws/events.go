package ws

import (
	"holdemhall/internal/lobby"
	"holdemhall/internal/room"
)

// Hooks builds the lobby.Hooks that turn one room's Coordinator callbacks
// into the remaining server-to-client frame types of §6:
// GAME_STATE_UPDATE after every mutation, SHOWDOWN_RESULTS once a hand's
// settlement is final, and AUTO_ADVANCE_NOTIFICATION on every paced
// all-in auto-advance step (§4.4.6). Each hook runs on its room's executor
// goroutine, so it renders every viewer-scoped snapshot through the view it
// was handed and only does non-blocking pushes from there.
func (b *Broadcaster) Hooks() lobby.Hooks {
	return lobby.Hooks{
		OnSnapshot: func(roomID string, view room.View) {
			b.FanoutViewer(roomID, TypeGameStateUpdate, func(viewer string) any {
				return view(viewer)
			})
		},
		OnHandEnd: func(roomID string, info room.HandEndInfo) {
			b.Broadcast(roomID, Frame{Type: TypeShowdownResults, Data: info.Settlement})
		},
		OnAutoAdvance: func(roomID string, view room.View) {
			b.FanoutViewer(roomID, TypeAutoAdvanceNotify, func(viewer string) any {
				return view(viewer)
			})
		},
	}
}
