// Package room implements the single-actor-per-room executor described in
// §5: every inbound intent and every timer callback for one room's hand
// runs sequentially on that room's own goroutine, so the HandEngine itself
// never needs locks.
package room

import (
	"errors"
	"log"

	"github.com/coder/quartz"

	"holdemhall/holdem"
)

// ErrRoomClosed is returned by StartHand and Act calls made after Close.
var ErrRoomClosed = errors.New("room: coordinator closed")

// eventType tags the kind of message placed on the coordinator's queue.
type eventType int

const (
	eventAct eventType = iota
	eventStartHand
	eventAutoAdvanceTick
	eventShowdownDisplayElapsed
	eventSnapshot
	eventClose
)

type event struct {
	kind     eventType
	player   string
	action   holdem.Action
	response chan submitResult
}

type submitResult struct {
	err      error
	action   *holdem.ActResult
	snapshot holdem.Snapshot
}

// HandEndInfo is delivered to OnHandEnd hooks once a hand's settlement is
// final (either immediately, or after auto-advance finishes the board).
type HandEndInfo struct {
	RoomID     string
	Settlement *holdem.SettlementResult
}

// View renders the engine's state as one viewer is allowed to see it. Hooks
// receive a View instead of calling Coordinator.Snapshot themselves: a hook
// runs on the executor goroutine, where re-submitting a snapshot event would
// wait on the very goroutine that is executing the hook. The View must only
// be called synchronously, inside the hook invocation.
type View func(viewerName string) holdem.Snapshot

// Coordinator is the executor for one room's HandEngine (§4.5). Snapshot
// delivery is push-based: OnSnapshot is called after every state-changing
// event so the caller (the transport broadcaster) can fan it out.
type Coordinator struct {
	RoomID string
	engine *holdem.HandEngine
	clock  quartz.Clock

	events chan event
	done   chan struct{}

	cfg holdem.Config

	// OnSnapshot is invoked, from the coordinator's own goroutine, after
	// every mutation. Implementations must not block.
	OnSnapshot func(view View)
	// OnHandEnd is invoked once per hand, when its settlement is final.
	OnHandEnd func(HandEndInfo)
	// OnAutoAdvance is invoked once per paced auto-advance step.
	OnAutoAdvance func(view View)
}

// New builds a Coordinator around a fresh HandEngine and starts its
// executor goroutine. clk lets tests substitute a quartz.NewMock() clock
// to drive auto-advance and showdown-display pacing deterministically.
func New(roomID string, seats []*holdem.Seat, cfg holdem.Config, clk quartz.Clock) (*Coordinator, error) {
	engine, err := holdem.NewHandEngine(roomID, seats, cfg)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = quartz.NewReal()
	}
	c := &Coordinator{
		RoomID: roomID,
		engine: engine,
		clock:  clk,
		cfg:    cfg,
		events: make(chan event, 64),
		done:   make(chan struct{}),
	}
	go c.run()
	return c, nil
}

func (c *Coordinator) run() {
	for e := range c.events {
		if e.kind == eventClose {
			close(c.done)
			return
		}
		res := c.handle(e)
		if e.response != nil {
			e.response <- res
		}
	}
}

func (c *Coordinator) handle(e event) submitResult {
	if e.kind == eventSnapshot {
		return submitResult{snapshot: c.engine.Snapshot(e.player)}
	}
	action, err := c.handleMutation(e)
	return submitResult{action: action, err: err}
}

func (c *Coordinator) handleMutation(e event) (*holdem.ActResult, error) {
	switch e.kind {
	case eventStartHand:
		if err := c.engine.StartHand(); err != nil {
			return nil, err
		}
		c.notifySnapshot()
		c.scheduleIfAutoAdvancing()
		return nil, nil

	case eventAct:
		result, err := c.engine.Act(e.player, e.action)
		if err != nil {
			return nil, err
		}
		c.notifySnapshot()
		if result.Settlement != nil {
			c.onSettled(result.Settlement)
		} else if result.AutoAdvancing {
			c.scheduleAutoAdvance()
		}
		return result, nil

	case eventAutoAdvanceTick:
		if !c.engine.AutoAdvancing() {
			return nil, nil // hand already terminated before this timer fired
		}
		done, settlement, err := c.engine.AdvanceAuto()
		if err != nil {
			return nil, err
		}
		if c.OnAutoAdvance != nil {
			c.OnAutoAdvance(c.engine.Snapshot)
		}
		c.notifySnapshot()
		if done {
			c.onSettled(settlement)
			return nil, nil
		}
		c.scheduleAutoAdvance()
		return nil, nil

	case eventShowdownDisplayElapsed:
		c.engine.EndHandAndRotate()
		if err := c.engine.StartHand(); err != nil {
			return nil, err
		}
		c.notifySnapshot()
		c.scheduleIfAutoAdvancing()
		return nil, nil
	}
	return nil, nil
}

func (c *Coordinator) onSettled(settlement *holdem.SettlementResult) {
	if c.OnHandEnd != nil {
		c.OnHandEnd(HandEndInfo{RoomID: c.RoomID, Settlement: settlement})
	}
	c.clock.AfterFunc(c.cfg.ShowdownDisplayDelayOrDefault(), func() {
		c.submitAsync(event{kind: eventShowdownDisplayElapsed})
	})
}

// scheduleAutoAdvance paces the next auto-advance tick: the step that turns
// the river into showdown gets the shorter showdown delay, every earlier
// street gets the standard street delay (§4.4.6).
func (c *Coordinator) scheduleAutoAdvance() {
	delay := c.cfg.StreetDelay()
	if c.engine.Phase() == holdem.PhaseRiver {
		delay = c.cfg.AutoShowdownDelay()
	}
	c.clock.AfterFunc(delay, func() {
		c.submitAsync(event{kind: eventAutoAdvanceTick})
	})
}

func (c *Coordinator) scheduleIfAutoAdvancing() {
	if c.engine.AutoAdvancing() {
		c.scheduleAutoAdvance()
	}
}

func (c *Coordinator) notifySnapshot() {
	if c.OnSnapshot != nil {
		c.OnSnapshot(c.engine.Snapshot)
	}
}

// submitAsync enqueues a timer-originated event without blocking on a
// response; a room already closed silently drops it (§7: timer callbacks
// that find the hand already terminated exit silently).
func (c *Coordinator) submitAsync(e event) {
	select {
	case c.events <- e:
	case <-c.done:
	}
}

// submitFull enqueues e and blocks for its full outcome, or returns
// ErrRoomClosed.
func (c *Coordinator) submitFull(e event) (submitResult, error) {
	e.response = make(chan submitResult, 1)
	select {
	case c.events <- e:
	case <-c.done:
		return submitResult{}, ErrRoomClosed
	}
	select {
	case res := <-e.response:
		return res, res.err
	case <-c.done:
		return submitResult{}, ErrRoomClosed
	}
}

// submit enqueues e and blocks for its outcome, or returns ErrRoomClosed.
func (c *Coordinator) submit(e event) (*holdem.ActResult, error) {
	res, err := c.submitFull(e)
	return res.action, err
}

// StartHand requests a new hand. Called once when the host starts the game;
// later hands are dealt by the executor itself after each showdown-display
// delay elapses.
func (c *Coordinator) StartHand() error {
	_, err := c.submit(event{kind: eventStartHand})
	return err
}

// Act submits one player intent, serialised with every other intent and
// timer callback for this room. The returned ActResult reports whether the
// intent was accepted as-is, auto-converted to all-in, or closed the round.
func (c *Coordinator) Act(playerName string, action holdem.Action) (*holdem.ActResult, error) {
	return c.submit(event{kind: eventAct, player: playerName, action: action})
}

// Snapshot renders the engine's current state for viewerName. It is routed
// through the same event queue as every mutation (§4.5, §5): the engine has
// a single owning goroutine, so an external caller (an HTTP handler
// goroutine, say) must not read its fields directly while the executor may
// be mutating them concurrently.
func (c *Coordinator) Snapshot(viewerName string) holdem.Snapshot {
	res, err := c.submitFull(event{kind: eventSnapshot, player: viewerName})
	if err != nil {
		return holdem.Snapshot{}
	}
	return res.snapshot
}

// Close stops the executor goroutine. Pending timers still fire but find
// done closed and drop their event.
func (c *Coordinator) Close() {
	select {
	case c.events <- event{kind: eventClose}:
	default:
		log.Printf("[room %s] close dropped: event queue full", c.RoomID)
	}
}
