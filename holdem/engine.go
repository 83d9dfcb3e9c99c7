package holdem

import (
	"math/rand"
	"time"

	"holdemhall/card"
)

// ActResult describes what happened to one submitted intent (§4.4.3):
// whether it was accepted as-is or auto-converted to ALL_IN, and whether it
// closed the betting round.
type ActResult struct {
	Applied          Action            `json:"applied"`
	ConvertedToAllIn bool              `json:"convertedToAllIn"`
	RoundClosed      bool              `json:"roundClosed"`
	HandEnded        bool              `json:"handEnded"`
	AutoAdvancing    bool              `json:"autoAdvancing"`
	Settlement       *SettlementResult `json:"settlement,omitempty"`
}

// HandEngine is the authoritative per-room hand state machine (§4.4). It
// owns a fixed room roster of seats and runs one hand at a time; it never
// sleeps or spawns goroutines of its own; the single-actor room executor
// (§5) is responsible for pacing auto-advance and showdown-display delays
// by calling AdvanceAuto / EndHandAndRotate on its own timer.
type HandEngine struct {
	GameID string
	config Config
	rng    *rand.Rand

	seats       []*Seat // fixed room roster, dealing order
	activeSeats []*Seat // seats not isOut, rebuilt at the start of every hand

	deck           *card.Deck
	communityCards card.CardList
	pot            int64
	phase          Phase
	currentBet     int64 // currentHighestBet

	dealerSeat     uint16
	smallBlindSeat uint16
	bigBlindSeat   uint16
	currentActor   uint16 // InvalidSeat when no actor is awaiting input

	acted map[uint16]bool
	ring  map[uint16]*seatNode // seat id -> ring node, rebuilt each hand

	autoAdvancing  bool
	lastSettlement *SettlementResult
}

// NewHandEngine builds an engine for a fixed room roster. Seats are supplied
// in the room's dealing order; none should be isOut yet.
func NewHandEngine(gameID string, seats []*Seat, cfg Config) (*HandEngine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(seats) < cfg.MinSeats {
		return nil, ErrNotEnoughSeats
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &HandEngine{
		GameID:       gameID,
		config:       cfg,
		rng:          rand.New(rand.NewSource(seed)),
		seats:        seats,
		phase:        PhaseIdle,
		currentActor: InvalidSeat,
	}
	if cfg.ForcedDealerChair != nil {
		e.dealerSeat = *cfg.ForcedDealerChair
	} else if len(seats) > 0 {
		e.dealerSeat = seats[0].ID
	}
	return e, nil
}

// StartHand begins a new hand per §4.4.1. If at most one seat remains in
// play the game ends instead.
func (e *HandEngine) StartHand() error {
	if e.phase != PhaseIdle && e.phase != PhaseGameOver {
		return ErrHandInProgress
	}
	remaining := e.notOutSeats()
	if len(remaining) <= 1 {
		e.phase = PhaseGameOver
		e.currentActor = InvalidSeat
		return nil
	}

	for _, s := range remaining {
		s.resetForHand()
	}
	e.activeSeats = remaining
	e.communityCards = nil
	// e.pot is deliberately not reset here: a showdown tie's remainder
	// carries forward into the next hand's pot (§4.4.5).
	e.lastSettlement = nil
	e.autoAdvancing = false
	e.acted = make(map[uint16]bool, len(remaining))

	if err := e.rebuildDeck(); err != nil {
		return err
	}
	if err := e.dealHoleCards(); err != nil {
		return err
	}

	e.buildRing()
	e.assignPositions()
	if err := e.postBlinds(); err != nil {
		return err
	}

	e.phase = PhasePreFlop
	e.currentBet = e.config.BigBlind
	e.currentActor = e.firstActorPreFlop()
	if len(e.ableToAct()) == 0 {
		// every seat went all-in just posting its blind; there is no
		// betting to wait for, only streets to deal.
		e.autoAdvancing = true
		e.currentActor = InvalidSeat
	}
	return nil
}

func (e *HandEngine) notOutSeats() []*Seat {
	out := make([]*Seat, 0, len(e.seats))
	for _, s := range e.seats {
		if !s.isOut {
			out = append(out, s)
		}
	}
	return out
}

func (e *HandEngine) rebuildDeck() error {
	if len(e.config.DeckOverride) > 0 {
		e.deck = card.NewDeckFromCards(e.config.DeckOverride)
		return nil
	}
	e.deck = card.NewDeck(e.rng)
	return nil
}

func (e *HandEngine) dealHoleCards() error {
	// two passes, as a real dealer would, though a pre-shuffled deck makes
	// the pass order cosmetic.
	for pass := 0; pass < 2; pass++ {
		for _, s := range e.activeSeats {
			dealt, err := e.deck.Deal(1)
			if err != nil {
				return err
			}
			s.dealHole(dealt...)
		}
	}
	return nil
}

// buildRing links activeSeats into a circular list in roster order and
// indexes it by seat id for O(1) lookup when assigning positions.
func (e *HandEngine) buildRing() {
	n := len(e.activeSeats)
	nodes := make([]*seatNode, n)
	for i, s := range e.activeSeats {
		nodes[i] = &seatNode{seat: s}
	}
	for i := range nodes {
		nodes[i].next = nodes[(i+1)%n]
	}
	e.ring = make(map[uint16]*seatNode, n)
	for _, nd := range nodes {
		e.ring[nd.seat.ID] = nd
	}
}

// assignPositions derives smallBlindSeat/bigBlindSeat from the dealer button
// per §4.4.2. The button itself advances between hands, in EndHandAndRotate;
// here it only needs a fallback for the case where its seat busted out.
func (e *HandEngine) assignPositions() {
	if _, ok := e.ring[e.dealerSeat]; !ok {
		e.dealerSeat = e.activeSeats[0].ID
	}
	dealerNode := e.ring[e.dealerSeat]
	if len(e.activeSeats) == 2 {
		// heads-up: dealer posts small blind, opponent posts big blind.
		e.smallBlindSeat = e.dealerSeat
		e.bigBlindSeat = dealerNode.next.seat.ID
	} else {
		e.smallBlindSeat = dealerNode.next.seat.ID
		e.bigBlindSeat = dealerNode.next.next.seat.ID
	}
}

// postBlinds moves the forced bets straight into the pot via the seat's
// normal applyAction primitive (§4.4.2). A seat with fewer chips than its
// blind posts all it has and is marked all-in.
func (e *HandEngine) postBlinds() error {
	e.postOneBlind(e.smallBlindSeat, e.config.SmallBlind)
	e.postOneBlind(e.bigBlindSeat, e.config.BigBlind)
	return nil
}

func (e *HandEngine) postOneBlind(seatID uint16, blind int64) {
	s := e.seatByID(seatID)
	if s == nil {
		return
	}
	if blind >= s.Chips {
		e.pot = s.applyAction(ActionAllIn, 0, e.pot)
		return
	}
	e.pot = s.applyAction(ActionBet, blind, e.pot)
}

// firstActorPreFlop is the seat after the big blind, which in heads-up play
// is the dealer (since the dealer already sits as small blind).
func (e *HandEngine) firstActorPreFlop() uint16 {
	bbNode, ok := e.ring[e.bigBlindSeat]
	if !ok {
		return InvalidSeat
	}
	nd := e.findNextActing(bbNode.next)
	if nd == nil {
		return InvalidSeat
	}
	return nd.seat.ID
}

// firstActorPostFlop is the first able-to-act seat clockwise from the
// dealer, the standard post-flop action order.
func (e *HandEngine) firstActorPostFlop() uint16 {
	dealerNode, ok := e.ring[e.dealerSeat]
	if !ok {
		return InvalidSeat
	}
	nd := e.findNextActing(dealerNode.next)
	if nd == nil {
		return InvalidSeat
	}
	return nd.seat.ID
}

// findNextActing walks forward from start (inclusive) for the next seat
// still able to act this round: not folded, not all-in, not out.
func (e *HandEngine) findNextActing(start *seatNode) *seatNode {
	return start.walkFrom(func(n *seatNode) bool {
		s := n.seat
		return !s.hasFolded && !s.isAllIn && !s.isOut
	})
}

func (e *HandEngine) seatByID(id uint16) *Seat {
	for _, s := range e.activeSeats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (e *HandEngine) seatsInOrder() []*Seat {
	if e.phase == PhaseIdle || e.phase == PhaseGameOver {
		return e.seats
	}
	return e.activeSeats
}

func (e *HandEngine) currentActorSeat() uint16 { return e.currentActor }

// Phase reports the hand's current street, for callers (the room executor)
// that need to pick a pacing delay without reaching into engine internals.
func (e *HandEngine) Phase() Phase { return e.phase }

// minRaiseTo is an advisory minimum "raise to" total for clients; the
// engine does not enforce a minimum raise delta (§9 open question).
func (e *HandEngine) minRaiseTo() int64 {
	if e.currentBet == 0 {
		return e.config.BigBlind
	}
	return e.currentBet + e.config.BigBlind
}

// Act applies one player intent per §4.4.3.
func (e *HandEngine) Act(playerName string, action Action) (*ActResult, error) {
	if e.phase < PhasePreFlop || e.phase > PhaseRiver {
		return nil, ErrHandEnded
	}
	if e.autoAdvancing {
		return nil, ErrAutoAdvancing
	}
	actor := e.seatByID(e.currentActor)
	if actor == nil {
		return nil, errInvalidState("no current actor during active betting round")
	}
	if actor.Name != playerName {
		return nil, ErrOutOfTurn
	}

	result := &ActResult{Applied: action}

	switch action.Kind {
	case ActionFold:
		e.pot = actor.applyAction(ActionFold, 0, e.pot)

	case ActionCheck:
		if actor.currentBet != e.currentBet {
			return nil, ErrIllegalAction
		}
		e.pot = actor.applyAction(ActionCheck, 0, e.pot)

	case ActionCall:
		if e.currentBet <= actor.currentBet {
			return nil, ErrIllegalAction
		}
		delta := e.currentBet - actor.currentBet
		if delta >= actor.Chips {
			result.ConvertedToAllIn = delta > actor.Chips
			e.pot = actor.applyAction(ActionAllIn, 0, e.pot)
		} else {
			e.pot = actor.applyAction(ActionCall, delta, e.pot)
		}

	case ActionBet:
		if e.currentBet != 0 {
			return nil, ErrIllegalAction
		}
		if action.Amount <= 0 {
			return nil, ErrIllegalAction
		}
		if action.Amount >= actor.Chips {
			result.ConvertedToAllIn = action.Amount > actor.Chips
			e.pot = actor.applyAction(ActionAllIn, 0, e.pot)
			if actor.currentBet > e.currentBet {
				e.currentBet = actor.currentBet
			}
		} else {
			e.pot = actor.applyAction(ActionBet, action.Amount, e.pot)
			e.currentBet = actor.currentBet
		}

	case ActionRaise:
		if action.Amount <= e.currentBet {
			return nil, ErrIllegalAction
		}
		ceiling := actor.currentBet + actor.Chips
		if action.Amount >= ceiling {
			// a raise for the whole stack is an all-in; past the stack it
			// is auto-converted to one and flagged back to the client
			// (§4.4.3, §9).
			result.ConvertedToAllIn = action.Amount > ceiling
			e.pot = actor.applyAction(ActionAllIn, 0, e.pot)
			if actor.currentBet > e.currentBet {
				e.currentBet = actor.currentBet
			}
		} else {
			delta := action.Amount - actor.currentBet
			e.pot = actor.applyAction(ActionRaise, delta, e.pot)
			e.currentBet = actor.currentBet
		}

	case ActionAllIn:
		if actor.Chips <= 0 {
			return nil, ErrIllegalAction
		}
		e.pot = actor.applyAction(ActionAllIn, 0, e.pot)
		if actor.currentBet > e.currentBet {
			e.currentBet = actor.currentBet
		}

	default:
		return nil, ErrIllegalAction
	}

	e.acted[actor.ID] = true
	e.advanceActorAfter(actor)

	if e.roundComplete() {
		result.RoundClosed = true
		if err := e.closeRound(result); err != nil {
			return result, err
		}
	}
	result.HandEnded = e.phase == PhaseGameOver || (e.phase == PhaseShowdown && !e.autoAdvancing)
	result.AutoAdvancing = e.autoAdvancing
	return result, nil
}

func (e *HandEngine) advanceActorAfter(actor *Seat) {
	node, ok := e.ring[actor.ID]
	if !ok {
		e.currentActor = InvalidSeat
		return
	}
	nd := e.findNextActing(node.next)
	if nd == nil {
		e.currentActor = InvalidSeat
		return
	}
	e.currentActor = nd.seat.ID
}

// nonFolded returns every seat in the hand that has not folded.
func (e *HandEngine) nonFolded() []*Seat {
	out := make([]*Seat, 0, len(e.activeSeats))
	for _, s := range e.activeSeats {
		if !s.hasFolded {
			out = append(out, s)
		}
	}
	return out
}

// ableToAct returns non-folded, non-all-in, not-out seats: those who could
// still take a betting action this hand.
func (e *HandEngine) ableToAct() []*Seat {
	out := make([]*Seat, 0, len(e.activeSeats))
	for _, s := range e.activeSeats {
		if !s.hasFolded && !s.isAllIn && !s.isOut {
			out = append(out, s)
		}
	}
	return out
}

// roundComplete implements §4.4.4 (a) and (b).
func (e *HandEngine) roundComplete() bool {
	remaining := e.nonFolded()
	if len(remaining) <= 1 {
		return true
	}
	for _, s := range e.ableToAct() {
		if s.currentBet != e.currentBet {
			return false
		}
		if !e.acted[s.ID] {
			return false
		}
	}
	return true
}

// closeRound runs the §4.4.4 completion path: award-and-settle when only
// one contender remains, otherwise reset the round and transition the
// street, switching to auto-advance when no one remains able to act.
func (e *HandEngine) closeRound(result *ActResult) error {
	remaining := e.nonFolded()
	if len(remaining) <= 1 {
		e.phase = PhaseShowdown
		e.autoAdvancing = false
		e.currentActor = InvalidSeat
		settlement := e.settleNoShowdown(remaining[0])
		e.lastSettlement = settlement
		result.Settlement = settlement
		return nil
	}

	e.resetRoundState()
	if err := e.transitionStreet(); err != nil {
		return err
	}

	if e.phase == PhaseShowdown {
		settlement, err := e.settleShowdown()
		if err != nil {
			return err
		}
		e.lastSettlement = settlement
		result.Settlement = settlement
		e.autoAdvancing = false
		e.currentActor = InvalidSeat
		return nil
	}

	if len(e.ableToAct()) <= 1 {
		e.autoAdvancing = true
		e.currentActor = InvalidSeat
		return nil
	}
	e.autoAdvancing = false
	e.currentActor = e.firstActorPostFlop()
	return nil
}

func (e *HandEngine) resetRoundState() {
	for _, s := range e.activeSeats {
		s.resetForRound()
	}
	e.currentBet = 0
	e.acted = make(map[uint16]bool, len(e.activeSeats))
}

// transitionStreet deals the next street's community cards and moves phase
// forward one step, per the table in §4.4.4.
func (e *HandEngine) transitionStreet() error {
	switch e.phase {
	case PhasePreFlop:
		if err := e.dealCommunity(3); err != nil {
			return err
		}
		e.phase = PhaseFlop
	case PhaseFlop:
		if err := e.dealCommunity(1); err != nil {
			return err
		}
		e.phase = PhaseTurn
	case PhaseTurn:
		if err := e.dealCommunity(1); err != nil {
			return err
		}
		e.phase = PhaseRiver
	case PhaseRiver:
		e.phase = PhaseShowdown
	default:
		return errInvalidState("transitionStreet called outside PreFlop..River")
	}
	return nil
}

func (e *HandEngine) dealCommunity(n int) error {
	dealt, err := e.deck.Deal(n)
	if err != nil {
		return err
	}
	e.communityCards = append(e.communityCards, dealt...)
	return nil
}

// AdvanceAuto performs exactly one more paced step of the all-in
// auto-advance sequence (§4.4.6): the room executor calls this once per
// timer tick while AutoAdvancing() is true. It returns true once the hand
// has reached its terminal Showdown settlement.
func (e *HandEngine) AdvanceAuto() (done bool, settlement *SettlementResult, err error) {
	if !e.autoAdvancing {
		return true, e.lastSettlement, nil
	}
	if err := e.transitionStreet(); err != nil {
		return false, nil, err
	}
	if e.phase != PhaseShowdown {
		return false, nil, nil
	}
	settlement, err = e.settleShowdown()
	if err != nil {
		return false, nil, err
	}
	e.lastSettlement = settlement
	e.autoAdvancing = false
	return true, settlement, nil
}

func (e *HandEngine) AutoAdvancing() bool { return e.autoAdvancing }

// EndHandAndRotate closes out a settled hand (§4.4.1): seats with no chips
// left are marked out, and the dealer button advances to the next surviving
// seat. The room executor calls this after the fixed showdown-display delay,
// right before the next StartHand.
func (e *HandEngine) EndHandAndRotate() {
	for _, s := range e.activeSeats {
		if s.Chips == 0 {
			s.isOut = true
		}
	}
	e.advanceDealer()
	e.phase = PhaseIdle
	e.currentActor = InvalidSeat
}

// advanceDealer moves the button to the next seat still in the game.
func (e *HandEngine) advanceDealer() {
	node, ok := e.ring[e.dealerSeat]
	if !ok {
		return
	}
	next := node.next.walkFrom(func(n *seatNode) bool { return !n.seat.isOut })
	if next != nil {
		e.dealerSeat = next.seat.ID
	}
}

// LegalActions is a pure projection of what playerName may currently do;
// it returns nil if it is not that player's turn or no hand is active.
func (e *HandEngine) LegalActions(playerName string) []ActionKind {
	if e.phase < PhasePreFlop || e.phase > PhaseRiver || e.autoAdvancing {
		return nil
	}
	actor := e.seatByID(e.currentActor)
	if actor == nil || actor.Name != playerName {
		return nil
	}
	actions := []ActionKind{ActionFold}
	if actor.currentBet == e.currentBet {
		actions = append(actions, ActionCheck)
	} else {
		actions = append(actions, ActionCall)
	}
	if e.currentBet == 0 {
		actions = append(actions, ActionBet)
	} else {
		actions = append(actions, ActionRaise)
	}
	if actor.Chips > 0 {
		actions = append(actions, ActionAllIn)
	}
	return actions
}
