package holdem

import "testing"

func newTestEngine(t *testing.T, n int, seed int64) *HandEngine {
	t.Helper()
	seats := make([]*Seat, n)
	for i := 0; i < n; i++ {
		seats[i] = NewSeat(uint16(i), string(rune('A'+i)), 1000)
	}
	e, err := NewHandEngine("game-1", seats, Config{
		MaxSeats:   n,
		MinSeats:   2,
		SmallBlind: 50,
		BigBlind:   100,
		Seed:       seed,
	})
	if err != nil {
		t.Fatalf("NewHandEngine err: %v", err)
	}
	if err := e.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	return e
}

func actingSeatName(e *HandEngine) string {
	s := e.seatByID(e.currentActor)
	if s == nil {
		return ""
	}
	return s.Name
}

func TestStartHand_HeadsUpDealerIsSmallBlindAndFirstActor(t *testing.T) {
	e := newTestEngine(t, 2, 1)
	if e.smallBlindSeat != e.dealerSeat {
		t.Fatalf("expected dealer to be small blind heads-up")
	}
	if e.currentActor != e.dealerSeat {
		t.Fatalf("expected dealer to act first heads-up, got seat %d (dealer=%d)", e.currentActor, e.dealerSeat)
	}
}

func TestRoundCompletion_BigBlindGetsOptionAfterCalls(t *testing.T) {
	e := newTestEngine(t, 3, 2)
	// Drive every actor through a call/check until the flop is reached,
	// then assert the big blind never has to act twice without a raise in
	// between.
	seenActors := map[uint16]int{}
	for i := 0; i < 10 && e.phase == PhasePreFlop; i++ {
		actor := e.currentActor
		seenActors[actor]++
		if seenActors[actor] > 1 {
			t.Fatalf("big blind option violated: seat %d acted twice with no intervening raise", actor)
		}
		name := actingSeatName(e)
		s := e.seatByID(actor)
		var action Action
		if s.currentBet == e.currentBet {
			action = Action{Kind: ActionCheck}
		} else {
			action = Action{Kind: ActionCall}
		}
		if _, err := e.Act(name, action); err != nil {
			t.Fatalf("Act err: %v", err)
		}
	}
	if e.phase != PhaseFlop {
		t.Fatalf("expected flop after preflop round closes, got %v", e.phase)
	}
	if len(e.communityCards) != 3 {
		t.Fatalf("expected 3 community cards on flop, got %d", len(e.communityCards))
	}
	if e.pot != 300 {
		t.Fatalf("expected pot=300 (3 x 100), got %d", e.pot)
	}
}

func TestIllegalCheckRejected(t *testing.T) {
	e := newTestEngine(t, 2, 3)
	actor := e.currentActor
	name := actingSeatName(e)
	s := e.seatByID(actor)
	if s.currentBet == e.currentBet {
		t.Fatalf("test setup expects actor to face a bet, got parity")
	}
	potBefore := e.pot
	phaseBefore := e.phase
	_, err := e.Act(name, Action{Kind: ActionCheck})
	if err != ErrIllegalAction {
		t.Fatalf("expected ErrIllegalAction, got %v", err)
	}
	if e.pot != potBefore || e.phase != phaseBefore {
		t.Fatalf("engine state must be unchanged after a rejected action")
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	e := newTestEngine(t, 2, 4)
	actor := e.currentActor
	var other *Seat
	for _, s := range e.activeSeats {
		if s.ID != actor {
			other = s
		}
	}
	_, err := e.Act(other.Name, Action{Kind: ActionFold})
	if err != ErrOutOfTurn {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
}

func TestFoldToOneSeatEndsHandWithoutShowdownReveal(t *testing.T) {
	e := newTestEngine(t, 2, 5)
	name := actingSeatName(e)
	result, err := e.Act(name, Action{Kind: ActionFold})
	if err != nil {
		t.Fatalf("Act err: %v", err)
	}
	if result.Settlement == nil || !result.Settlement.NoShowdown {
		t.Fatalf("expected a no-showdown settlement after the only other seat folds")
	}
	if len(result.Settlement.SeatResults) != 1 {
		t.Fatalf("expected exactly one seat result, no hands revealed")
	}
}

func TestHeadsUpAllInTriggersAutoAdvance(t *testing.T) {
	e := newTestEngine(t, 2, 6)
	name := actingSeatName(e)
	if _, err := e.Act(name, Action{Kind: ActionAllIn}); err != nil {
		t.Fatalf("Act err: %v", err)
	}
	name = actingSeatName(e)
	result, err := e.Act(name, Action{Kind: ActionCall})
	if err != nil {
		t.Fatalf("Act err: %v", err)
	}
	if !result.AutoAdvancing && result.Settlement == nil {
		t.Fatalf("expected auto-advance or an immediate settlement once both seats are all-in")
	}
	if !e.autoAdvancing && result.Settlement == nil {
		t.Fatalf("expected engine.autoAdvancing once both seats are committed with no further action")
	}
	if _, err := e.Act(name, Action{Kind: ActionFold}); err != ErrAutoAdvancing && err != ErrHandEnded {
		t.Fatalf("expected actions to be rejected during auto-advance, got %v", err)
	}

	steps := 0
	for e.AutoAdvancing() && steps < 10 {
		done, _, err := e.AdvanceAuto()
		if err != nil {
			t.Fatalf("AdvanceAuto err: %v", err)
		}
		steps++
		if done {
			break
		}
	}
	if e.phase != PhaseShowdown {
		t.Fatalf("expected showdown after auto-advance completes, got %v", e.phase)
	}
	if len(e.communityCards) != 5 {
		t.Fatalf("expected all 5 community cards dealt, got %d", len(e.communityCards))
	}
}

func TestDealerButtonAdvancesEachHand(t *testing.T) {
	e := newTestEngine(t, 3, 8)
	first := e.dealerSeat
	for i := 0; i < 5 && e.lastSettlement == nil; i++ {
		name := actingSeatName(e)
		if _, err := e.Act(name, Action{Kind: ActionFold}); err != nil {
			t.Fatalf("Act err: %v", err)
		}
	}
	if e.lastSettlement == nil {
		t.Fatalf("expected folds to settle the hand")
	}
	e.EndHandAndRotate()
	if err := e.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	if e.dealerSeat == first {
		t.Fatalf("expected the button to advance off seat %d for the next hand", first)
	}
	if e.dealerSeat != (first+1)%3 {
		t.Fatalf("expected the button on the next seat in order, got %d", e.dealerSeat)
	}
}

func TestRaiseBeyondStackConvertsToAllIn(t *testing.T) {
	e := newTestEngine(t, 2, 9)
	name := actingSeatName(e)
	actor := e.seatByID(e.currentActor)
	result, err := e.Act(name, Action{Kind: ActionRaise, Amount: 5000})
	if err != nil {
		t.Fatalf("Act err: %v", err)
	}
	if !result.ConvertedToAllIn {
		t.Fatalf("expected an over-stack raise to be converted to all-in")
	}
	if !actor.isAllIn || actor.Chips != 0 {
		t.Fatalf("expected the actor all-in with no chips, got allIn=%v chips=%d", actor.isAllIn, actor.Chips)
	}
	if e.currentBet != 1000 {
		t.Fatalf("expected the highest bet to track the all-in total, got %d", e.currentBet)
	}
}

func TestBetOfWholeStackIsAllIn(t *testing.T) {
	e := newTestEngine(t, 2, 10)
	// preflop: dealer calls, big blind checks, so the flop opens with no
	// standing bet and the first actor free to bet the stack.
	for e.phase == PhasePreFlop {
		name := actingSeatName(e)
		s := e.seatByID(e.currentActor)
		action := Action{Kind: ActionCheck}
		if s.currentBet != e.currentBet {
			action = Action{Kind: ActionCall}
		}
		if _, err := e.Act(name, action); err != nil {
			t.Fatalf("Act err: %v", err)
		}
	}
	name := actingSeatName(e)
	actor := e.seatByID(e.currentActor)
	result, err := e.Act(name, Action{Kind: ActionBet, Amount: actor.Chips})
	if err != nil {
		t.Fatalf("Act err: %v", err)
	}
	if result.ConvertedToAllIn {
		t.Fatalf("a bet of exactly the stack is a legal amount, not a conversion")
	}
	if !actor.isAllIn {
		t.Fatalf("expected a whole-stack bet to leave the seat all-in")
	}
	if e.currentBet != actor.currentBet {
		t.Fatalf("expected the highest bet to follow the all-in bet, got %d want %d", e.currentBet, actor.currentBet)
	}
}

func TestChipsConservedAcrossAHand(t *testing.T) {
	e := newTestEngine(t, 3, 7)
	total := int64(0)
	for _, s := range e.activeSeats {
		total += s.Chips
	}
	total += e.pot

	for i := 0; i < 20 && (e.phase >= PhasePreFlop && e.phase <= PhaseRiver); i++ {
		actor := e.currentActor
		name := actingSeatName(e)
		s := e.seatByID(actor)
		action := Action{Kind: ActionCall}
		if s.currentBet == e.currentBet {
			action = Action{Kind: ActionCheck}
		}
		if _, err := e.Act(name, action); err != nil {
			t.Fatalf("Act err: %v", err)
		}
	}

	sum := int64(0)
	for _, s := range e.activeSeats {
		sum += s.Chips
	}
	sum += e.pot
	if sum != total {
		t.Fatalf("chips not conserved: started with %d, now %d", total, sum)
	}

	// the deck is conserved too: every card is either undealt, on the
	// board, or in a hole.
	accounted := e.deck.Remaining() + len(e.communityCards) + 2*len(e.activeSeats)
	if accounted != 52 {
		t.Fatalf("cards not conserved: %d accounted for", accounted)
	}
}
