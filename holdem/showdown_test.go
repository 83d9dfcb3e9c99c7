package holdem

import (
	"testing"

	"holdemhall/card"
)

// riggedDeck returns a full 52-card deck whose head is exactly `wanted`, in
// order, followed by every remaining card of the standard set in whatever
// order FullSet produces them. Used to force a specific deal deterministically.
func riggedDeck(t *testing.T, wanted []card.Card) []card.Card {
	t.Helper()
	used := make(map[card.Card]bool, len(wanted))
	for _, c := range wanted {
		used[c] = true
	}
	out := append([]card.Card{}, wanted...)
	for _, c := range card.FullSet() {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}

func TestShowdown_TiedBoardPlayingHandsSplitPotEvenly(t *testing.T) {
	aceSpades := mustCard(t, "Ace", card.Spades, 14)
	aceHearts := mustCard(t, "Ace", card.Hearts, 14)
	kingClubs := mustCard(t, "King", card.Clubs, 13)
	kingDiamonds := mustCard(t, "King", card.Diamonds, 13)
	queenSpades := mustCard(t, "Queen", card.Spades, 12)

	// both hole cards are low and irrelevant: the board alone (AA KK Q) is
	// each seat's best five, so the hands tie exactly.
	deckOrder := riggedDeck(t, []card.Card{
		mustCard(t, "2", card.Clubs, 2), mustCard(t, "3", card.Hearts, 3), // seat0 pass1, seat1 pass1
		mustCard(t, "4", card.Diamonds, 4), mustCard(t, "5", card.Clubs, 5), // seat0 pass2, seat1 pass2
		aceSpades, aceHearts, queenSpades, // flop
		kingClubs,  // turn
		kingDiamonds, // river
	})

	seats := []*Seat{
		NewSeat(0, "A", 1000),
		NewSeat(1, "B", 1000),
	}
	e, err := NewHandEngine("game-tied", seats, Config{
		MaxSeats:     2,
		MinSeats:     2,
		SmallBlind:   50,
		BigBlind:     100,
		Seed:         1,
		DeckOverride: deckOrder,
	})
	if err != nil {
		t.Fatalf("NewHandEngine err: %v", err)
	}
	if err := e.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// Drive every street to the river with checks/calls only (no raises),
	// so the board decides the hand.
	for i := 0; i < 20 && e.phase >= PhasePreFlop && e.phase <= PhaseRiver; i++ {
		name := actingSeatName(e)
		s := e.seatByID(e.currentActor)
		action := Action{Kind: ActionCheck}
		if s.currentBet != e.currentBet {
			action = Action{Kind: ActionCall}
		}
		result, err := e.Act(name, action)
		if err != nil {
			t.Fatalf("Act err: %v", err)
		}
		if result.Settlement != nil {
			if len(result.Settlement.Winners) != 2 {
				t.Fatalf("expected a tied pot split between both seats, got winners=%v", result.Settlement.Winners)
			}
			for _, sr := range result.Settlement.SeatResults {
				if sr.ChipsWon != 100 {
					t.Fatalf("expected each tied winner to gain 100 (pot 200 split two ways), got %d", sr.ChipsWon)
				}
			}
			return
		}
	}
	t.Fatalf("expected showdown settlement to have been reached")
}
