package holdem

import (
	"testing"

	"holdemhall/card"
)

func mustCard(t *testing.T, rank string, suit card.Suit, value int) card.Card {
	t.Helper()
	c, err := card.New(rank, suit, value)
	if err != nil {
		t.Fatalf("card.New(%s,%s,%d) err: %v", rank, suit, value, err)
	}
	return c
}

func TestEvaluate_RoyalFlushBeatsFourOfAKind(t *testing.T) {
	hole := []card.Card{
		mustCard(t, "Ace", card.Spades, 14),
		mustCard(t, "King", card.Spades, 13),
	}
	community := []card.Card{
		mustCard(t, "Queen", card.Spades, 12),
		mustCard(t, "Jack", card.Spades, 11),
		mustCard(t, "10", card.Spades, 10),
		mustCard(t, "2", card.Clubs, 2),
		mustCard(t, "2", card.Hearts, 2),
	}
	_, rank, err := Evaluate(hole, community)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}
	if rank != RoyalFlush {
		t.Fatalf("expected royal flush, got %v", rank)
	}

	// the board already pairs the 2s, so the other two 2s make quads.
	quadHole := []card.Card{
		mustCard(t, "2", card.Spades, 2),
		mustCard(t, "2", card.Diamonds, 2),
	}
	_, quadRank, err := Evaluate(quadHole, community)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}
	if quadRank != FourOfKind {
		t.Fatalf("expected four of a kind, got %v", quadRank)
	}
	if quadRank >= RoyalFlush {
		t.Fatalf("four of a kind must lose to royal flush")
	}
}

func TestEvaluate_WheelLosesToSixHighStraight(t *testing.T) {
	wheelHole := []card.Card{
		mustCard(t, "Ace", card.Spades, 14),
		mustCard(t, "2", card.Hearts, 2),
	}
	wheelCommunity := []card.Card{
		mustCard(t, "3", card.Clubs, 3),
		mustCard(t, "4", card.Diamonds, 4),
		mustCard(t, "5", card.Spades, 5),
	}
	wheelBest, wheelRank, err := Evaluate(wheelHole, wheelCommunity)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}
	if wheelRank != Straight {
		t.Fatalf("expected straight for wheel, got %v", wheelRank)
	}
	wheelScore := classifyAll(wheelBest)
	if wheelScore.tiebreak[0] != 5 {
		t.Fatalf("expected wheel to rank as 5-high, got top=%d", wheelScore.tiebreak[0])
	}

	sixHighHole := []card.Card{
		mustCard(t, "6", card.Spades, 6),
		mustCard(t, "2", card.Hearts, 2),
	}
	sixHighBest, sixHighRank, err := Evaluate(sixHighHole, wheelCommunity)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}
	if sixHighRank != Straight {
		t.Fatalf("expected straight, got %v", sixHighRank)
	}
	sixHighScore := classifyAll(sixHighBest)
	if !wheelScore.less(sixHighScore) {
		t.Fatalf("expected 6-high straight to beat the wheel")
	}
}

func TestEvaluate_FourOfAKindResolvedByKicker(t *testing.T) {
	community := []card.Card{
		mustCard(t, "King", card.Spades, 13),
		mustCard(t, "King", card.Hearts, 13),
		mustCard(t, "King", card.Clubs, 13),
		mustCard(t, "King", card.Diamonds, 13),
		mustCard(t, "2", card.Spades, 2),
	}
	lowKicker := []card.Card{
		mustCard(t, "3", card.Hearts, 3),
		mustCard(t, "4", card.Clubs, 4),
	}
	highKicker := []card.Card{
		mustCard(t, "Ace", card.Hearts, 14),
		mustCard(t, "4", card.Clubs, 4),
	}
	lowBest, lowRank, err := Evaluate(lowKicker, community)
	if err != nil || lowRank != FourOfKind {
		t.Fatalf("Evaluate err=%v rank=%v", err, lowRank)
	}
	highBest, highRank, err := Evaluate(highKicker, community)
	if err != nil || highRank != FourOfKind {
		t.Fatalf("Evaluate err=%v rank=%v", err, highRank)
	}
	if !classifyAll(lowBest).less(classifyAll(highBest)) {
		t.Fatalf("expected ace kicker to beat 3 kicker with matching quads")
	}
}

func TestEvaluate_OrderIndependent(t *testing.T) {
	hole := []card.Card{
		mustCard(t, "Ace", card.Spades, 14),
		mustCard(t, "Ace", card.Hearts, 14),
	}
	community := []card.Card{
		mustCard(t, "King", card.Clubs, 13),
		mustCard(t, "King", card.Diamonds, 13),
		mustCard(t, "2", card.Spades, 2),
		mustCard(t, "3", card.Hearts, 3),
		mustCard(t, "4", card.Clubs, 4),
	}
	_, rank1, err := Evaluate(hole, community)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}

	reversed := make([]card.Card, len(community))
	for i, c := range community {
		reversed[len(community)-1-i] = c
	}
	_, rank2, err := Evaluate([]card.Card{hole[1], hole[0]}, reversed)
	if err != nil {
		t.Fatalf("Evaluate err: %v", err)
	}
	if rank1 != rank2 {
		t.Fatalf("expected evaluator to be order-independent: %v != %v", rank1, rank2)
	}
}

func TestEvaluate_RejectsDuplicateCards(t *testing.T) {
	dup := mustCard(t, "Ace", card.Spades, 14)
	_, _, err := Evaluate([]card.Card{dup, dup}, []card.Card{
		mustCard(t, "King", card.Clubs, 13),
		mustCard(t, "2", card.Hearts, 2),
		mustCard(t, "3", card.Diamonds, 3),
	})
	if err == nil {
		t.Fatalf("expected error on duplicate cards")
	}
}
