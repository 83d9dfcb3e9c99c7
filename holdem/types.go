package holdem

import (
	"encoding/json"
	"fmt"
)

// InvalidSeat marks "no seat" in position fields (dealer/actor/etc. before a
// hand has started, or once a hand has ended).
const InvalidSeat uint16 = 65535

// Phase is the hand's position in the state machine of §4.4.7:
// Idle -> PreFlop -> Flop -> Turn -> River -> Showdown -> (Idle | GameOver).
type Phase byte

const (
	PhaseIdle Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseIdle:     "idle",
	PhasePreFlop:  "preflop",
	PhaseFlop:     "flop",
	PhaseTurn:     "turn",
	PhaseRiver:    "river",
	PhaseShowdown: "showdown",
	PhaseGameOver: "gameover",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

var phaseWireNames = map[Phase]string{
	PhaseIdle:     "IDLE",
	PhasePreFlop:  "PRE_FLOP",
	PhaseFlop:     "FLOP",
	PhaseTurn:     "TURN",
	PhaseRiver:    "RIVER",
	PhaseShowdown: "SHOWDOWN",
	PhaseGameOver: "GAME_OVER",
}

// MarshalJSON renders Phase using the wire vocabulary (§6 snapshot payload),
// distinct from the lowercase names String() uses in log lines.
func (p Phase) MarshalJSON() ([]byte, error) {
	s, ok := phaseWireNames[p]
	if !ok {
		s = "UNKNOWN"
	}
	return json.Marshal(s)
}

// ActionKind is one arm of the action variant (§9 design note: "variant over
// enum-of-actions"). Amount is meaningful only for Bet/Raise.
type ActionKind byte

const (
	ActionFold ActionKind = iota
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionAllIn
)

var actionNames = map[ActionKind]string{
	ActionFold:  "FOLD",
	ActionCheck: "CHECK",
	ActionCall:  "CALL",
	ActionBet:   "BET",
	ActionRaise: "RAISE",
	ActionAllIn: "ALL_IN",
}

func (a ActionKind) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalJSON renders an ActionKind as the wire string (§6: `action ∈
// {FOLD,CHECK,CALL,BET,RAISE,ALL_IN}`).
func (a ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON parses the wire string form of an ActionKind from an inbound
// `/api/game/{gameId}/action` request body.
func (a *ActionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range actionNames {
		if name == s {
			*a = kind
			return nil
		}
	}
	return fmt.Errorf("holdem: unknown action %q", s)
}

// Action is the tagged variant a caller submits to HandEngine.Act: a kind
// plus an amount that is only consulted for Bet and Raise.
type Action struct {
	Kind   ActionKind `json:"action"`
	Amount int64      `json:"amount,omitempty"`
}

// HandRank classifies a best-five-card hand, worst to best.
type HandRank byte

const (
	NoHand HandRank = iota
	HighCard
	OnePair
	TwoPair
	ThreeOfKind
	Straight
	Flush
	FullHouse
	FourOfKind
	StraightFlush
	RoyalFlush
)

var handRankNames = map[HandRank]string{
	NoHand:        "no hand",
	HighCard:      "high card",
	OnePair:       "one pair",
	TwoPair:       "two pair",
	ThreeOfKind:   "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfKind:    "four of a kind",
	StraightFlush: "straight flush",
	RoyalFlush:    "royal flush",
}

func (r HandRank) String() string {
	if s, ok := handRankNames[r]; ok {
		return s
	}
	return "unknown"
}

var handRankWireNames = map[HandRank]string{
	NoHand:        "NO_HAND",
	HighCard:      "HIGH_CARD",
	OnePair:       "ONE_PAIR",
	TwoPair:       "TWO_PAIR",
	ThreeOfKind:   "THREE_OF_A_KIND",
	Straight:      "STRAIGHT",
	Flush:         "FLUSH",
	FullHouse:     "FULL_HOUSE",
	FourOfKind:    "FOUR_OF_A_KIND",
	StraightFlush: "STRAIGHT_FLUSH",
	RoyalFlush:    "ROYAL_FLUSH",
}

// MarshalJSON renders HandRank using the §4.2 classification vocabulary.
func (r HandRank) MarshalJSON() ([]byte, error) {
	s, ok := handRankWireNames[r]
	if !ok {
		s = "UNKNOWN"
	}
	return json.Marshal(s)
}
