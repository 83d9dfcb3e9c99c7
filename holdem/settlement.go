package holdem

import (
	"sort"

	"holdemhall/card"
)

// SeatResult is one seat's showdown outcome.
type SeatResult struct {
	SeatID   uint16        `json:"seatId"`
	HandRank HandRank      `json:"handRank"`
	BestHand card.CardList `json:"bestHand,omitempty"`
	IsWinner bool          `json:"isWinner"`
	ChipsWon int64         `json:"chipsWon"`
}

// SettlementResult is the outcome of awarding a hand's pot, either by
// showdown or by a lone survivor after everyone else folded.
type SettlementResult struct {
	SeatResults []SeatResult `json:"seatResults"`
	PotAwarded  int64        `json:"potAwarded"`
	Winners     []uint16     `json:"winners"`
	NoShowdown  bool         `json:"noShowdown"`
}

// settleNoShowdown awards the whole pot to the single remaining seat
// without revealing any cards (§4.4.4: "the lone survivor gets the whole
// pot without card reveal").
func (e *HandEngine) settleNoShowdown(survivor *Seat) *SettlementResult {
	survivor.Chips += e.pot
	result := &SettlementResult{
		PotAwarded: e.pot,
		Winners:    []uint16{survivor.ID},
		NoShowdown: true,
		SeatResults: []SeatResult{
			{SeatID: survivor.ID, IsWinner: true, ChipsWon: e.pot},
		},
	}
	e.pot = 0
	return result
}

// settleShowdown evaluates every non-folded seat's best hand, determines
// the winner set (§4.4.5: equal rank and tie-break under §4.2), and splits
// the pot equally among them. Any remainder stays in the pot as carry-over
// to the next hand, per the documented equal-split behaviour (§9, Non-goals).
func (e *HandEngine) settleShowdown() (*SettlementResult, error) {
	type evaluated struct {
		seat  *Seat
		rank  HandRank
		score []card.Card
	}

	contenders := make([]evaluated, 0, len(e.activeSeats))
	for _, s := range e.activeSeats {
		if s.hasFolded {
			continue
		}
		best, rank, err := Evaluate(s.holeCards, e.communityCards)
		if err != nil {
			return nil, err
		}
		s.setShowdownHand(best, rank)
		contenders = append(contenders, evaluated{seat: s, rank: rank, score: best})
	}
	if len(contenders) == 0 {
		return nil, errInvalidState("showdown with no contenders")
	}

	winners := []*Seat{contenders[0].seat}
	bestScore := classifyAll(contenders[0].score)
	for _, c := range contenders[1:] {
		score := classifyAll(c.score)
		if bestScore.less(score) {
			bestScore = score
			winners = []*Seat{c.seat}
		} else if score.equal(bestScore) {
			winners = append(winners, c.seat)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].ID < winners[j].ID })

	// §4.4.5: each winner gets an equal share; any remainder is carried
	// over in the pot for the next hand rather than awarded to anyone.
	share, remainder := splitPot(e.pot, len(winners))
	awarded := e.pot - remainder

	result := &SettlementResult{PotAwarded: awarded}
	winnerIDs := make(map[uint16]bool, len(winners))
	for _, w := range winners {
		w.Chips += share
		winnerIDs[w.ID] = true
		result.Winners = append(result.Winners, w.ID)
	}
	e.pot = remainder

	for _, c := range contenders {
		chipsWon := int64(0)
		if winnerIDs[c.seat.ID] {
			chipsWon = share
		}
		result.SeatResults = append(result.SeatResults, SeatResult{
			SeatID:   c.seat.ID,
			HandRank: c.rank,
			BestHand: c.seat.bestHand,
			IsWinner: winnerIDs[c.seat.ID],
			ChipsWon: chipsWon,
		})
	}
	sort.Slice(result.SeatResults, func(i, j int) bool { return result.SeatResults[i].SeatID < result.SeatResults[j].SeatID })
	return result, nil
}

// classifyAll re-derives the tie-break score for an already-chosen best
// five so showdown comparisons reuse the same ordering the evaluator used
// internally, without re-enumerating combinations.
func classifyAll(best []card.Card) handScore {
	var five [5]card.Card
	copy(five[:], best)
	return classify(five)
}
