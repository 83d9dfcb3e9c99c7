package holdem

import "holdemhall/card"

// SeatView is one seat's externally visible state, shaped for a single
// viewer (§4.5). Opponent hole cards are withheld until Showdown.
type SeatView struct {
	ID             uint16        `json:"id"`
	Name           string        `json:"name"`
	Chips          int64         `json:"chips"`
	CurrentBet     int64         `json:"currentBet"`
	Status         string        `json:"status"` // active | folded | all-in
	HasFolded      bool          `json:"hasFolded"`
	IsAllIn        bool          `json:"isAllIn"`
	IsOut          bool          `json:"isOut"`
	IsCurrentActor bool          `json:"isCurrentPlayer"`
	IsDealer       bool          `json:"isDealer"`
	IsSmallBlind   bool          `json:"isSmallBlind"`
	IsBigBlind     bool          `json:"isBigBlind"`
	HoleCards      card.CardList `json:"cards,omitempty"` // nil unless viewer == seat, or Showdown has revealed it
	HandRank       HandRank      `json:"handRank,omitempty"`
	BestHand       card.CardList `json:"bestHand,omitempty"`
	IsWinner       bool          `json:"isWinner,omitempty"` // only on the Showdown snapshot right after settlement
	ChipsWon       int64         `json:"chipsWon,omitempty"`
}

// Snapshot is the engine's full, viewer-scoped read model: what a single
// connected player is allowed to see right now (§4.5, §6 state payload).
type Snapshot struct {
	GameID            string        `json:"gameId"`
	Phase             Phase         `json:"phase"`
	Pot               int64         `json:"pot"`
	CurrentBet        int64         `json:"currentBet"`
	CommunityCards    card.CardList `json:"communityCards"`
	CurrentPlayerName string        `json:"currentPlayerName,omitempty"`
	Seats             []SeatView    `json:"players"`
	DealerSeat        uint16        `json:"dealerSeat"`
	SmallBlindSeat    uint16        `json:"smallBlindSeat"`
	BigBlindSeat      uint16        `json:"bigBlindSeat"`
	CurrentActorSeat  uint16        `json:"currentActorSeat"`
	MinRaiseTo        int64         `json:"minRaiseTo"`
	IsAutoAdvancing   bool          `json:"isAutoAdvancing"`
	LegalActions      []ActionKind  `json:"legalActions,omitempty"` // what the viewer may do right now; nil off-turn
}

func seatStatus(s *Seat) string {
	switch {
	case s.hasFolded:
		return "folded"
	case s.isAllIn:
		return "all-in"
	default:
		return "active"
	}
}

// Snapshot renders the engine's current state for viewerName. Unless the
// hand is at or past Showdown, only the viewer's own hole cards are
// included; every other active seat's HoleCards is left nil. Showdown
// reveals the non-folded hands only: a mucked hand stays hidden from
// everyone but its owner.
func (e *HandEngine) Snapshot(viewerName string) Snapshot {
	revealAll := e.phase == PhaseShowdown || e.phase == PhaseGameOver

	snap := Snapshot{
		GameID:           e.GameID,
		Phase:            e.phase,
		Pot:              e.pot,
		CurrentBet:       e.currentBet,
		CommunityCards:   append(card.CardList{}, e.communityCards...),
		DealerSeat:       e.dealerSeat,
		SmallBlindSeat:   e.smallBlindSeat,
		BigBlindSeat:     e.bigBlindSeat,
		CurrentActorSeat: e.currentActorSeat(),
		MinRaiseTo:       e.minRaiseTo(),
		IsAutoAdvancing:  e.autoAdvancing,
	}
	if actor := e.seatByID(snap.CurrentActorSeat); actor != nil {
		snap.CurrentPlayerName = actor.Name
	}
	snap.LegalActions = e.LegalActions(viewerName)

	for _, s := range e.seatsInOrder() {
		view := SeatView{
			ID:             s.ID,
			Name:           s.Name,
			Chips:          s.Chips,
			CurrentBet:     s.currentBet,
			Status:         seatStatus(s),
			HasFolded:      s.hasFolded,
			IsAllIn:        s.isAllIn,
			IsOut:          s.isOut,
			IsCurrentActor: s.ID == snap.CurrentActorSeat,
			IsDealer:       s.ID == e.dealerSeat,
			IsSmallBlind:   s.ID == e.smallBlindSeat,
			IsBigBlind:     s.ID == e.bigBlindSeat,
		}
		if (revealAll && !s.hasFolded) || s.Name == viewerName {
			view.HoleCards = append(card.CardList{}, s.holeCards...)
		}
		if revealAll && len(s.bestHand) > 0 {
			view.HandRank = s.handRank
			view.BestHand = append(card.CardList{}, s.bestHand...)
		}
		if e.lastSettlement != nil {
			for _, r := range e.lastSettlement.SeatResults {
				if r.SeatID == s.ID {
					view.IsWinner = r.IsWinner
					view.ChipsWon = r.ChipsWon
				}
			}
		}
		snap.Seats = append(snap.Seats, view)
	}
	return snap
}
