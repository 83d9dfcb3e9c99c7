package holdem

import (
	"fmt"
	"time"

	"holdemhall/card"
)

// Config holds the per-room parameters a HandEngine is constructed with.
type Config struct {
	MaxSeats int
	MinSeats int

	SmallBlind int64
	BigBlind   int64

	// RNG seed for the per-hand deck shuffle; 0 means time-based.
	Seed int64

	// Pacing for the all-in auto-advance ladder and the post-showdown
	// display delay (§4.4.6). Zero values fall back to the package
	// defaults below.
	AutoAdvanceStreetDelay time.Duration
	AutoAdvanceShowdownDelay time.Duration
	ShowdownDisplayDelay     time.Duration

	// ForcedDealerChair and DeckOverride pin the dealer seat and deck
	// order for deterministic reconstruction in tests.
	ForcedDealerChair *uint16
	DeckOverride      []card.Card
}

const (
	defaultAutoAdvanceStreetDelay   = 3 * time.Second
	defaultAutoAdvanceShowdownDelay = 2 * time.Second
	defaultShowdownDisplayDelay     = 5 * time.Second
)

func (c Config) validate() error {
	if c.MaxSeats <= 0 {
		return fmt.Errorf("holdem: MaxSeats must be > 0")
	}
	if c.MinSeats <= 0 {
		return fmt.Errorf("holdem: MinSeats must be > 0")
	}
	if c.MinSeats > c.MaxSeats {
		return fmt.Errorf("holdem: MinSeats must be <= MaxSeats")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("holdem: invalid blinds sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.ForcedDealerChair != nil && int(*c.ForcedDealerChair) >= c.MaxSeats {
		return fmt.Errorf("holdem: forced dealer seat out of range: %d", *c.ForcedDealerChair)
	}
	if err := validateDeckOverride(c.DeckOverride); err != nil {
		return err
	}
	return nil
}

func validateDeckOverride(deck []card.Card) error {
	if len(deck) == 0 {
		return nil
	}
	full := card.FullSet()
	if len(deck) != len(full) {
		return fmt.Errorf("holdem: deck override must contain %d cards, got %d", len(full), len(deck))
	}
	valid := make(map[card.Card]struct{}, len(full))
	for _, c := range full {
		valid[c] = struct{}{}
	}
	seen := make(map[card.Card]struct{}, len(deck))
	for i, c := range deck {
		if _, ok := valid[c]; !ok {
			return fmt.Errorf("holdem: deck override contains invalid card at index %d", i)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("holdem: deck override contains duplicate card at index %d", i)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// StreetDelay is the pacing between two auto-advanced streets (§4.4.6),
// falling back to the package default when unset.
func (c Config) StreetDelay() time.Duration {
	if c.AutoAdvanceStreetDelay > 0 {
		return c.AutoAdvanceStreetDelay
	}
	return defaultAutoAdvanceStreetDelay
}

// AutoShowdownDelay is the pacing before the final auto-advanced street
// turns into the showdown itself.
func (c Config) AutoShowdownDelay() time.Duration {
	if c.AutoAdvanceShowdownDelay > 0 {
		return c.AutoAdvanceShowdownDelay
	}
	return defaultAutoAdvanceShowdownDelay
}

// ShowdownDisplayDelayOrDefault is how long a finished hand's result stays
// on screen before the next hand is dealt.
func (c Config) ShowdownDisplayDelayOrDefault() time.Duration {
	if c.ShowdownDisplayDelay > 0 {
		return c.ShowdownDisplayDelay
	}
	return defaultShowdownDisplayDelay
}
