package card

// ranks lists the thirteen rank names in ascending value order, 2..14.
var ranks = []struct {
	name  string
	value int
}{
	{"2", 2}, {"3", 3}, {"4", 4}, {"5", 5}, {"6", 6}, {"7", 7}, {"8", 8},
	{"9", 9}, {"10", 10}, {"Jack", 11}, {"Queen", 12}, {"King", 13}, {"Ace", 14},
}

var suitOrder = [4]Suit{Spades, Hearts, Clubs, Diamonds}

// FullSet returns the fixed, ordered 52-card set: four suits times
// thirteen ranks, always in the same order. A fresh Deck permutes a copy
// of this set at construction time.
func FullSet() []Card {
	out := make([]Card, 0, 52)
	for _, s := range suitOrder {
		for _, r := range ranks {
			out = append(out, mustNew(r.name, s, r.value))
		}
	}
	return out
}
