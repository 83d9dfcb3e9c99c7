package holdem

import (
	"fmt"
	"sort"

	"holdemhall/card"
)

// handScore is a totally ordered description of a classified 5-card hand:
// its rank category, then up to five tie-break values compared in
// descending significance (§4.2).
type handScore struct {
	rank     HandRank
	tiebreak [5]int
}

// less reports whether a is a strictly weaker hand than b.
func (a handScore) less(b handScore) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	for i := range a.tiebreak {
		if a.tiebreak[i] != b.tiebreak[i] {
			return a.tiebreak[i] < b.tiebreak[i]
		}
	}
	return false
}

func (a handScore) equal(b handScore) bool {
	return a.rank == b.rank && a.tiebreak == b.tiebreak
}

// Evaluate returns the best 5-card hand (and its rank) obtainable from two
// hole cards plus 3..5 community cards, per §4.2: enumerate every 5-card
// subset of the union and keep the highest-scoring one.
func Evaluate(hole []card.Card, community []card.Card) (best []card.Card, rank HandRank, err error) {
	if len(hole) != 2 {
		return nil, NoHand, fmt.Errorf("holdem: evaluator needs exactly 2 hole cards, got %d", len(hole))
	}
	if len(community) < 3 || len(community) > 5 {
		return nil, NoHand, fmt.Errorf("holdem: evaluator needs 3..5 community cards, got %d", len(community))
	}
	all := make([]card.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	if err := requireUnique(all); err != nil {
		return nil, NoHand, err
	}

	var bestScore handScore
	var bestCards []card.Card
	haveBest := false

	forEachCombination(len(all), 5, func(idx []int) {
		five := [5]card.Card{all[idx[0]], all[idx[1]], all[idx[2]], all[idx[3]], all[idx[4]]}
		score := classify(five)
		if !haveBest || bestScore.less(score) {
			bestScore = score
			bestCards = append([]card.Card{}, five[:]...)
			haveBest = true
		}
	})

	if !haveBest {
		return nil, NoHand, errInvalidState("evaluator found no combination")
	}
	return bestCards, bestScore.rank, nil
}

func requireUnique(cards []card.Card) error {
	seen := make(map[card.Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("holdem: duplicate card %v", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// forEachCombination invokes fn with every k-length index combination of
// [0,n), each in ascending order.
func forEachCombination(n, k int, fn func(idx []int)) {
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// classify scores an unordered 5-card hand per the rules in §4.2.
func classify(cards [5]card.Card) handScore {
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for _, c := range cards {
		if c.Suit() != cards[0].Suit() {
			flush = false
			break
		}
	}

	straight, straightTop := isStraight(values)

	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	// group values by count, each group sorted descending by value.
	byCount := map[int][]int{}
	for v, n := range counts {
		byCount[n] = append(byCount[n], v)
	}
	for n := range byCount {
		sort.Sort(sort.Reverse(sort.IntSlice(byCount[n])))
	}

	switch {
	case flush && straight && straightTop == 14:
		return handScore{rank: RoyalFlush, tiebreak: [5]int{straightTop}}
	case flush && straight:
		return handScore{rank: StraightFlush, tiebreak: [5]int{straightTop}}
	case len(byCount[4]) == 1:
		quad := byCount[4][0]
		kicker := highestExcluding(values, quad)
		return handScore{rank: FourOfKind, tiebreak: [5]int{quad, kicker}}
	case len(byCount[3]) == 1 && len(byCount[2]) >= 1:
		return handScore{rank: FullHouse, tiebreak: [5]int{byCount[3][0], byCount[2][0]}}
	case flush:
		return handScore{rank: Flush, tiebreak: toTiebreak(values)}
	case straight:
		return handScore{rank: Straight, tiebreak: [5]int{straightTop}}
	case len(byCount[3]) == 1:
		trip := byCount[3][0]
		kickers := excludingAll(values, trip)
		return handScore{rank: ThreeOfKind, tiebreak: [5]int{trip, kickers[0], kickers[1]}}
	case len(byCount[2]) == 2:
		hi, lo := byCount[2][0], byCount[2][1]
		kicker := highestExcluding(values, hi, lo)
		return handScore{rank: TwoPair, tiebreak: [5]int{hi, lo, kicker}}
	case len(byCount[2]) == 1:
		pair := byCount[2][0]
		kickers := excludingAll(values, pair)
		return handScore{rank: OnePair, tiebreak: [5]int{pair, kickers[0], kickers[1], kickers[2]}}
	default:
		return handScore{rank: HighCard, tiebreak: toTiebreak(values)}
	}
}

// isStraight reports whether the five descending values are consecutive,
// treating the wheel A-2-3-4-5 as a straight topping out at 5.
func isStraight(descValues []int) (ok bool, top int) {
	distinct := dedup(descValues)
	if len(distinct) != 5 {
		return false, 0
	}
	if distinct[0]-distinct[4] == 4 {
		return true, distinct[0]
	}
	// wheel: A,5,4,3,2 sorted desc is [14,5,4,3,2]
	if distinct[0] == 14 && distinct[1] == 5 && distinct[2] == 4 && distinct[3] == 3 && distinct[4] == 2 {
		return true, 5
	}
	return false, 0
}

func dedup(sorted []int) []int {
	out := make([]int, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func toTiebreak(values []int) [5]int {
	var out [5]int
	copy(out[:], values)
	return out
}

// highestExcluding returns the highest value in values that is not one of
// excluded.
func highestExcluding(values []int, excluded ...int) int {
	skip := map[int]bool{}
	for _, e := range excluded {
		skip[e] = true
	}
	best := 0
	for _, v := range values {
		if !skip[v] && v > best {
			best = v
		}
	}
	return best
}

// excludingAll returns every occurrence not equal to excluded, in
// descending order.
func excludingAll(values []int, excluded int) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v != excluded {
			out = append(out, v)
		}
	}
	return out
}
