package holdem

// The engine keeps a single pot for the whole hand rather than the side
// pots a real uneven-stack game requires. An all-in seat can therefore win
// chips contributed by deeper stacks after its all-in, a documented
// divergence from real side-pot rules (§9 Open question, spec Non-goals).
// Showdown splits this pot equally among the winner set, any remainder
// carried over as the start of next hand's pot.

// splitPot divides amount equally among n winners, returning each winner's
// share and the remainder. The caller carries the remainder forward into
// the next hand's pot rather than awarding it to any winner (§4.4.5).
func splitPot(amount int64, n int) (share, remainder int64) {
	if n <= 0 {
		return 0, amount
	}
	return amount / int64(n), amount % int64(n)
}
