package holdem

import "errors"

var (
	ErrHandEnded      = errors.New("hand already ended")
	ErrHandInProgress = errors.New("hand in progress")
	ErrOutOfTurn      = errors.New("action out of turn")
	ErrIllegalAction  = errors.New("illegal action")
	ErrNotEnoughSeats = errors.New("not enough active seats to start a hand")
	ErrAutoAdvancing  = errors.New("no player action accepted during auto-advance")
)

// InvalidStateError marks an unrecoverable engine bug, such as a seat's chips
// going negative or a street transition outside PreFlop..River. Deck
// underflow (card.ErrDeckExhausted) and malformed evaluator input are
// reported as their own errors, not as this type. The caller should abort the
// hand without crashing the room executor (§7).
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid engine state: " + string(e) }

func errInvalidState(msg string) error { return InvalidStateError(msg) }
