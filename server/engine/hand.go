package engine

// Hand is an ordered sequence of cards belonging to one side of the table.
type Hand []Card

// Value scores the hand: faces count 10, aces start at 11 and are demoted to
// 1 one at a time while the total is over 21. Pure and order-independent.
func (h Hand) Value() int {
	value, aces := 0, 0
	for _, c := range h {
		if c.Rank == 14 {
			aces++
		}
		value += c.Value()
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBust reports whether the hand went over 21.
func (h Hand) IsBust() bool { return h.Value() > 21 }

// IsBlackjack reports a natural: exactly two cards totalling 21. The round
// flow takes no special action on it (no 3:2 payout, no early settlement);
// it is surfaced as information only.
func (h Hand) IsBlackjack() bool { return len(h) == 2 && h.Value() == 21 }
