package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Card is an immutable playing card. Rank runs 2..14 with 11..14 standing
// for J, Q, K, A. Suit is one of 'H', 'D', 'C', 'S'.
type Card struct {
	Rank int
	Suit byte
}

const rankCodes = "  23456789TJQKA"

// Value returns the blackjack point value of the card. Face cards count 10,
// an ace counts 11 here; demotion to 1 happens in Hand.Value.
func (c Card) Value() int {
	switch {
	case c.Rank == 14:
		return 11
	case c.Rank > 10:
		return 10
	default:
		return c.Rank
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%c%c", rankCodes[c.Rank], c.Suit)
}

// ParseCard reverses Card.String. The two-character code is also the storage
// format the persistence layer uses for deck and hand columns.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("bad card code %q", s)
	}
	var rank int
	for i := 2; i <= 14; i++ {
		if rankCodes[i] == s[0] {
			rank = i
			break
		}
	}
	if rank == 0 {
		return Card{}, fmt.Errorf("bad card rank in %q", s)
	}
	switch s[1] {
	case 'H', 'D', 'C', 'S':
	default:
		return Card{}, fmt.Errorf("bad card suit in %q", s)
	}
	return Card{Rank: rank, Suit: s[1]}, nil
}

// Deck is an ordered run of cards, drawn from the front.
type Deck []Card

// NewDeck builds the 52 unique suit x rank combinations and applies a
// Fisher-Yates shuffle. Seed 0 means "seed from the clock"; tests pass a
// fixed seed for reproducible orders.
func NewDeck(seed int64) Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	deck := make(Deck, 0, 52)
	for _, s := range []byte("HDCS") {
		for rnk := 2; rnk <= 14; rnk++ {
			deck = append(deck, Card{Rank: rnk, Suit: s})
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Draw removes and returns the next card. A single-deck round can never
// legitimately empty the deck, so ErrDeckExhausted signals a broken invariant
// rather than an expected condition.
func (d *Deck) Draw() (Card, error) {
	if len(*d) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := (*d)[0]
	*d = (*d)[1:]
	return c, nil
}

// Codes renders cards as their two-character storage codes.
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// ParseCards reverses Codes.
func ParseCards(codes []string) ([]Card, error) {
	out := make([]Card, len(codes))
	for i, s := range codes {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
