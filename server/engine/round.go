package engine

import "errors"

// Error taxonomy for the four engine operations. All of these are recoverable
// at the boundary; none is retried automatically.
var (
	ErrInsufficientFunds = errors.New("engine: insufficient funds")
	ErrRoundNotActive    = errors.New("engine: round is not active")
	ErrRoundNotOwned     = errors.New("engine: round owned by another account")
	ErrRoundNotFound     = errors.New("engine: round not found")
	ErrDeckExhausted     = errors.New("engine: deck exhausted")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type Result string

const (
	ResultUnset Result = ""
	ResultWin   Result = "win"
	ResultLose  Result = "lose"
	ResultPush  Result = "push"
)

// Round is one wager cycle: a shuffled deck, two hands and a fixed bet.
// Status moves one way, active -> finished, and a finished round is never
// mutated again. The dealer's hole card lives here in full; hiding it from
// callers is the job of the view projection, not the round.
type Round struct {
	ID     int64
	UserID int64
	Deck   Deck
	Player Hand
	Dealer Hand
	Bet    float64
	Status Status
	Result Result
}

// Deal starts a round for the given account: two cards to the player, two to
// the dealer, drawn from the supplied pre-shuffled deck. The bet must already
// be debited by the caller; the round only records it.
func Deal(userID int64, bet float64, deck Deck) (*Round, error) {
	r := &Round{
		UserID: userID,
		Deck:   deck,
		Bet:    bet,
		Status: StatusActive,
	}
	for i := 0; i < 2; i++ {
		c, err := r.Deck.Draw()
		if err != nil {
			return nil, err
		}
		r.Player = append(r.Player, c)
	}
	for i := 0; i < 2; i++ {
		c, err := r.Deck.Draw()
		if err != nil {
			return nil, err
		}
		r.Dealer = append(r.Dealer, c)
	}
	return r, nil
}

// Hit draws one card into the player hand. A bust finishes the round as a
// loss on the spot; the stake was taken at the start, so no balance movement
// happens here.
func (r *Round) Hit() error {
	if r.Status != StatusActive {
		return ErrRoundNotActive
	}
	c, err := r.Deck.Draw()
	if err != nil {
		return err
	}
	r.Player = append(r.Player, c)
	if r.Player.IsBust() {
		r.Status = StatusFinished
		r.Result = ResultLose
	}
	return nil
}

// Stand runs the dealer policy (draw while under 17, soft or hard) and
// settles the round. The returned credit is what the caller must add back to
// the owner's balance: 2x the bet on a win, the bet itself on a push, zero on
// a loss.
func (r *Round) Stand() (float64, error) {
	if r.Status != StatusActive {
		return 0, ErrRoundNotActive
	}
	for r.Dealer.Value() < 17 {
		c, err := r.Deck.Draw()
		if err != nil {
			return 0, err
		}
		r.Dealer = append(r.Dealer, c)
	}
	result, credit := Settle(r.Player.Value(), r.Dealer.Value(), r.Bet)
	r.Status = StatusFinished
	r.Result = result
	return credit, nil
}

// Settle maps final hand values to an outcome and a balance credit. Only
// reached from Stand; a player bust is settled earlier, inside Hit.
func Settle(playerValue, dealerValue int, bet float64) (Result, float64) {
	switch {
	case dealerValue > 21:
		return ResultWin, 2 * bet
	case playerValue > dealerValue:
		return ResultWin, 2 * bet
	case playerValue == dealerValue:
		return ResultPush, bet
	default:
		return ResultLose, 0
	}
}
