package game

import "greenfelt/server/engine"

// RoundView is the read projection handed to callers. While the round is
// active the dealer's hole card and value are absent from the projection
// itself, so no handler can reveal them by accident; the stored round always
// carries both.
type RoundView struct {
	ID          int64         `json:"round_id"`
	Status      engine.Status `json:"status"`
	Result      engine.Result `json:"result,omitempty"`
	PlayerHand  []string      `json:"player_hand"`
	PlayerValue int           `json:"player_value"`
	DealerHand  []string      `json:"dealer_hand"`
	DealerValue *int          `json:"dealer_value,omitempty"`
	Blackjack   bool          `json:"player_blackjack,omitempty"`
	Balance     float64       `json:"balance"`
}

func viewOf(r *engine.Round, balance float64) *RoundView {
	v := &RoundView{
		ID:          r.ID,
		Status:      r.Status,
		Result:      r.Result,
		PlayerHand:  engine.Codes(r.Player),
		PlayerValue: r.Player.Value(),
		Balance:     balance,
	}
	if r.Status == engine.StatusFinished {
		v.DealerHand = engine.Codes(r.Dealer)
		dealerValue := r.Dealer.Value()
		v.DealerValue = &dealerValue
		v.Blackjack = r.Player.IsBlackjack()
	} else {
		v.DealerHand = engine.Codes(r.Dealer[:1])
	}
	return v
}
