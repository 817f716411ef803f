package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"greenfelt/server/engine"
)

// rowScanner covers pgx.Row for both pool and transaction query paths.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (*engine.Round, error) {
	var (
		r                    engine.Round
		deck, player, dealer []string
		status, result       string
	)
	err := row.Scan(&r.ID, &r.UserID, &deck, &player, &dealer, &r.Bet, &status, &result)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, engine.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}

	cards, err := engine.ParseCards(deck)
	if err != nil {
		return nil, err
	}
	r.Deck = engine.Deck(cards)
	if cards, err = engine.ParseCards(player); err != nil {
		return nil, err
	}
	r.Player = engine.Hand(cards)
	if cards, err = engine.ParseCards(dealer); err != nil {
		return nil, err
	}
	r.Dealer = engine.Hand(cards)
	r.Status = engine.Status(status)
	r.Result = engine.Result(result)
	return &r, nil
}

// CreateRound debits the bet and inserts the round in one transaction. The
// conditional debit doubles as the funds check: zero rows updated means the
// balance was short (or the user unknown), and nothing is committed.
func (db *DB) CreateRound(ctx context.Context, r *engine.Round) (float64, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // safe if already committed

	var balance float64
	err = tx.QueryRow(ctx, `
        UPDATE users SET balance = balance - $2
         WHERE id = $1 AND balance >= $2
         RETURNING balance
    `, r.UserID, r.Bet).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, engine.ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO rounds(user_id, deck, player_hand, dealer_hand, bet, status, result)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id
    `, r.UserID, engine.Codes(r.Deck), engine.Codes(r.Player), engine.Codes(r.Dealer),
		r.Bet, string(r.Status), string(r.Result)).Scan(&r.ID)
	if err != nil {
		return 0, err
	}
	return balance, tx.Commit(ctx)
}

// MutateRound applies fn to the round under FOR UPDATE, persists the result
// and credits fn's payout, all in one transaction. The row lock is what
// serializes concurrent hit/stand on the same round.
func (db *DB) MutateRound(ctx context.Context, roundID int64, fn func(*engine.Round) (float64, error)) (*engine.Round, float64, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	r, err := scanRound(tx.QueryRow(ctx, `
        SELECT id, user_id, deck, player_hand, dealer_hand, bet, status, result
          FROM rounds WHERE id = $1
           FOR UPDATE
    `, roundID))
	if err != nil {
		return nil, 0, err
	}

	credit, err := fn(r)
	if err != nil {
		return nil, 0, err
	}

	if _, err := tx.Exec(ctx, `
        UPDATE rounds
           SET deck = $2, player_hand = $3, dealer_hand = $4,
               status = $5, result = $6, updated_at = now()
         WHERE id = $1
    `, r.ID, engine.Codes(r.Deck), engine.Codes(r.Player), engine.Codes(r.Dealer),
		string(r.Status), string(r.Result)); err != nil {
		return nil, 0, err
	}

	var balance float64
	if credit > 0 {
		err = tx.QueryRow(ctx, `
            UPDATE users SET balance = balance + $2
             WHERE id = $1
             RETURNING balance
        `, r.UserID, credit).Scan(&balance)
	} else {
		err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, r.UserID).Scan(&balance)
	}
	if err != nil {
		return nil, 0, err
	}
	return r, balance, tx.Commit(ctx)
}

// Round fetches a round without locking it.
func (db *DB) Round(ctx context.Context, roundID int64) (*engine.Round, error) {
	return scanRound(db.QueryRow(ctx, `
        SELECT id, user_id, deck, player_hand, dealer_hand, bet, status, result
          FROM rounds WHERE id = $1
    `, roundID))
}

// ForfeitStale closes active rounds untouched for longer than maxAge as
// losses. No credit is issued; the stake was debited at round start.
func (db *DB) ForfeitStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	ct, err := db.Exec(ctx, `
        UPDATE rounds
           SET status = $1, result = $2, updated_at = now()
         WHERE status = $3
           AND updated_at < now() - make_interval(secs => $4)
    `, string(engine.StatusFinished), string(engine.ResultLose),
		string(engine.StatusActive), maxAge.Seconds())
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
