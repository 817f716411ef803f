package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Balance      float64
}

// CreateUser inserts a new account with a zero balance and returns its id.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
        INSERT INTO users(username, password_hash)
        VALUES ($1,$2)
        RETURNING id
    `, username, passwordHash).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, ErrUsernameTaken
	}
	return id, err
}

func (db *DB) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := db.QueryRow(ctx, `
        SELECT id, username, password_hash, balance
          FROM users WHERE username = $1
    `, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, userID int64) (*User, error) {
	var u User
	err := db.QueryRow(ctx, `
        SELECT id, username, password_hash, balance
          FROM users WHERE id = $1
    `, userID).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) Balance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return balance, err
}

// Deposit credits a positive amount and returns the new balance.
func (db *DB) Deposit(ctx context.Context, userID int64, amount float64) (float64, error) {
	var balance float64
	err := db.QueryRow(ctx, `
        UPDATE users SET balance = balance + $2
         WHERE id = $1
         RETURNING balance
    `, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return balance, err
}

// UserStats returns career aggregates over the user's settled rounds.
func (db *DB) UserStats(ctx context.Context, userID int64) (played, won int, err error) {
	err = db.QueryRow(ctx, `
        SELECT COUNT(*)::int,
               (COUNT(*) FILTER (WHERE result = 'win'))::int
          FROM rounds
         WHERE user_id = $1 AND status = 'finished'
    `, userID).Scan(&played, &won)
	return
}
