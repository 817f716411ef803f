// Package store persists users and rounds in postgres. Every game mutation
// that moves money runs in a single transaction with the balance change, and
// round mutations take a row lock so concurrent actions on one round
// serialize instead of losing updates.
package store

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

var (
	// ErrUsernameTaken indicates a registration with an already-used name.
	ErrUsernameTaken = errors.New("store: username already taken")

	// ErrUserNotFound indicates an unknown account id or username.
	ErrUserNotFound = errors.New("store: user not found")
)

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close()                         { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}
