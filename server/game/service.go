// Package game wires the blackjack engine to persistence and exposes the
// four player-facing operations: start, hit, stand, fetch.
package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"greenfelt/server/engine"
)

// Store is the persistence contract the service runs against. Implementations
// must make each mutation atomic with its balance movement and serialize
// concurrent mutations of the same round (the postgres implementation uses a
// row lock, the test fake a mutex).
type Store interface {
	// CreateRound debits the round's bet from the owner's balance and inserts
	// the round in one transaction, filling in r.ID. Returns the balance after
	// the debit, or engine.ErrInsufficientFunds leaving everything untouched.
	CreateRound(ctx context.Context, r *engine.Round) (float64, error)

	// MutateRound loads the round under a write lock, applies fn, persists the
	// mutated round and credits fn's returned amount to the owner's balance,
	// all in one transaction. An error from fn rolls everything back.
	MutateRound(ctx context.Context, roundID int64, fn func(*engine.Round) (credit float64, err error)) (*engine.Round, float64, error)

	// Round fetches a round without locking it.
	Round(ctx context.Context, roundID int64) (*engine.Round, error)

	Balance(ctx context.Context, userID int64) (float64, error)

	// ForfeitStale finishes active rounds untouched for longer than maxAge as
	// losses, without crediting anything, and reports how many it closed.
	ForfeitStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

type Service struct {
	store Store
	log   *logrus.Logger
	seed  func() int64
}

type Option func(*Service)

// WithSeedFunc overrides the deck seed source. The default seeds every deck
// from the clock; tests inject fixed seeds for reproducible deals.
func WithSeedFunc(fn func() int64) Option {
	return func(s *Service) { s.seed = fn }
}

func New(store Store, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   log,
		seed:  func() int64 { return 0 },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start debits the bet, deals a fresh round and persists it. The funds
// precondition is bet > 0 and balance >= bet; anything else fails with
// engine.ErrInsufficientFunds before any card is drawn.
func (s *Service) Start(ctx context.Context, userID int64, bet float64) (*RoundView, error) {
	if bet <= 0 {
		return nil, engine.ErrInsufficientFunds
	}
	round, err := engine.Deal(userID, bet, engine.NewDeck(s.seed()))
	if err != nil {
		return nil, err
	}
	balance, err := s.store.CreateRound(ctx, round)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"round": round.ID,
		"user":  userID,
		"bet":   bet,
	}).Info("round started")
	return viewOf(round, balance), nil
}

// Hit draws one card into the caller's hand. A bust finishes the round as a
// loss; the stake was debited at start, so no balance movement happens here.
func (s *Service) Hit(ctx context.Context, roundID, userID int64) (*RoundView, error) {
	round, balance, err := s.store.MutateRound(ctx, roundID, func(r *engine.Round) (float64, error) {
		if r.UserID != userID {
			return 0, engine.ErrRoundNotOwned
		}
		return 0, r.Hit()
	})
	if err != nil {
		return nil, err
	}
	if round.Status == engine.StatusFinished {
		s.log.WithFields(logrus.Fields{
			"round":  round.ID,
			"user":   userID,
			"result": round.Result,
		}).Info("round busted")
	}
	return viewOf(round, balance), nil
}

// Stand runs the dealer and settles the round; the settlement credit lands on
// the balance in the same transaction that finishes the round.
func (s *Service) Stand(ctx context.Context, roundID, userID int64) (*RoundView, error) {
	round, balance, err := s.store.MutateRound(ctx, roundID, func(r *engine.Round) (float64, error) {
		if r.UserID != userID {
			return 0, engine.ErrRoundNotOwned
		}
		return r.Stand()
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"round":  round.ID,
		"user":   userID,
		"result": round.Result,
	}).Info("round settled")
	return viewOf(round, balance), nil
}

// Round returns the caller's view of a round. Rounds belonging to other
// accounts are reported as not found rather than confirming they exist.
func (s *Service) Round(ctx context.Context, roundID, userID int64) (*RoundView, error) {
	round, err := s.store.Round(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.UserID != userID {
		return nil, engine.ErrRoundNotFound
	}
	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return viewOf(round, balance), nil
}
