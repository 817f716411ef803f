package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"greenfelt/server/engine"
)

// memStore is an in-memory Store for service tests: a mutex where postgres
// uses row locks, deep copies where postgres round-trips rows.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	balances map[int64]float64
	rounds   map[int64]*engine.Round
	touched  map[int64]time.Time
}

func newMemStore(balances map[int64]float64) *memStore {
	return &memStore{
		balances: balances,
		rounds:   make(map[int64]*engine.Round),
		touched:  make(map[int64]time.Time),
	}
}

func cloneRound(r *engine.Round) *engine.Round {
	c := *r
	c.Deck = append(engine.Deck(nil), r.Deck...)
	c.Player = append(engine.Hand(nil), r.Player...)
	c.Dealer = append(engine.Hand(nil), r.Dealer...)
	return &c
}

func (m *memStore) CreateRound(ctx context.Context, r *engine.Round) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[r.UserID]
	if !ok || balance < r.Bet {
		return 0, engine.ErrInsufficientFunds
	}
	m.balances[r.UserID] = balance - r.Bet
	m.nextID++
	r.ID = m.nextID
	m.rounds[r.ID] = cloneRound(r)
	m.touched[r.ID] = time.Now()
	return m.balances[r.UserID], nil
}

func (m *memStore) MutateRound(ctx context.Context, roundID int64, fn func(*engine.Round) (float64, error)) (*engine.Round, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rounds[roundID]
	if !ok {
		return nil, 0, engine.ErrRoundNotFound
	}
	r := cloneRound(stored)
	credit, err := fn(r)
	if err != nil {
		return nil, 0, err
	}
	m.rounds[roundID] = cloneRound(r)
	m.touched[roundID] = time.Now()
	m.balances[r.UserID] += credit
	return r, m.balances[r.UserID], nil
}

func (m *memStore) Round(ctx context.Context, roundID int64) (*engine.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rounds[roundID]
	if !ok {
		return nil, engine.ErrRoundNotFound
	}
	return cloneRound(stored), nil
}

func (m *memStore) Balance(ctx context.Context, userID int64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *memStore) ForfeitStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var n int64
	for id, r := range m.rounds {
		if r.Status == engine.StatusActive && m.touched[id].Before(cutoff) {
			r.Status = engine.StatusFinished
			r.Result = engine.ResultLose
			n++
		}
	}
	return n, nil
}

func testLogger(t *testing.T) *logrus.Logger {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
