package game

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper forfeits abandoned active rounds on a schedule. The engine defines
// no expiry of its own; this is deployment policy layered on top, and it only
// runs when the operator opts in via ROUND_EXPIRY. Forfeiting closes the
// round as a loss without crediting anything, the stake having been debited
// at start.
type Sweeper struct {
	cron   *cron.Cron
	store  Store
	maxAge time.Duration
	log    *logrus.Logger
}

func NewSweeper(store Store, maxAge time.Duration, log *logrus.Logger) *Sweeper {
	s := &Sweeper{
		cron:   cron.New(),
		store:  store,
		maxAge: maxAge,
		log:    log,
	}
	if _, err := s.cron.AddFunc("@every 10m", s.sweep); err != nil {
		log.WithError(err).Fatal("register round sweep")
	}
	return s
}

func (s *Sweeper) Start() { s.cron.Start() }
func (s *Sweeper) Stop()  { s.cron.Stop() }

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.store.ForfeitStale(ctx, s.maxAge)
	if err != nil {
		s.log.WithError(err).Warn("round sweep failed")
		return
	}
	if n > 0 {
		s.log.WithField("rounds", n).Info("forfeited abandoned rounds")
	}
}
