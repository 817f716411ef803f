package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"greenfelt/server/auth"
	"greenfelt/server/game"
	"greenfelt/server/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		logger.Fatalf("ping database: %v", err)
	}
	if err := store.Migrate(ctx, db); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	logger.Info("migrated")

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	games := game.New(db, logger)

	if cfg.RoundExpiry > 0 {
		sweeper := game.NewSweeper(db, cfg.RoundExpiry, logger)
		sweeper.Start()
		defer sweeper.Stop()
		logger.Infof("forfeiting rounds abandoned for over %s", cfg.RoundExpiry)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(db, games, tokens, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	logger.Infof("listening on :%s", cfg.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	logger.Info("server stopped")
}
