package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"greenfelt/server/auth"
	"greenfelt/server/engine"
	"greenfelt/server/game"
	"greenfelt/server/store"
)

type server struct {
	db     *store.DB
	games  *game.Service
	tokens *auth.Tokens
	log    *logrus.Logger
}

func Router(db *store.DB, games *game.Service, tokens *auth.Tokens, log *logrus.Logger) http.Handler {
	s := &server{db: db, games: games, tokens: tokens, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)
		pr.Get("/api/me", s.handleMe)
		pr.Post("/api/deposit", s.handleDeposit)
		pr.Post("/api/game/start", s.handleStart)
		pr.Post("/api/game/hit", s.handleHit)
		pr.Post("/api/game/stand", s.handleStand)
		pr.Get("/api/game/{id}", s.handleGetRound)
	})

	return r
}

type ctxKey int

const userIDKey ctxKey = iota

// requireAuth resolves the bearer token to an account id before any game
// handler runs. The engine layers below only ever see a trusted id and check
// round ownership against it.
func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func requestUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.db.CreateUser(r.Context(), req.Username, hash)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.WithField("user", id).Info("user registered")
	writeJSON(w, http.StatusCreated, map[string]any{"user_id": id, "username": req.Username})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	// Same response whether the user is unknown or the password is wrong.
	user, err := s.db.UserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.WithField("user", user.ID).Info("user logged in")
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	user, err := s.db.UserByID(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	played, won, err := s.db.UserStats(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":      user.Username,
		"balance":       user.Balance,
		"rounds_played": played,
		"rounds_won":    won,
	})
}

func (s *server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	userID := requestUserID(r)
	balance, err := s.db.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.WithFields(logrus.Fields{"user": userID, "amount": req.Amount}).Info("deposit")
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bet float64 `json:"bet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	view, err := s.games.Start(r.Context(), requestUserID(r), req.Bet)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *server) handleHit(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDFromBody(w, r)
	if !ok {
		return
	}
	view, err := s.games.Hit(r.Context(), roundID, requestUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleStand(w http.ResponseWriter, r *http.Request) {
	roundID, ok := roundIDFromBody(w, r)
	if !ok {
		return
	}
	view, err := s.games.Stand(r.Context(), roundID, requestUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad round id")
		return
	}
	view, err := s.games.Round(r.Context(), roundID, requestUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func roundIDFromBody(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req struct {
		RoundID int64 `json:"round_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoundID <= 0 {
		writeError(w, http.StatusBadRequest, "round_id is required")
		return 0, false
	}
	return req.RoundID, true
}

// fail maps domain errors to status codes; anything unmapped is logged and
// reported as an opaque 500.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := errorStatus(err); ok {
		writeError(w, status, msg)
		return
	}
	s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func errorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient funds", true
	case errors.Is(err, engine.ErrRoundNotFound):
		return http.StatusNotFound, "round not found", true
	case errors.Is(err, engine.ErrRoundNotOwned):
		return http.StatusForbidden, "round belongs to another account", true
	case errors.Is(err, engine.ErrRoundNotActive):
		return http.StatusConflict, "round is already finished", true
	case errors.Is(err, store.ErrUsernameTaken):
		return http.StatusConflict, "username already taken", true
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	default:
		return 0, "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
