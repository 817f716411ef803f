package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfelt/server/auth"
	"greenfelt/server/engine"
	"greenfelt/server/store"
)

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	s := &server{tokens: tokens}

	var gotUserID int64
	probe := s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = requestUserID(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		probe.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		probe.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token passes the account id through", func(t *testing.T) {
		signed, err := tokens.Mint(42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		probe.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, int64(42), gotUserID)
	})
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{engine.ErrInsufficientFunds, http.StatusBadRequest},
		{engine.ErrRoundNotFound, http.StatusNotFound},
		{engine.ErrRoundNotOwned, http.StatusForbidden},
		{engine.ErrRoundNotActive, http.StatusConflict},
		{store.ErrUsernameTaken, http.StatusConflict},
		{store.ErrUserNotFound, http.StatusNotFound},
		// Wrapped errors still map.
		{fmt.Errorf("start round: %w", engine.ErrInsufficientFunds), http.StatusBadRequest},
	}
	for _, tt := range tests {
		status, msg, ok := errorStatus(tt.err)
		require.True(t, ok, "%v should map", tt.err)
		assert.Equal(t, tt.status, status, "%v", tt.err)
		assert.NotEmpty(t, msg)
	}

	_, _, ok := errorStatus(errors.New("boom"))
	assert.False(t, ok, "unknown errors stay opaque")
}
