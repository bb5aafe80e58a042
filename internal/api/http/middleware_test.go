package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthMiddleware(t *testing.T) {
	tm := security.NewTokenManager(testSecret, 15*time.Minute, 24*time.Hour)

	var gotActor domain.Actor
	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotActor, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(tm)(inner)

	t.Run("Valid token puts actor on context", func(t *testing.T) {
		called = false
		token, err := tm.GenerateAccessToken(42, "asha@test.com", domain.UserRoleStudent)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, int32(42), gotActor.ID)
		assert.Equal(t, domain.UserRoleStudent, gotActor.Role)
	})

	t.Run("Missing header rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("Refresh token rejected on API routes", func(t *testing.T) {
		called = false
		token, err := tm.GenerateRefreshToken(42, "asha@test.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Not found", domain.ErrNotFound, http.StatusNotFound},
		{"Wrong party", domain.ErrWrongParty, http.StatusForbidden},
		{"Out of capacity", domain.ErrOutOfCapacity, http.StatusConflict},
		{"Invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"Version conflict", domain.ErrConflict, http.StatusConflict},
		{"Unknown error", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
			writeError(rec, req, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
