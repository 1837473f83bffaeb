package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-matching/internal/common/logger"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthMux(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("health is unconditional", func(t *testing.T) {
		rec, body := get(t, newHealthMux(readinessChecks{"postgres": down}), "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("ready when every dependency answers", func(t *testing.T) {
		rec, body := get(t, newHealthMux(readinessChecks{"postgres": ok, "zeebe": ok}), "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("not ready names the failing dependency", func(t *testing.T) {
		rec, body := get(t, newHealthMux(readinessChecks{"postgres": ok, "redis": down}), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body["status"])
		deps := body["dependencies"].(map[string]interface{})
		assert.Equal(t, "ok", deps["postgres"])
		assert.Equal(t, "connection refused", deps["redis"])
	})

	t.Run("metrics exposes prometheus text", func(t *testing.T) {
		rec, _ := get(t, newHealthMux(nil), "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retryWithBackoff(func() error { return errors.New("down") }, 2, time.Millisecond, log, "dead op")
	assert.EqualError(t, err, "dead op failed after 2 attempts: down")
}
