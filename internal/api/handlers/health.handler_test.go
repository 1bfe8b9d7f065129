package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// downStore fails every health check.
type downStore struct{ cache.Cache }

func (downStore) HealthCheck(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)
	h := NewHealthHandler(f.store, f.bundle, f.log)
	h.now = func() time.Time { return testNow }
	r := f.router(nil, language.English)
	r.GET("/health", h.HealthCheck)

	w := doJSON(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mirador-console", body["service"])
	assert.Equal(t, "2026-10-18T12:00:00Z", body["timestamp"])
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name   string
		store  func(f *fixture) cache.Cache
		code   int
		status string
	}{
		{"store up", func(f *fixture) cache.Cache { return f.store }, http.StatusOK, "healthy"},
		{"store down", func(f *fixture) cache.Cache { return downStore{f.store} }, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := NewHealthHandler(tt.store(f), f.bundle, f.log)
			r := f.router(nil, language.English)
			r.GET("/ready", h.ReadinessCheck)

			w := doJSON(r, http.MethodGet, "/ready", nil)
			assert.Equal(t, tt.code, w.Code)
			body := decode[map[string]any](t, w)
			assert.Equal(t, tt.status, body["status"])

			checks, ok := body["checks"].(map[string]any)
			require.True(t, ok)
			translations, ok := checks["translations"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, translations, "en")
			assert.Contains(t, translations, "ru")
		})
	}
}
