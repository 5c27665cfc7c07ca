package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gambler/wager-engine/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry).LedgerEntryRecorded(entities.EntrySourceInitial)

	healthy := NewRouter(registry, map[string]ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	unhealthy := NewRouter(registry, map[string]ReadinessCheck{
		"database": func(context.Context) error { return errors.New("down") },
	})

	tests := []struct {
		name       string
		handler    http.Handler
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", healthy, "/health", http.StatusOK, "ok"},
		{"ready", healthy, "/ready", http.StatusOK, "ready"},
		{"not ready", unhealthy, "/ready", http.StatusServiceUnavailable, "database unavailable"},
		{"metrics", healthy, "/metrics", http.StatusOK, "casino_ledger_entries_total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
