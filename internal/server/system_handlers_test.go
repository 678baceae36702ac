package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/breakeven/internal/database"
	"github.com/aristath/breakeven/internal/scheduler"
	testingpkg "github.com/aristath/breakeven/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopJob struct{ name string }

func (j noopJob) Name() string { return j.name }
func (j noopJob) Run() error   { return nil }

func TestSystemHandlers_HandleSystemStatus(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "history")
	defer cleanup()

	h := NewSystemHandlers(zerolog.Nop(), db, nil, "memory")
	h.statsFn = func() (float64, float64) { return 12.5, 40 }

	w := httptest.NewRecorder()
	h.HandleSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Database)
	assert.NotEmpty(t, resp.DatabaseSize)
	assert.Equal(t, database.SchemaVersion, resp.SchemaVersion)
	assert.Equal(t, "memory", resp.Cache)
	assert.Equal(t, 12.5, resp.CPUPercent)
	assert.Equal(t, 40.0, resp.RAMPercent)
	assert.Positive(t, resp.Goroutines)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestSystemHandlers_HandleSystemStatus_DatabaseDown(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "history")
	defer cleanup()
	require.NoError(t, db.Close())

	h := NewSystemHandlers(zerolog.Nop(), db, nil, "redis")
	h.statsFn = func() (float64, float64) { return 0, 0 }

	w := httptest.NewRecorder()
	h.HandleSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Database)
}

func TestSystemHandlers_HandleJobsStatus(t *testing.T) {
	sched := scheduler.New(zerolog.Nop())
	require.NoError(t, sched.AddJob("@hourly", noopJob{name: "prune_runs"}))
	require.NoError(t, sched.AddJob("@daily", noopJob{name: "archive"}))

	h := NewSystemHandlers(zerolog.Nop(), nil, sched, "memory")

	w := httptest.NewRecorder()
	h.HandleJobsStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/jobs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jobs  []JobStatus `json:"jobs"`
		Count int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "archive", resp.Jobs[0].Name)
	assert.Equal(t, "prune_runs", resp.Jobs[1].Name)
}

func TestSystemHandlers_HandleJobsStatus_NoScheduler(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), nil, nil, "memory")

	w := httptest.NewRecorder()
	h.HandleJobsStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/jobs", nil))

	assert.JSONEq(t, `{"jobs":[],"count":0}`, w.Body.String())
}

func TestGetSystemStats(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), nil, nil, "memory")

	cpu, ram := h.getSystemStats()
	assert.GreaterOrEqual(t, cpu, 0.0)
	assert.GreaterOrEqual(t, ram, 0.0)
}
