package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/aristath/breakeven/internal/database"
	"github.com/aristath/breakeven/internal/scheduler"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers serves process and dependency status
type SystemHandlers struct {
	log          zerolog.Logger
	historyDB    *database.DB
	scheduler    *scheduler.Scheduler
	cacheBackend string
	startupTime  time.Time
	statsFn      func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	historyDB *database.DB,
	sched *scheduler.Scheduler,
	cacheBackend string,
) *SystemHandlers {
	h := &SystemHandlers{
		log:          log.With().Str("handler", "system").Logger(),
		historyDB:    historyDB,
		scheduler:    sched,
		cacheBackend: cacheBackend,
		startupTime:  time.Now(),
	}
	h.statsFn = h.getSystemStats
	return h
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Database      string  `json:"database"`
	DatabaseSize  string  `json:"database_size,omitempty"`
	SchemaVersion int     `json:"schema_version,omitempty"`
	Cache         string  `json:"cache"`
	Timestamp     string  `json:"timestamp"`
}

// JobStatus describes one registered background job
type JobStatus struct {
	Name    string `json:"name"`
	NextRun string `json:"next_run,omitempty"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.statsFn()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Database:      "ok",
		Cache:         h.cacheBackend,
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	if h.historyDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.historyDB.QuickCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("History database check failed")
			response.Status = "degraded"
			response.Database = "unavailable"
		} else if stats, err := h.historyDB.Stats(ctx); err == nil {
			response.DatabaseSize = humanize.Bytes(uint64(stats.SizeBytes))
			response.SchemaVersion = stats.SchemaVersion
		}
	} else {
		response.Database = "not configured"
	}

	h.writeJSON(w, response)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := []JobStatus{}
	if h.scheduler != nil {
		for _, name := range h.scheduler.Jobs() {
			status := JobStatus{Name: name}
			if next := h.scheduler.NextRun(name); !next.IsZero() {
				status.NextRun = next.Format(time.RFC3339)
			}
			jobs = append(jobs, status)
		}
	}

	h.writeJSON(w, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the endpoint stays responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
