package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockcircle/internal/database"
)

// backendPinger is the part of the backend client the status endpoint needs.
type backendPinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log           zerolog.Logger
	dataDir       string
	startupTime   time.Time
	db            *database.DB
	backend       backendPinger
	statusMonitor *StatusMonitor
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	db *database.DB,
	backend backendPinger,
	statusMonitor *StatusMonitor,
) *SystemHandlers {
	return &SystemHandlers{
		log:           log.With().Str("component", "system_handlers").Logger(),
		dataDir:       dataDir,
		startupTime:   time.Now(),
		db:            db,
		backend:       backend,
		statusMonitor: statusMonitor,
	}
}

// SystemStatusResponse represents system status response
type SystemStatusResponse struct {
	Status        string        `json:"status"` // "ok" or "degraded"
	UptimeHours   float64       `json:"uptime_hours"`
	CPUPercent    float64       `json:"cpu_percent"`
	RAMPercent    float64       `json:"ram_percent"`
	DiskPercent   float64       `json:"disk_percent"`
	Database      string        `json:"database"`
	BackendURL    string        `json:"backend_url"`
	BackendOnline bool          `json:"backend_online"`
	BackendError  string        `json:"backend_error,omitempty"`
	LastProbe     BackendStatus `json:"last_probe"`
	LastCheck     string        `json:"last_check"`
}

// HandleSystemStatus returns host statistics plus database and backend health.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent, diskPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:      "ok",
		UptimeHours: time.Since(h.startupTime).Hours(),
		CPUPercent:  cpuPercent,
		RAMPercent:  ramPercent,
		DiskPercent: diskPercent,
		Database:    "ok",
		LastCheck:   time.Now().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Client database health check failed")
			response.Database = err.Error()
			response.Status = "degraded"
		}
	}

	if h.backend != nil {
		response.BackendURL = h.backend.BaseURL()
		if err := h.backend.Ping(ctx); err != nil {
			response.BackendError = err.Error()
			response.Status = "degraded"
		} else {
			response.BackendOnline = true
		}
	}

	if h.statusMonitor != nil {
		response.LastProbe = h.statusMonitor.Status()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats returns CPU, RAM and data-directory disk usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}
	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	ramPercent := 0.0
	if memStat, err := mem.VirtualMemory(); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		ramPercent = memStat.UsedPercent
	}

	diskPercent := 0.0
	if h.dataDir != "" {
		if usage, err := disk.Usage(h.dataDir); err != nil {
			h.log.Warn().Err(err).Str("path", h.dataDir).Msg("Failed to get disk usage")
		} else {
			diskPercent = usage.UsedPercent
		}
	}

	return cpuAvg, ramPercent, diskPercent
}
