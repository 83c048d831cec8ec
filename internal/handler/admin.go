package handler

import (
	"net/http"
	"runtime"
	"time"

	"stockroom-api/internal/repository"
	"stockroom-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store       StoreState
	snapshots   repository.SnapshotRepository // nil when no backend could be opened
	storageType string
	startTime   time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	store StoreState,
	snapshots repository.SnapshotRepository,
	storageType string,
) *AdminHandler {
	return &AdminHandler{
		store:       store,
		snapshots:   snapshots,
		storageType: storageType,
		startTime:   time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["storage_type"] = h.storageType

	// Store state
	degraded, lastErr := h.store.Degraded()
	inv := map[string]interface{}{
		"records":  h.store.Len(),
		"degraded": degraded,
	}
	if lastErr != nil {
		inv["last_error"] = lastErr.Error()
	}
	stats["inventory"] = inv

	// Snapshot backend
	if h.snapshots != nil {
		backendStats, err := h.snapshots.GetStats(ctx)
		if err == nil {
			backendStats["status"] = "connected"
			stats["storage"] = backendStats
		} else {
			stats["storage"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	} else {
		stats["storage"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	// Runtime info
	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
