package http

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// MonitoringHandlers exposes process-level health information.
type MonitoringHandlers struct {
	startedAt time.Time
}

// NewMonitoringHandlers creates a monitoring handlers instance.
func NewMonitoringHandlers() *MonitoringHandlers {
	return &MonitoringHandlers{startedAt: time.Now()}
}

// Health reports uptime, goroutine count and memory usage.
// GET /monitoring/health
func (h *MonitoringHandlers) Health(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":         "HEALTHY",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  mem.HeapAlloc / (1024 * 1024),
		"heap_sys_mb":    mem.HeapSys / (1024 * 1024),
		"num_gc":         mem.NumGC,
	})
}
