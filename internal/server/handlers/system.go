package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemHandler reports process health
type SystemHandler struct {
	startedAt time.Time
	runID     string
	logger    hclog.Logger
}

// NewSystemHandler creates a health handler for the given run
func NewSystemHandler(runID string, logger hclog.Logger) *SystemHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SystemHandler{
		startedAt: time.Now(),
		runID:     runID,
		logger:    logger,
	}
}

// Health returns liveness plus process resource usage
func (h *SystemHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":     "ok",
		"run_id":     h.runID,
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
	}

	ctx := c.Request.Context()
	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfoWithContext(ctx); err == nil {
			resp["rss_bytes"] = info.RSS
		}
		if cpu, err := proc.CPUPercentWithContext(ctx); err == nil {
			resp["cpu_percent"] = cpu
		}
	} else {
		h.logger.Debug("process stats unavailable", "error", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp["system_memory_used_percent"] = vm.UsedPercent
	}

	c.JSON(http.StatusOK, resp)
}
