package health

import (
	"net/http"
	"runtime"
	"time"

	"mix-and-munch/internal/infrastructure/config"
	"mix-and-munch/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// CacheStatser exposes cache counters to the health endpoint.
type CacheStatser interface {
	Stats() map[string]interface{}
}

// HealthCheck reports service status, version, and runtime numbers. The
// router injects config and the cache store into the request context.
func HealthCheck(c *gin.Context) {
	value, exists := c.Get("config")
	cfg, ok := value.(*config.Config)
	if !exists || !ok {
		common.LogError("configuration missing from request context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuration unavailable"})
		return
	}

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime:   runtimeStats(),
	}
	if statser, exists := c.Get("cache_stats"); exists {
		if cs, ok := statser.(CacheStatser); ok {
			response.Cache = cs.Stats()
		}
	}

	c.JSON(http.StatusOK, response)
}

func runtimeStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]interface{}{
			"alloc":       m.Alloc,
			"total_alloc": m.TotalAlloc,
			"sys":         m.Sys,
			"num_gc":      m.NumGC,
		},
	}
}

// ReadinessCheck reports whether the service can take traffic.
func ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck reports whether the process is alive.
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
