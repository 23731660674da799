package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"checkout/config"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Check is one dependency probe, such as a database or Redis ping.
type Check func(ctx context.Context) error

type Controller struct {
	config    *config.Config
	checks    map[string]Check
	startTime time.Time
}

// NewController takes the named dependency probes; nil probes are skipped.
func NewController(cfg *config.Config, checks map[string]Check) *Controller {
	active := make(map[string]Check, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &Controller{
		config:    cfg,
		checks:    active,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers /health under group; the probes live at the root.
func (c *Controller) RegisterRoutes(group *gin.RouterGroup, root gin.IRoutes) {
	group.GET("/health", c.Health)
	root.GET("/health/live", c.Liveness)
	root.GET("/health/ready", c.Readiness)
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	System    *SystemInfo            `json:"system,omitempty"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health runs every probe and reports each result.
func (c *Controller) Health(ctx *gin.Context) {
	results := make(map[string]CheckResult, len(c.checks))
	overall := "healthy"
	for name, check := range c.checks {
		result := run(ctx.Request.Context(), check)
		results[name] = result
		if result.Status != "healthy" {
			overall = "unhealthy"
		}
	}

	resp := HealthResponse{
		Status:    overall,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
	}

	// System info only in development
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}

// Liveness Kubernetes liveness probe
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness Kubernetes readiness probe; not ready while any dependency fails.
func (c *Controller) Readiness(ctx *gin.Context) {
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if result := run(ctx.Request.Context(), c.checks[name]); result.Status != "healthy" {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": name + " not available",
			})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func run(ctx context.Context, check Check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return CheckResult{Status: "unhealthy", Message: err.Error(), Latency: latency}
	}
	return CheckResult{Status: "healthy", Latency: latency}
}
