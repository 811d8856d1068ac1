// Package health provides the liveness and readiness probes served beside
// the metrics handler while a command is in flight.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ClusterProber reports whether the cluster behind a client is reachable.
type ClusterProber interface {
	Ready(ctx context.Context) error
}

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult contains the result of a single dependency check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response is the probe response body.
type Response struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker answers probes against the cluster dependency.
type Checker struct {
	cluster ClusterProber
	timeout time.Duration

	mu        sync.RWMutex
	lastCheck time.Time
	cached    *Response
}

// NewChecker creates a checker probing the given cluster client.
func NewChecker(cluster ClusterProber) *Checker {
	return &Checker{
		cluster: cluster,
		timeout: 5 * time.Second,
	}
}

// Liveness reports whether the process is alive. It never touches the
// cluster.
func (c *Checker) Liveness(ctx context.Context) *Response {
	return &Response{
		Status: StatusHealthy,
	}
}

// Readiness reports whether the cluster's API server answers. Verdicts are
// cached for a second so probes and scrapes do not hammer the API server.
func (c *Checker) Readiness(ctx context.Context) *Response {
	c.mu.RLock()
	if c.cached != nil && time.Since(c.lastCheck) < time.Second {
		cached := c.cached
		c.mu.RUnlock()
		return cached
	}
	c.mu.RUnlock()

	cluster := c.checkCluster(ctx)

	status := StatusHealthy
	if cluster.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	response := &Response{
		Status: status,
		Checks: map[string]CheckResult{"cluster": cluster},
	}

	c.mu.Lock()
	c.cached = response
	c.lastCheck = time.Now()
	c.mu.Unlock()

	return response
}

func (c *Checker) checkCluster(ctx context.Context) CheckResult {
	if c.cluster == nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "cluster client not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.cluster.Ready(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: err.Error(),
		}
	}

	return CheckResult{
		Status: StatusHealthy,
	}
}

// IsHealthy returns true if the overall status is healthy.
func (r *Response) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Livez handles GET /livez - liveness probe.
func (c *Checker) Livez(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Liveness(r.Context()))
}

// Readyz handles GET /readyz - readiness probe.
// Returns 503 while the cluster is unreachable.
func (c *Checker) Readyz(w http.ResponseWriter, r *http.Request) {
	response := c.Readiness(r.Context())

	status := http.StatusOK
	if !response.IsHealthy() {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode probe response", "error", err)
	}
}
