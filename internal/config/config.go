// Package config provides configuration loading from environment variables.
package config

import (
	"time"
)

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	Kubeconfig      string        // Path to a kubeconfig file; empty selects in-cluster config
	Namespace       string        // Namespace jobs and workloads are submitted to
	Container       string        // Principal container name in submitted jobs
	Timeout         time.Duration // Bound on completion and readiness watches
	DeleteOnTimeout bool          // Delete the remote job after a timed-out watch
	MetricsPort     string        // Port for the Prometheus handler; empty disables it
}

// LoadRunnerConfig loads runner configuration from environment variables.
// Command-line flags override these values.
func LoadRunnerConfig() *RunnerConfig {
	return &RunnerConfig{
		Kubeconfig:      GetEnv("KUBECONFIG", ""),
		Namespace:       GetEnv("KUBERUN_NAMESPACE", "default"),
		Container:       GetEnv("KUBERUN_CONTAINER", "main"),
		Timeout:         GetDurationEnv("KUBERUN_TIMEOUT", 2*time.Minute),
		DeleteOnTimeout: GetBoolEnv("KUBERUN_DELETE_ON_TIMEOUT", false),
		MetricsPort:     GetEnv("KUBERUN_METRICS_PORT", ""),
	}
}
