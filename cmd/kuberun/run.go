package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"kuberun/internal/descriptor"
	"kuberun/internal/health"
	"kuberun/internal/launcher/kube"
	"kuberun/internal/observability"
	"kuberun/internal/work"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit a job and relay its outcome",
		Long: `run submits the task described by the descriptor file, waits for it to
reach a terminal outcome, prints the principal container's output to stdout,
and exits with the container's exit code.

A watch that times out or closes before completion exits nonzero with a
diagnostic; the job itself is left running unless --delete-on-timeout is set.`,
		Args: cobra.NoArgs,
		RunE: runJob,
	}

	cmd.Flags().StringP("file", "f", "", "task descriptor file (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().Duration("timeout", 0, "how long to wait for completion (default 2m, or KUBERUN_TIMEOUT)")
	cmd.Flags().String("container", "", "principal container name (default main, or KUBERUN_CONTAINER)")
	cmd.Flags().Bool("delete-on-timeout", false, "delete the job when the watch times out")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics and health probes on this address while running")
	return cmd
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadRunnerConfig(cmd)

	var metrics *observability.Metrics
	var metricsHandler http.Handler
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	if metricsAddr == "" && cfg.MetricsPort != "" {
		metricsAddr = ":" + cfg.MetricsPort
	}
	if metricsAddr != "" {
		var err error
		metrics, metricsHandler, err = observability.NewMetrics(ctx)
		if err != nil {
			return err
		}
	}

	path, _ := cmd.Flags().GetString("file")
	spec, err := descriptor.LoadTask(path, cfg.Namespace)
	if err != nil {
		return err
	}

	job, err := spec.Job()
	if err != nil {
		return err
	}

	client, err := kube.NewClient(kube.Config{
		Kubeconfig: cfg.Kubeconfig,
		Namespace:  cfg.Namespace,
		Metrics:    metrics,
	})
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		stop := serveMetrics(metricsAddr, metricsHandler, health.NewChecker(client))
		defer stop()
	}

	if err := client.Ready(ctx); err != nil {
		return fmt.Errorf("cluster unreachable: %w", err)
	}

	runner := work.NewRunner(client, cfg.Container, work.WatchOptions{
		Timeout:         cfg.Timeout,
		DeleteOnTimeout: cfg.DeleteOnTimeout,
	})

	result, err := runner.Run(ctx, job)
	if err != nil {
		return err
	}

	for _, line := range result.Logs {
		fmt.Println(line)
	}

	if result.OK() {
		return nil
	}
	if result.Outcome.Completed() && result.ExitCode > 0 {
		return &exitCodeError{code: result.ExitCode}
	}
	return fmt.Errorf("job %s resolved %s with exit code %d", result.Handle, result.Outcome.State, result.ExitCode)
}
