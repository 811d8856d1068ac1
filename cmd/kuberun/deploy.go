package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"

	"kuberun/internal/descriptor"
	"kuberun/internal/launcher/kube"
	"kuberun/internal/work"
)

func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create a workload and wait for it to become available",
		Long: `deploy creates the deployment described by the descriptor file, exposes it
through a service when it declares ports, and waits until every replica is
available. Exits zero only on an available workload.`,
		Args: cobra.NoArgs,
		RunE: deployWorkload,
	}

	cmd.Flags().StringP("file", "f", "", "workload descriptor file (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().Duration("timeout", 0, "how long to wait for availability (default 2m, or KUBERUN_TIMEOUT)")
	return cmd
}

func deployWorkload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadRunnerConfig(cmd)

	path, _ := cmd.Flags().GetString("file")
	spec, err := descriptor.LoadWorkload(path, cfg.Namespace)
	if err != nil {
		return err
	}

	dep, err := spec.Deployment()
	if err != nil {
		return err
	}

	var svc *corev1.Service
	if len(spec.Ports) > 0 {
		svc = spec.Service()
	}

	client, err := kube.NewClient(kube.Config{
		Kubeconfig: cfg.Kubeconfig,
		Namespace:  cfg.Namespace,
	})
	if err != nil {
		return err
	}
	if err := client.Ready(ctx); err != nil {
		return fmt.Errorf("cluster unreachable: %w", err)
	}

	runner := work.NewRunner(client, cfg.Container, work.WatchOptions{Timeout: cfg.Timeout})

	outcome, err := runner.RunWorkload(ctx, dep, svc)
	if err != nil {
		return err
	}

	if !outcome.Ready() {
		if outcome.Cause != nil {
			return fmt.Errorf("workload %s did not become available: %s (%v)", spec.Name, outcome.State, outcome.Cause)
		}
		return fmt.Errorf("workload %s did not become available: %s", spec.Name, outcome.State)
	}

	slog.Info("Workload available", "workload", spec.Name, "namespace", spec.Namespace)
	return nil
}
