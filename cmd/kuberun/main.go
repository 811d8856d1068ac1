// kuberun submits one-shot jobs and long-running workloads to a Kubernetes
// cluster, watches them to a terminal outcome, and relays the principal
// container's exit code and output.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kuberun/internal/config"
	"kuberun/internal/health"
)

var (
	version = "1.0.0"
	commit  = ""
)

func main() {
	// Relayed job output owns stdout; everything else is structured and goes
	// to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kuberun",
		Short: "kuberun runs one-shot jobs and workloads on Kubernetes",
		Long: `kuberun submits work described by YAML descriptors, watches it to a
terminal outcome, and relays the principal container's exit code and output.

A job either succeeds, fails, times out, or loses its watch; kuberun resolves
exactly one of these and carries a completed job's exit code into its own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("kubeconfig", "", "path to a kubeconfig file (default: in-cluster, then $HOME/.kube/config)")
	cmd.PersistentFlags().StringP("namespace", "n", "", "namespace for descriptors that do not name one")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newDeployCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kuberun %s %s\n", version, commit)
		},
	}
}

// exitCodeError carries a completed job's exit code into the process exit.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// loadRunnerConfig layers command flags over the environment defaults.
func loadRunnerConfig(cmd *cobra.Command) *config.RunnerConfig {
	cfg := config.LoadRunnerConfig()

	if v, _ := cmd.Flags().GetString("kubeconfig"); v != "" {
		cfg.Kubeconfig = v
	}
	if v, _ := cmd.Flags().GetString("namespace"); v != "" {
		cfg.Namespace = v
	}
	if cmd.Flags().Changed("container") {
		cfg.Container, _ = cmd.Flags().GetString("container")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("delete-on-timeout") {
		cfg.DeleteOnTimeout, _ = cmd.Flags().GetBool("delete-on-timeout")
	}

	return cfg
}

// serveMetrics exposes the Prometheus handler and the health probes while a
// command is in flight. The returned stop function shuts the server down.
func serveMetrics(addr string, handler http.Handler, checker *health.Checker) func() {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", handler)
	mux.HandleFunc("GET /livez", checker.Livez)
	mux.HandleFunc("GET /readyz", checker.Readyz)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting metrics server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown error", "error", err)
		}
	}
}
