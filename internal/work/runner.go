package work

import (
	"context"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
)

// Runner drives descriptors through the submit, watch, resolve, extract
// pipeline against a Platform.
//
// The Runner is stateless; a single Runner may serve concurrent Run calls,
// each watch resolving independently.
type Runner struct {
	platform  Platform
	container string
	opts      WatchOptions
}

// NewRunner creates a runner. An empty container selects PrincipalContainer;
// a zero watch timeout selects DefaultWatchTimeout.
func NewRunner(platform Platform, container string, opts WatchOptions) *Runner {
	if container == "" {
		container = PrincipalContainer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultWatchTimeout
	}
	return &Runner{
		platform:  platform,
		container: container,
		opts:      opts,
	}
}

// Run submits the job and blocks until it resolves, then extracts the
// principal container's exit code and captured output.
//
// Status resolution and log extraction only happen for completed outcomes;
// a timed-out or closed watch returns with the unknown exit code sentinel
// and no logs. When extraction fails after a resolution, the returned
// Result still carries the outcome alongside the error.
func (r *Runner) Run(ctx context.Context, job *batchv1.Job) (Result, error) {
	start := time.Now()

	h, err := r.platform.Submit(ctx, job)
	if err != nil {
		return Result{}, err
	}

	logger := slog.With("job", h.String())

	outcome, err := r.platform.AwaitCompletion(ctx, h, r.opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Handle:   h,
		Outcome:  outcome,
		ExitCode: UnknownExitCode,
		Duration: time.Since(start),
	}

	if !outcome.Completed() {
		logger.Warn("Watch resolved without completion", "state", outcome.State)
		return res, nil
	}

	pod, err := r.platform.PrincipalPod(ctx, h, r.container)
	if err != nil {
		return res, err
	}

	code, err := ExitCode(pod.Status, r.container)
	if err != nil {
		return res, err
	}
	res.ExitCode = code

	lines, err := r.platform.Logs(ctx, PodRefOf(pod), r.container)
	if err != nil {
		return res, err
	}
	res.Logs = lines
	res.Duration = time.Since(start)

	logger.Info("Run complete",
		"state", outcome.State,
		"exitCode", code,
		"lines", len(lines),
		"duration", res.Duration)

	return res, nil
}

// RunWorkload creates the deployment, exposes it through the optional
// service, and blocks until the workload is available, aborted, or timed
// out.
func (r *Runner) RunWorkload(ctx context.Context, dep *appsv1.Deployment, svc *corev1.Service) (ReadinessOutcome, error) {
	h, err := r.platform.CreateWorkload(ctx, dep)
	if err != nil {
		return ReadinessOutcome{}, err
	}

	if svc != nil {
		if err := r.platform.CreateService(ctx, svc); err != nil {
			return ReadinessOutcome{}, err
		}
	}

	outcome, err := r.platform.AwaitAvailable(ctx, h, r.opts.Timeout)
	if err != nil {
		return ReadinessOutcome{}, err
	}

	slog.With("workload", h.String()).Info("Workload watch resolved", "state", outcome.State)
	return outcome, nil
}
