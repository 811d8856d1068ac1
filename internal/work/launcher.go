// Package work defines descriptors, handles, and outcomes for one-shot jobs
// and replicated workloads, plus the interfaces a platform implements to run
// them to resolution.
package work

import (
	"context"
	"io"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
)

// Launcher submits one-shot jobs and tracks them to a terminal outcome.
//
// # State Management
//
// The cluster is the SOURCE OF TRUTH for all work state. A Launcher holds no
// record of submitted jobs beyond the Handle it returns; every question about
// a job is answered by the orchestration API at call time. This enables:
//
//   - Crash recovery: submitted jobs survive a runner restart
//   - Concurrent use: independent watches share one client handle
//   - Simplicity: no local store to reconcile
type Launcher interface {
	// Submit creates the job and returns its cluster coordinates.
	// The job runs asynchronously; use AwaitCompletion to block on it.
	// A name collision returns a Conflict error.
	Submit(ctx context.Context, job *batchv1.Job) (Handle, error)

	// AwaitCompletion blocks until the job reaches exactly one terminal
	// outcome or the configured timeout elapses. Timeout and subscription
	// closure are outcome values, not errors; the error return is reserved
	// for failures to subscribe (unknown handle, API rejection).
	AwaitCompletion(ctx context.Context, h Handle, opts WatchOptions) (Outcome, error)

	// PrincipalPod locates the pod that executed the job's principal
	// container. Only meaningful after AwaitCompletion resolved Succeeded
	// or Failed; calling it earlier is a caller error with undefined results.
	PrincipalPod(ctx context.Context, h Handle, container string) (*corev1.Pod, error)

	// Logs returns the captured output lines of a container, in emission
	// order, empty slice for a silent container. The underlying stream is
	// released on every path.
	Logs(ctx context.Context, ref PodRef, container string) ([]string, error)

	// StreamLogs returns the raw captured output stream. The caller owns
	// Close. The stream is finite and not restartable.
	StreamLogs(ctx context.Context, ref PodRef, container string) (io.ReadCloser, error)

	// Delete removes the job and its dependents from the cluster.
	// Idempotent: deleting an absent job returns nil.
	Delete(ctx context.Context, h Handle) error
}

// Deployer creates replica-managed workloads and tracks their availability.
type Deployer interface {
	// CreateWorkload creates the deployment and returns its coordinates.
	CreateWorkload(ctx context.Context, dep *appsv1.Deployment) (Handle, error)

	// CreateService exposes a workload inside the cluster. Reuses an
	// existing service with the same name.
	CreateService(ctx context.Context, svc *corev1.Service) error

	// AwaitAvailable blocks until the workload reports no unavailable
	// replicas, is deleted, or the timeout elapses.
	AwaitAvailable(ctx context.Context, h Handle, timeout time.Duration) (ReadinessOutcome, error)

	// DeleteWorkload removes the deployment. Idempotent.
	DeleteWorkload(ctx context.Context, h Handle) error
}

// Platform is the full surface a runner drives: job launching plus workload
// deployment against the same cluster.
type Platform interface {
	Launcher
	Deployer

	// Ready checks that the orchestration API is reachable.
	Ready(ctx context.Context) error
}
