package kube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/watch"

	"kuberun/internal/apperrors"
	"kuberun/internal/work"
)

// AwaitCompletion blocks until the job resolves to exactly one terminal
// outcome or the timeout elapses.
//
// Job snapshots are consumed in event order and mapped as follows:
//   - no counters reported yet: stay subscribed
//   - active counter one: note the start, stay subscribed
//   - failed counter one: resolve Failed, carrying the job's conditions
//   - succeeded counter one: resolve Succeeded
//
// Timeout, caller cancellation, and subscription loss resolve as outcome
// values, not errors. The error return is reserved for subscribe-time
// failures, so awaiting a name that was never submitted fails fast instead
// of burning the whole timeout.
func (c *Client) AwaitCompletion(ctx context.Context, h work.Handle, opts work.WatchOptions) (work.Outcome, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = work.DefaultWatchTimeout
	}

	logger := slog.With("job", h.String())

	// A watch on an absent name would sit silent until the deadline; pin the
	// handle to a live resource first.
	if _, err := c.clientset.BatchV1().Jobs(h.Namespace).Get(ctx, h.Name, metav1.GetOptions{}); err != nil {
		return work.Outcome{}, apperrors.FromKubernetes("jobs.get", "job", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	watcher, err := c.clientset.BatchV1().Jobs(h.Namespace).Watch(ctx, metav1.ListOptions{
		FieldSelector: fields.OneTermEqualSelector("metadata.name", h.Name).String(),
	})
	if err != nil {
		return work.Outcome{}, apperrors.FromKubernetes("jobs.watch", "job", err)
	}
	defer watcher.Stop()

	if c.metrics != nil {
		c.metrics.RecordWatchStarted(ctx)
	}
	start := time.Now()

	outcome := consumeJobEvents(ctx, logger, watcher)

	if c.metrics != nil {
		c.metrics.RecordWatchResolved(context.Background(), "job", string(outcome.State), time.Since(start).Seconds())
	}

	if outcome.State == work.OutcomeTimedOut && opts.DeleteOnTimeout {
		// The expired deadline must not cancel its own cleanup.
		if err := c.Delete(context.WithoutCancel(ctx), h); err != nil {
			logger.Warn("Failed to delete job after timeout", "error", err)
		} else {
			logger.Info("Deleted job after timeout")
		}
	}

	return outcome, nil
}

// consumeJobEvents applies the completion transition rules until exactly one
// outcome fires.
func consumeJobEvents(ctx context.Context, logger *slog.Logger, watcher watch.Interface) work.Outcome {
	started := false

	for {
		select {
		case <-ctx.Done():
			return interruptedOutcome(ctx, logger, started)

		case event, ok := <-watcher.ResultChan():
			if !ok {
				// The context expiring tears the watch down; report the
				// deadline, not the closure it caused.
				if ctx.Err() != nil {
					return interruptedOutcome(ctx, logger, started)
				}
				logger.Warn("Watch closed before a terminal outcome")
				return work.Outcome{State: work.OutcomeWatchClosed, Started: started}
			}

			if event.Type == watch.Error {
				cause := apierrors.FromObject(event.Object)
				logger.Error("Watch reported an error", "error", cause)
				return work.Outcome{State: work.OutcomeWatchClosed, Cause: cause, Started: started}
			}

			job, ok := event.Object.(*batchv1.Job)
			if !ok {
				logger.Warn("Ignoring unexpected watch object", "type", fmt.Sprintf("%T", event.Object))
				continue
			}

			status := job.Status
			switch {
			case status.Active == 0 && status.Failed == 0 && status.Succeeded == 0:
				logger.Info("Job has not reported status yet", "event", string(event.Type))

			case status.Active == 1:
				started = true
				logger.Info("Job started", "startTime", status.StartTime)

			case status.Failed == 1:
				logger.Warn("Job failed", "conditions", len(status.Conditions))
				return work.Outcome{State: work.OutcomeFailed, Conditions: status.Conditions, Started: started}

			case status.Succeeded == 1:
				logger.Info("Job succeeded", "completionTime", status.CompletionTime)
				return work.Outcome{State: work.OutcomeSucceeded, Started: started}
			}
		}
	}
}

// interruptedOutcome distinguishes the deadline from caller cancellation.
func interruptedOutcome(ctx context.Context, logger *slog.Logger, started bool) work.Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.Warn("Job did not complete before the deadline")
		return work.Outcome{State: work.OutcomeTimedOut, Started: started}
	}
	logger.Warn("Watch cancelled before a terminal outcome")
	return work.Outcome{State: work.OutcomeWatchClosed, Cause: ctx.Err(), Started: started}
}
