package kube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/watch"

	"kuberun/internal/apperrors"
	"kuberun/internal/work"
)

// CreateWorkload creates the deployment and returns its cluster coordinates.
func (c *Client) CreateWorkload(ctx context.Context, dep *appsv1.Deployment) (work.Handle, error) {
	if dep == nil {
		return work.Handle{}, apperrors.Validation("deployment", "deployment descriptor is required")
	}
	if dep.Name == "" {
		return work.Handle{}, apperrors.Validation("name", "deployment name is required")
	}
	if len(dep.Spec.Template.Spec.Containers) == 0 {
		return work.Handle{}, apperrors.Validation("containers", "deployment needs at least one container")
	}

	namespace := dep.Namespace
	if namespace == "" {
		namespace = c.namespace
	}

	created, err := c.clientset.AppsV1().Deployments(namespace).Create(ctx, dep, metav1.CreateOptions{})
	if err != nil {
		return work.Handle{}, apperrors.FromKubernetes("deployments.create", "deployment", err)
	}

	h := work.Handle{Name: created.Name, Namespace: namespace}
	image := dep.Spec.Template.Spec.Containers[0].Image
	slog.Info("Workload created", "workload", h.String(), "image", image)

	if c.metrics != nil {
		c.metrics.RecordSubmit(ctx, "workload", image)
	}

	return h, nil
}

// CreateService exposes a workload inside the cluster. A service that already
// exists under the same name is reused rather than replaced.
func (c *Client) CreateService(ctx context.Context, svc *corev1.Service) error {
	if svc == nil {
		return apperrors.Validation("service", "service descriptor is required")
	}
	if svc.Name == "" {
		return apperrors.Validation("name", "service name is required")
	}

	namespace := svc.Namespace
	if namespace == "" {
		namespace = c.namespace
	}

	_, err := c.clientset.CoreV1().Services(namespace).Create(ctx, svc, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		slog.Info("Service already exists, reusing", "service", svc.Name, "namespace", namespace)
		return nil
	}
	if err != nil {
		return apperrors.FromKubernetes("services.create", "service", err)
	}

	slog.Info("Service created", "service", svc.Name, "namespace", namespace)
	return nil
}

// DeleteWorkload removes the deployment and its pods with foreground
// propagation. Idempotent: deleting an absent deployment returns nil.
func (c *Client) DeleteWorkload(ctx context.Context, h work.Handle) error {
	propagation := metav1.DeletePropagationForeground
	err := c.clientset.AppsV1().Deployments(h.Namespace).Delete(ctx, h.Name, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return apperrors.FromKubernetes("deployments.delete", "deployment", err)
	}
	return nil
}

// AwaitAvailable blocks until the workload reports every replica available,
// is deleted, or the timeout elapses.
//
// Deployment snapshots are consumed in event order. Deletion is checked
// before any status inspection, so a deleted workload can never read as
// ready. Snapshots the controller has not observed yet are skipped: a fresh
// deployment reports zero unavailable replicas only because nothing reported
// at all.
func (c *Client) AwaitAvailable(ctx context.Context, h work.Handle, timeout time.Duration) (work.ReadinessOutcome, error) {
	if timeout <= 0 {
		timeout = work.DefaultWatchTimeout
	}

	logger := slog.With("workload", h.String())

	if _, err := c.clientset.AppsV1().Deployments(h.Namespace).Get(ctx, h.Name, metav1.GetOptions{}); err != nil {
		return work.ReadinessOutcome{}, apperrors.FromKubernetes("deployments.get", "deployment", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	watcher, err := c.clientset.AppsV1().Deployments(h.Namespace).Watch(ctx, metav1.ListOptions{
		FieldSelector: fields.OneTermEqualSelector("metadata.name", h.Name).String(),
	})
	if err != nil {
		return work.ReadinessOutcome{}, apperrors.FromKubernetes("deployments.watch", "deployment", err)
	}
	defer watcher.Stop()

	if c.metrics != nil {
		c.metrics.RecordWatchStarted(ctx)
	}
	start := time.Now()

	outcome := consumeDeploymentEvents(ctx, logger, watcher)

	if c.metrics != nil {
		c.metrics.RecordWatchResolved(context.Background(), "workload", string(outcome.State), time.Since(start).Seconds())
	}

	return outcome, nil
}

// consumeDeploymentEvents applies the readiness transition rules until
// exactly one outcome fires.
func consumeDeploymentEvents(ctx context.Context, logger *slog.Logger, watcher watch.Interface) work.ReadinessOutcome {
	for {
		select {
		case <-ctx.Done():
			return interruptedReadiness(ctx, logger)

		case event, ok := <-watcher.ResultChan():
			if !ok {
				if ctx.Err() != nil {
					return interruptedReadiness(ctx, logger)
				}
				logger.Warn("Watch closed before the workload became available")
				return work.ReadinessOutcome{State: work.ReadinessAborted}
			}

			if event.Type == watch.Error {
				cause := apierrors.FromObject(event.Object)
				logger.Error("Watch reported an error", "error", cause)
				return work.ReadinessOutcome{State: work.ReadinessAborted, Cause: cause}
			}
			if event.Type == watch.Deleted {
				logger.Warn("Workload deleted while awaiting availability")
				return work.ReadinessOutcome{State: work.ReadinessAborted}
			}

			dep, ok := event.Object.(*appsv1.Deployment)
			if !ok {
				logger.Warn("Ignoring unexpected watch object", "type", fmt.Sprintf("%T", event.Object))
				continue
			}

			status := dep.Status
			switch {
			case status.ObservedGeneration == 0 && status.Replicas == 0:
				logger.Info("Workload has not reported status yet", "event", string(event.Type))

			case status.UnavailableReplicas == 0:
				logger.Info("Workload available", "replicas", status.AvailableReplicas)
				return work.ReadinessOutcome{State: work.ReadinessReady}

			default:
				logger.Info("Workload not yet available", "unavailable", status.UnavailableReplicas)
			}
		}
	}
}

func interruptedReadiness(ctx context.Context, logger *slog.Logger) work.ReadinessOutcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.Warn("Workload did not become available before the deadline")
		return work.ReadinessOutcome{State: work.ReadinessTimedOut}
	}
	logger.Warn("Readiness watch cancelled")
	return work.ReadinessOutcome{State: work.ReadinessAborted, Cause: ctx.Err()}
}
