// Package kube implements the work.Platform interface against a Kubernetes
// cluster. Jobs and workloads run wherever the configured kubeconfig or
// in-cluster service account points.
package kube

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"kuberun/internal/apperrors"
	"kuberun/internal/observability"
	"kuberun/internal/work"
)

// Client implements work.Platform using the Kubernetes API.
//
// A single Client is safe for concurrent use. It holds only the API client
// handle and immutable defaults; the cluster is the source of truth for all
// work state, so independent watches never share mutable process state.
type Client struct {
	clientset kubernetes.Interface
	namespace string
	metrics   *observability.Metrics
}

var _ work.Platform = (*Client)(nil)

// Config holds configuration for the Kubernetes client.
type Config struct {
	// Kubeconfig is the path to a kubeconfig file. Empty tries in-cluster
	// config first and falls back to the default kubeconfig location.
	Kubeconfig string

	// Namespace scopes operations whose descriptors do not carry one
	// (default "default").
	Namespace string

	// Metrics recorder (optional).
	Metrics *observability.Metrics

	// Clientset overrides the API client, for tests.
	Clientset kubernetes.Interface
}

// NewClient creates a Kubernetes-backed platform client.
func NewClient(cfg Config) (*Client, error) {
	clientset := cfg.Clientset
	if clientset == nil {
		restCfg, err := buildRestConfig(cfg.Kubeconfig)
		if err != nil {
			return nil, apperrors.Internal("kube.config", err)
		}
		clientset, err = kubernetes.NewForConfig(restCfg)
		if err != nil {
			return nil, apperrors.Internal("kube.client", err)
		}
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return &Client{
		clientset: clientset,
		namespace: namespace,
		metrics:   cfg.Metrics,
	}, nil
}

// buildRestConfig resolves cluster credentials: an explicit kubeconfig path
// wins, then in-cluster config, then the home kubeconfig.
func buildRestConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
		kubeconfig = filepath.Join(homeDir(), ".kube", "config")
		slog.Debug("In-cluster config unavailable, using kubeconfig", "path", kubeconfig)
	}
	return clientcmd.BuildConfigFromFlags("", kubeconfig)
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return os.Getenv("USERPROFILE") // Windows
}

// Submit creates the job and returns its cluster coordinates. The handle
// carries the server-assigned name, which matters when the descriptor asked
// for a generated one.
func (c *Client) Submit(ctx context.Context, job *batchv1.Job) (work.Handle, error) {
	if job == nil {
		return work.Handle{}, apperrors.Validation("job", "job descriptor is required")
	}
	if job.Name == "" && job.GenerateName == "" {
		return work.Handle{}, apperrors.Validation("name", "job name or generateName is required")
	}
	if len(job.Spec.Template.Spec.Containers) == 0 {
		return work.Handle{}, apperrors.Validation("containers", "job needs at least one container")
	}

	namespace := job.Namespace
	if namespace == "" {
		namespace = c.namespace
	}

	created, err := c.clientset.BatchV1().Jobs(namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return work.Handle{}, apperrors.FromKubernetes("jobs.create", "job", err)
	}

	h := work.Handle{Name: created.Name, Namespace: namespace}
	image := job.Spec.Template.Spec.Containers[0].Image
	slog.Info("Job submitted", "job", h.String(), "image", image)

	if c.metrics != nil {
		c.metrics.RecordSubmit(ctx, "job", image)
	}

	return h, nil
}

// Delete removes the job and its pods with foreground propagation.
// Idempotent: deleting an absent job returns nil.
func (c *Client) Delete(ctx context.Context, h work.Handle) error {
	propagation := metav1.DeletePropagationForeground
	err := c.clientset.BatchV1().Jobs(h.Namespace).Delete(ctx, h.Name, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return apperrors.FromKubernetes("jobs.delete", "job", err)
	}
	return nil
}

// Ready checks if the API server is reachable and responsive.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.clientset.Discovery().ServerVersion()
	return err
}
