package kube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"kuberun/internal/apperrors"
	"kuberun/internal/work"
)

// PrincipalPod locates the pod that ran the job's principal container.
//
// Pods are matched by the job-name label the job controller stamps on them,
// then filtered to those declaring the container. When more than one pod
// matches (a stale pod from an earlier run sharing the name), the most
// recently created wins.
func (c *Client) PrincipalPod(ctx context.Context, h work.Handle, container string) (*corev1.Pod, error) {
	selector := labels.SelectorFromSet(labels.Set{"job-name": h.Name}).String()
	pods, err := c.clientset.CoreV1().Pods(h.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, apperrors.FromKubernetes("pods.list", "pod", err)
	}

	var candidates []corev1.Pod
	for _, pod := range pods.Items {
		if declaresContainer(pod, container) {
			candidates = append(candidates, pod)
		}
	}
	if len(candidates) == 0 {
		return nil, apperrors.NotFound("pod", fmt.Sprintf("for job %s with container %s", h.Name, container))
	}

	pick := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].CreationTimestamp.Time.After(candidates[pick].CreationTimestamp.Time) {
			pick = i
		}
	}
	if len(candidates) > 1 {
		slog.Warn("Multiple pods matched job, using newest",
			"job", h.String(),
			"matched", len(candidates),
			"pod", candidates[pick].Name)
	}

	return &candidates[pick], nil
}

func declaresContainer(pod corev1.Pod, name string) bool {
	for _, container := range pod.Spec.Containers {
		if strings.EqualFold(container.Name, name) {
			return true
		}
	}
	return false
}
