package kube

import (
	"context"
	"errors"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"kuberun/internal/apperrors"
	"kuberun/internal/work"
)

func jobPod(name, jobName, container string, created time.Time) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         "default",
			Labels:            map[string]string{"job-name": jobName},
			CreationTimestamp: metav1.NewTime(created),
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: container, Image: "alpine:3.20"}},
		},
	}
}

func TestPrincipalPodFindsPod(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clientset := fake.NewClientset(jobPod("echo-abc12", "echo", "main", time.Now()))
	client := newTestClient(t, clientset)

	pod, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if err != nil {
		t.Fatalf("PrincipalPod() failed: %v", err)
	}
	if pod.Name != "echo-abc12" {
		t.Errorf("expected echo-abc12, got %s", pod.Name)
	}
}

func TestPrincipalPodNoPods(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := newTestClient(t, fake.NewClientset())

	_, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestPrincipalPodIgnoresOtherJobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clientset := fake.NewClientset(
		jobPod("other-xyz99", "other", "main", time.Now()),
	)
	client := newTestClient(t, clientset)

	_, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found when only other jobs have pods, got %v", err)
	}
}

func TestPrincipalPodRequiresContainer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clientset := fake.NewClientset(jobPod("echo-abc12", "echo", "sidecar", time.Now()))
	client := newTestClient(t, clientset)

	_, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found when no pod declares the container, got %v", err)
	}
}

func TestPrincipalPodContainerMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clientset := fake.NewClientset(jobPod("echo-abc12", "echo", "MAIN", time.Now()))
	client := newTestClient(t, clientset)

	pod, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if err != nil {
		t.Fatalf("PrincipalPod() failed: %v", err)
	}
	if pod.Name != "echo-abc12" {
		t.Errorf("expected echo-abc12, got %s", pod.Name)
	}
}

func TestPrincipalPodPicksNewest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()
	clientset := fake.NewClientset(
		jobPod("echo-old", "echo", "main", now.Add(-time.Hour)),
		jobPod("echo-new", "echo", "main", now),
		jobPod("echo-mid", "echo", "main", now.Add(-time.Minute)),
	)
	client := newTestClient(t, clientset)

	pod, err := client.PrincipalPod(ctx, work.Handle{Name: "echo", Namespace: "default"}, "main")
	if err != nil {
		t.Fatalf("PrincipalPod() failed: %v", err)
	}
	if pod.Name != "echo-new" {
		t.Errorf("expected the newest pod, got %s", pod.Name)
	}
}
