package kube

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"kuberun/internal/apperrors"
)

// EnsureNamespace creates the namespace if it does not already exist.
func (c *Client) EnsureNamespace(ctx context.Context, name string) error {
	if name == "" {
		return apperrors.Validation("namespace", "namespace name is required")
	}

	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}
	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	if err != nil {
		return apperrors.FromKubernetes("namespaces.create", "namespace", err)
	}

	slog.Info("Namespace created", "namespace", name)
	return nil
}

// EnsureConfigMap creates the config map, or replaces its data when it
// already exists. Jobs mount these as task configuration.
func (c *Client) EnsureConfigMap(ctx context.Context, namespace, name string, data map[string]string) error {
	if name == "" {
		return apperrors.Validation("name", "config map name is required")
	}
	if namespace == "" {
		namespace = c.namespace
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Data:       data,
	}

	_, err := c.clientset.CoreV1().ConfigMaps(namespace).Create(ctx, cm, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = c.clientset.CoreV1().ConfigMaps(namespace).Update(ctx, cm, metav1.UpdateOptions{})
	}
	if err != nil {
		return apperrors.FromKubernetes("configmaps.apply", "configmap", err)
	}

	slog.Info("Config map applied", "configmap", name, "namespace", namespace, "keys", len(data))
	return nil
}
