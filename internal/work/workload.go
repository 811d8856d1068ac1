package work

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"kuberun/internal/apperrors"
)

// appLabel keys the selector binding a workload's pods to its service.
const appLabel = "app"

// Port exposes one named TCP port on a workload and its service.
type Port struct {
	Name string
	Port int32
}

// WorkloadSpec describes a replica-managed workload with a stable network
// identity. The service and the deployment share the workload's name.
type WorkloadSpec struct {
	Name      string
	Namespace string
	Command   Command

	// Replicas defaults to 1.
	Replicas int32

	Ports []Port

	// Labels are added to the deployment's metadata. The app selector label
	// is always present on the pod template.
	Labels map[string]string

	// WorkspaceClaim and ConfigMap override the shared volume sources, as
	// in Spec.
	WorkspaceClaim string
	ConfigMap      string

	ExtraVolumes []corev1.Volume
	ExtraMounts  []corev1.VolumeMount
}

// Validate checks the spec without rendering it.
func (s WorkloadSpec) Validate() error {
	if s.Name == "" {
		return apperrors.Validation("name", "workload name is required")
	}
	if err := validateName("name", s.Name); err != nil {
		return err
	}
	for _, p := range s.Ports {
		if p.Port <= 0 || p.Port > 65535 {
			return apperrors.Validation("ports", "port must be between 1 and 65535")
		}
	}
	return s.Command.validate()
}

// Deployment renders the workload's deployment: pods labeled for the app
// selector, the principal container wired like a job's.
func (s WorkloadSpec) Deployment() (*appsv1.Deployment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	replicas := s.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	containerPorts := make([]corev1.ContainerPort, 0, len(s.Ports))
	for _, p := range s.Ports {
		containerPorts = append(containerPorts, corev1.ContainerPort{
			Name:          p.Name,
			Protocol:      corev1.ProtocolTCP,
			ContainerPort: p.Port,
		})
	}

	spec := Spec{
		Namespace:      s.Namespace,
		Command:        s.Command,
		WorkspaceClaim: s.WorkspaceClaim,
		ConfigMap:      s.ConfigMap,
		ExtraVolumes:   s.ExtraVolumes,
		ExtraMounts:    s.ExtraMounts,
	}

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
			Labels:    s.Labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{appLabel: s.Name},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{appLabel: s.Name},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:         PrincipalContainer,
							Image:        s.Command.ImageRef(),
							Command:      s.Command.Args,
							Env:          s.Command.Env.EnvVars(),
							Ports:        containerPorts,
							VolumeMounts: spec.mounts(),
						},
					},
					Volumes: spec.volumes(),
				},
			},
		},
	}, nil
}

// Service renders the workload's in-cluster service, selecting its pods by
// the app label and exposing the same named ports.
func (s WorkloadSpec) Service() *corev1.Service {
	servicePorts := make([]corev1.ServicePort, 0, len(s.Ports))
	for _, p := range s.Ports {
		servicePorts = append(servicePorts, corev1.ServicePort{
			Name:     p.Name,
			Protocol: corev1.ProtocolTCP,
			Port:     p.Port,
		})
	}

	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
		},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{appLabel: s.Name},
			Ports:    servicePorts,
		},
	}
}
