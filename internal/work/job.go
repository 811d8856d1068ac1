package work

import (
	"strings"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"kuberun/internal/apperrors"
)

// Defaults for the shared volumes a descriptor mounts.
const (
	DefaultWorkspaceClaim = "workspace"
	DefaultConfigMap      = "task-config"
)

// Spec describes one unit of work to submit as a job.
type Spec struct {
	// Name is the exact job name. Mutually exclusive with NamePrefix.
	Name string

	// NamePrefix asks the cluster to generate a unique name with this
	// prefix. Prefixes conventionally end with a hyphen.
	NamePrefix string

	Namespace string
	Command   Command

	// Labels are added to the job's metadata.
	Labels map[string]string

	// WorkspaceClaim names the persistent volume claim backing the
	// workspace mount. Empty selects DefaultWorkspaceClaim.
	WorkspaceClaim string

	// ConfigMap names the config map projected per the command kind.
	// Empty selects DefaultConfigMap.
	ConfigMap string

	// ExtraVolumes and ExtraMounts attach additional payload to the
	// principal container, such as seed data or identity material.
	ExtraVolumes []corev1.Volume
	ExtraMounts  []corev1.VolumeMount
}

// Validate checks the spec without rendering it.
func (s Spec) Validate() error {
	switch {
	case s.Name == "" && s.NamePrefix == "":
		return apperrors.Validation("name", "one of name or namePrefix is required")
	case s.Name != "" && s.NamePrefix != "":
		return apperrors.Validation("name", "name and namePrefix are mutually exclusive")
	case s.Name != "":
		if err := validateName("name", s.Name); err != nil {
			return err
		}
	default:
		prefix := strings.TrimSuffix(s.NamePrefix, "-")
		if err := validateName("namePrefix", prefix); err != nil {
			return err
		}
	}
	return s.Command.validate()
}

// Job renders the spec as a batch job: a single completion, no retries, and
// the principal container wired with the kind's mounts. Failure semantics
// stay with the watcher; the cluster never restarts failed work.
func (s Spec) Job() (*batchv1.Job, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	backoffLimit := int32(0)
	completions := int32(1)

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:         s.Name,
			GenerateName: s.NamePrefix,
			Namespace:    s.Namespace,
			Labels:       s.Labels,
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Completions:  &completions,
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:         PrincipalContainer,
							Image:        s.Command.ImageRef(),
							Command:      s.Command.Args,
							Env:          s.Command.Env.EnvVars(),
							VolumeMounts: s.mounts(),
						},
					},
					Volumes: s.volumes(),
				},
			},
		},
	}, nil
}

func (s Spec) mounts() []corev1.VolumeMount {
	return append(s.Command.Kind.Mounts(), s.ExtraMounts...)
}

func (s Spec) volumes() []corev1.Volume {
	claim := s.WorkspaceClaim
	if claim == "" {
		claim = DefaultWorkspaceClaim
	}
	configMap := s.ConfigMap
	if configMap == "" {
		configMap = DefaultConfigMap
	}

	volumes := []corev1.Volume{
		{
			Name: WorkspaceVolume,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: claim,
				},
			},
		},
		{
			Name: ConfigVolume,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: configMap},
				},
			},
		},
	}
	return append(volumes, s.ExtraVolumes...)
}
