package work

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"kuberun/internal/apperrors"
)

// Volume layout shared by all command kinds. Every job and workload mounts
// the workspace claim; the shared config tree comes from a config map, and
// each kind decides how much of it the binary gets to see.
const (
	WorkspaceVolume    = "workspace"
	WorkspaceMountPath = "/workspace"
	ConfigVolume       = "task-config"
	ConfigMountPath    = "/workspace/config"
	ConfigFileName     = "config.yaml"
)

// CommandKind is a closed set of command families. Each kind carries the
// config mounts its binaries expect, so descriptor assembly never branches
// on dynamic types. The zero value fails validation.
type CommandKind struct {
	name   string
	mounts []corev1.VolumeMount
}

// KindWorker runs long-form node binaries, which read the whole config tree:
// the config volume is mounted as a directory.
var KindWorker = CommandKind{
	name: "worker",
	mounts: []corev1.VolumeMount{
		{Name: WorkspaceVolume, MountPath: WorkspaceMountPath},
		{Name: ConfigVolume, MountPath: ConfigMountPath},
	},
}

// KindTool runs one-shot toolchain binaries, which expect a single config
// file: one entry of the config volume is projected via subPath.
var KindTool = CommandKind{
	name: "tool",
	mounts: []corev1.VolumeMount{
		{Name: WorkspaceVolume, MountPath: WorkspaceMountPath},
		{Name: ConfigVolume, MountPath: ConfigMountPath + "/" + ConfigFileName, SubPath: ConfigFileName},
	},
}

// Name returns the kind tag used in descriptor files.
func (k CommandKind) Name() string {
	return k.name
}

// Mounts returns a copy of the kind's volume mounts.
func (k CommandKind) Mounts() []corev1.VolumeMount {
	mounts := make([]corev1.VolumeMount, len(k.mounts))
	copy(mounts, k.mounts)
	return mounts
}

func (k CommandKind) valid() bool {
	return k.name != ""
}

// KindByName resolves a descriptor-file kind tag. An unknown tag fails here,
// at construction time, never during assembly.
func KindByName(name string) (CommandKind, error) {
	switch name {
	case KindWorker.name:
		return KindWorker, nil
	case KindTool.name:
		return KindTool, nil
	}
	return CommandKind{}, apperrors.Validation("kind", fmt.Sprintf("unknown command kind %q", name))
}
