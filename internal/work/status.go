package work

import (
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"kuberun/internal/apperrors"
)

// UnknownExitCode is reported for a container that has not terminated: the
// watch already resolved, but the pod listing still shows it running or
// waiting. The listing can lag the watch; the gap is observable, not fatal.
const UnknownExitCode = -1

// ExitCode maps the lifecycle state of the named container to its exit code.
//
// Terminated containers report their real exit code. Running and waiting
// containers report UnknownExitCode with an error-level log. A pod status
// carrying no state for the container returns ErrStateNotFound.
//
// Only meaningful after a completion watch resolved Succeeded or Failed;
// calling it earlier is a caller error.
func ExitCode(status corev1.PodStatus, container string) (int, error) {
	for _, cs := range status.ContainerStatuses {
		if !strings.EqualFold(cs.Name, container) {
			continue
		}
		switch {
		case cs.State.Running != nil:
			slog.Error("Container is still running after terminal outcome",
				"container", container,
				"startedAt", cs.State.Running.StartedAt)
			return UnknownExitCode, nil
		case cs.State.Waiting != nil:
			slog.Error("Container is still waiting after terminal outcome",
				"container", container,
				"reason", cs.State.Waiting.Reason)
			return UnknownExitCode, nil
		case cs.State.Terminated != nil:
			return int(cs.State.Terminated.ExitCode), nil
		}
	}
	return 0, apperrors.StateNotFound(container)
}
