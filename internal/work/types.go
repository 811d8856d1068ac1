package work

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"

	"kuberun/internal/apperrors"
)

// PrincipalContainer is the container whose lifecycle carries a job's exit
// code and output.
const PrincipalContainer = "main"

// DefaultWatchTimeout bounds completion and readiness watches when the
// caller does not choose one.
const DefaultWatchTimeout = 2 * time.Minute

// Validation limits
const (
	maxNameLength = 63 // job names feed the job-name pod label; label values cap at 63
	maxArgs       = 64
	maxEnvEntries = 256
)

// namePattern enforces the DNS-1123 label form the cluster requires of names.
var namePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// Handle identifies submitted work by its cluster coordinates. It carries no
// state; everything else is looked up through the orchestration API.
type Handle struct {
	Name      string
	Namespace string
}

func (h Handle) String() string {
	return h.Namespace + "/" + h.Name
}

// PodRef identifies the pod a log relay reads from.
type PodRef struct {
	Name      string
	Namespace string
}

// PodRefOf derives the relay coordinates of a resolved pod.
func PodRefOf(pod *corev1.Pod) PodRef {
	return PodRef{Name: pod.Name, Namespace: pod.Namespace}
}

// WatchOptions bound a completion watch.
type WatchOptions struct {
	// Timeout bounds the blocked phase of the watch. Zero or negative
	// selects DefaultWatchTimeout.
	Timeout time.Duration

	// DeleteOnTimeout removes the remote job after a timed-out resolution.
	// The default leaves it running; resolving TimedOut never cancels the
	// job implicitly.
	DeleteOnTimeout bool
}

// Environment is the environment set of a command. Rendering is
// deterministic: variables are emitted sorted by name.
type Environment map[string]string

// EnvVars renders the environment for a container spec, sorted by name.
func (e Environment) EnvVars() []corev1.EnvVar {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]corev1.EnvVar, 0, len(names))
	for _, name := range names {
		vars = append(vars, corev1.EnvVar{Name: name, Value: e[name]})
	}
	return vars
}

// Command is the execution payload of a descriptor: which binary family to
// run, from which image, with what argv and environment.
type Command struct {
	Kind  CommandKind
	Image string
	Tag   string
	Args  []string
	Env   Environment
}

// ImageRef renders the image reference, appending the tag when present.
func (c Command) ImageRef() string {
	if c.Tag == "" {
		return c.Image
	}
	return c.Image + ":" + c.Tag
}

func (c Command) validate() error {
	if !c.Kind.valid() {
		return apperrors.Validation("kind", "command kind is required")
	}
	if c.Image == "" {
		return apperrors.Validation("image", "image is required")
	}
	if len(c.Args) > maxArgs {
		return apperrors.Validation("args", fmt.Sprintf("args exceed maximum of %d", maxArgs))
	}
	if len(c.Env) > maxEnvEntries {
		return apperrors.Validation("env", fmt.Sprintf("environment exceeds maximum of %d entries", maxEnvEntries))
	}
	return nil
}

func validateName(field, name string) error {
	if len(name) > maxNameLength {
		return apperrors.Validation(field, fmt.Sprintf("%s exceeds maximum length of %d", field, maxNameLength))
	}
	if !namePattern.MatchString(name) {
		return apperrors.Validation(field, fmt.Sprintf("%s must be a lowercase DNS-1123 label", field))
	}
	return nil
}

// Result is what a runner hands back for one unit of work.
type Result struct {
	Handle   Handle
	Outcome  Outcome
	ExitCode int
	Logs     []string
	Duration time.Duration
}

// OK reports a fully successful run: a Succeeded outcome whose principal
// container exited zero.
func (r Result) OK() bool {
	return r.Outcome.State == OutcomeSucceeded && r.ExitCode == 0
}
