// Package descriptor loads the YAML files describing tasks and workloads and
// maps them onto work specs. Field problems surface as validation errors at
// load time, before anything reaches the cluster.
package descriptor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kuberun/internal/work"
)

// Task is the YAML schema of a run descriptor.
type Task struct {
	Name           string            `yaml:"name"`
	NamePrefix     string            `yaml:"namePrefix"`
	Namespace      string            `yaml:"namespace"`
	Kind           string            `yaml:"kind"`
	Image          string            `yaml:"image"`
	Tag            string            `yaml:"tag"`
	Args           []string          `yaml:"args"`
	Env            map[string]string `yaml:"env"`
	Labels         map[string]string `yaml:"labels"`
	WorkspaceClaim string            `yaml:"workspaceClaim"`
	ConfigMap      string            `yaml:"configMap"`
}

// Workload is the YAML schema of a deploy descriptor.
type Workload struct {
	Name           string            `yaml:"name"`
	Namespace      string            `yaml:"namespace"`
	Kind           string            `yaml:"kind"`
	Image          string            `yaml:"image"`
	Tag            string            `yaml:"tag"`
	Args           []string          `yaml:"args"`
	Env            map[string]string `yaml:"env"`
	Replicas       int32             `yaml:"replicas"`
	Ports          []Port            `yaml:"ports"`
	Labels         map[string]string `yaml:"labels"`
	WorkspaceClaim string            `yaml:"workspaceClaim"`
	ConfigMap      string            `yaml:"configMap"`
}

// Port exposes one named port in a workload descriptor.
type Port struct {
	Name string `yaml:"name"`
	Port int32  `yaml:"port"`
}

// LoadTask reads a task descriptor and returns the validated spec. The
// default namespace applies when the file does not name one.
func LoadTask(path, defaultNamespace string) (work.Spec, error) {
	var file Task
	if err := read(path, &file); err != nil {
		return work.Spec{}, err
	}

	kind, err := work.KindByName(file.Kind)
	if err != nil {
		return work.Spec{}, err
	}

	spec := work.Spec{
		Name:       file.Name,
		NamePrefix: file.NamePrefix,
		Namespace:  namespaceOf(file.Namespace, defaultNamespace),
		Command: work.Command{
			Kind:  kind,
			Image: file.Image,
			Tag:   file.Tag,
			Args:  file.Args,
			Env:   file.Env,
		},
		Labels:         file.Labels,
		WorkspaceClaim: file.WorkspaceClaim,
		ConfigMap:      file.ConfigMap,
	}

	if err := spec.Validate(); err != nil {
		return work.Spec{}, err
	}
	return spec, nil
}

// LoadWorkload reads a deploy descriptor and returns the validated spec.
func LoadWorkload(path, defaultNamespace string) (work.WorkloadSpec, error) {
	var file Workload
	if err := read(path, &file); err != nil {
		return work.WorkloadSpec{}, err
	}

	kind, err := work.KindByName(file.Kind)
	if err != nil {
		return work.WorkloadSpec{}, err
	}

	ports := make([]work.Port, 0, len(file.Ports))
	for _, p := range file.Ports {
		ports = append(ports, work.Port{Name: p.Name, Port: p.Port})
	}

	spec := work.WorkloadSpec{
		Name:      file.Name,
		Namespace: namespaceOf(file.Namespace, defaultNamespace),
		Command: work.Command{
			Kind:  kind,
			Image: file.Image,
			Tag:   file.Tag,
			Args:  file.Args,
			Env:   file.Env,
		},
		Replicas:       file.Replicas,
		Ports:          ports,
		Labels:         file.Labels,
		WorkspaceClaim: file.WorkspaceClaim,
		ConfigMap:      file.ConfigMap,
	}

	if err := spec.Validate(); err != nil {
		return work.WorkloadSpec{}, err
	}
	return spec, nil
}

func read(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func namespaceOf(fromFile, fallback string) string {
	if fromFile != "" {
		return fromFile
	}
	return fallback
}
