package work

import (
	"errors"
	"testing"

	"kuberun/internal/apperrors"
)

func TestKindByName(t *testing.T) {
	t.Parallel()
	kind, err := KindByName("worker")
	if err != nil {
		t.Fatalf("KindByName(worker) returned error: %v", err)
	}
	if kind.Name() != "worker" {
		t.Errorf("expected worker, got %q", kind.Name())
	}

	kind, err = KindByName("tool")
	if err != nil {
		t.Fatalf("KindByName(tool) returned error: %v", err)
	}
	if kind.Name() != "tool" {
		t.Errorf("expected tool, got %q", kind.Name())
	}
}

func TestKindByNameUnknown(t *testing.T) {
	t.Parallel()
	_, err := KindByName("cronjob")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestZeroKindInvalid(t *testing.T) {
	t.Parallel()
	var kind CommandKind
	if kind.valid() {
		t.Error("zero kind must not be valid")
	}

	cmd := Command{Kind: kind, Image: "alpine"}
	if err := cmd.validate(); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for zero kind, got %v", err)
	}
}

func TestWorkerMountsConfigDirectory(t *testing.T) {
	t.Parallel()
	mounts := KindWorker.Mounts()
	if len(mounts) != 2 {
		t.Fatalf("expected 2 mounts, got %d", len(mounts))
	}

	if mounts[0].Name != WorkspaceVolume || mounts[0].MountPath != WorkspaceMountPath {
		t.Errorf("unexpected workspace mount: %+v", mounts[0])
	}
	if mounts[1].Name != ConfigVolume || mounts[1].MountPath != ConfigMountPath {
		t.Errorf("unexpected config mount: %+v", mounts[1])
	}
	if mounts[1].SubPath != "" {
		t.Errorf("worker config mount must be a directory, got subPath %q", mounts[1].SubPath)
	}
}

func TestToolMountsConfigFile(t *testing.T) {
	t.Parallel()
	mounts := KindTool.Mounts()
	if len(mounts) != 2 {
		t.Fatalf("expected 2 mounts, got %d", len(mounts))
	}

	want := ConfigMountPath + "/" + ConfigFileName
	if mounts[1].MountPath != want {
		t.Errorf("tool config mount path = %q, want %q", mounts[1].MountPath, want)
	}
	if mounts[1].SubPath != ConfigFileName {
		t.Errorf("tool config mount subPath = %q, want %q", mounts[1].SubPath, ConfigFileName)
	}
}

func TestMountsReturnsCopy(t *testing.T) {
	t.Parallel()
	mounts := KindTool.Mounts()
	mounts[0].MountPath = "/elsewhere"

	if KindTool.Mounts()[0].MountPath != WorkspaceMountPath {
		t.Error("mutating the returned slice must not affect the kind")
	}
}
