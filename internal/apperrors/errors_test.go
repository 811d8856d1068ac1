package apperrors

import (
	"errors"
	"fmt"
	"testing"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestValidation(t *testing.T) {
	t.Parallel()
	err := Validation("name", "job name is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("expected error to match ErrValidation")
	}
	if err.Error() != "job name is required" {
		t.Errorf("expected message 'job name is required', got %q", err.Error())
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected error to be *Error")
	}
	if appErr.Field != "name" {
		t.Errorf("expected field 'name', got %q", appErr.Field)
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	err := NotFound("pod", "peer-xz4f2")

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected error to match ErrNotFound")
	}
	if err.Error() != "pod peer-xz4f2 not found" {
		t.Errorf("expected message 'pod peer-xz4f2 not found', got %q", err.Error())
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected error to be *Error")
	}
	if appErr.Resource != "pod" {
		t.Errorf("expected resource 'pod', got %q", appErr.Resource)
	}
}

func TestConflict(t *testing.T) {
	t.Parallel()
	err := Conflict("job", "configtxgen", "job already exists")

	if !errors.Is(err, ErrConflict) {
		t.Error("expected error to match ErrConflict")
	}
	if err.Error() != "job already exists" {
		t.Errorf("expected message 'job already exists', got %q", err.Error())
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected error to be *Error")
	}
	if appErr.Resource != "job" {
		t.Errorf("expected resource 'job', got %q", appErr.Resource)
	}
}

func TestStateNotFound(t *testing.T) {
	t.Parallel()
	err := StateNotFound("main")

	if !errors.Is(err, ErrStateNotFound) {
		t.Error("expected error to match ErrStateNotFound")
	}
	if err.Error() != "no lifecycle state for container main" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestInternal(t *testing.T) {
	t.Parallel()
	cause := fmt.Errorf("connection refused")
	err := Internal("jobs.watch", cause)

	if !errors.Is(err, ErrInternal) {
		t.Error("expected error to match ErrInternal")
	}
	if err.Error() != "jobs.watch: connection refused" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected error to be *Error")
	}
	if appErr.Op != "jobs.watch" {
		t.Errorf("expected op 'jobs.watch', got %q", appErr.Op)
	}
	if appErr.Cause != cause {
		t.Error("expected cause to be preserved")
	}
}

func TestFromKubernetes(t *testing.T) {
	t.Parallel()
	jobs := schema.GroupResource{Group: "batch", Resource: "jobs"}

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", apierrors.NewNotFound(jobs, "echo"), ErrNotFound},
		{"already exists", apierrors.NewAlreadyExists(jobs, "echo"), ErrConflict},
		{"conflict", apierrors.NewConflict(jobs, "echo", fmt.Errorf("stale")), ErrConflict},
		{"forbidden", apierrors.NewForbidden(jobs, "echo", fmt.Errorf("rbac")), ErrForbidden},
		{"unauthorized", apierrors.NewUnauthorized("expired token"), ErrForbidden},
		{"bad request", apierrors.NewBadRequest("bad field selector"), ErrValidation},
		{"plain error", fmt.Errorf("connection reset"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FromKubernetes("jobs.create", "job", tt.err)
			if !errors.Is(got, tt.sentinel) {
				t.Errorf("FromKubernetes() = %v, want sentinel %v", got, tt.sentinel)
			}

			var appErr *Error
			if !errors.As(got, &appErr) {
				t.Fatal("expected error to be *Error")
			}
			if appErr.Op != "jobs.create" {
				t.Errorf("expected op 'jobs.create', got %q", appErr.Op)
			}
			if appErr.Cause != tt.err {
				t.Error("expected cause to be preserved")
			}
		})
	}
}

func TestFromKubernetesNil(t *testing.T) {
	t.Parallel()
	if got := FromKubernetes("jobs.get", "job", nil); got != nil {
		t.Errorf("FromKubernetes(nil) = %v, want nil", got)
	}
}

func TestErrorsIsWithWrapping(t *testing.T) {
	t.Parallel()
	// Ensure errors.Is works through fmt.Errorf wrapping
	original := Validation("name", "required")
	wrapped := fmt.Errorf("runner error: %w", original)
	doubleWrapped := fmt.Errorf("command error: %w", wrapped)

	if !errors.Is(doubleWrapped, ErrValidation) {
		t.Error("expected errors.Is to find ErrValidation through multiple wraps")
	}
}
