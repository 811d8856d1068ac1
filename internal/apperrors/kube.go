package apperrors

import (
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// FromKubernetes classifies an error returned by the Kubernetes API into the
// application taxonomy. The op names the API call that failed (e.g.,
// "jobs.create") and resource the kind it targeted.
func FromKubernetes(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{
		Message:  fmt.Sprintf("%s: %v", op, err),
		Resource: resource,
		Op:       op,
		Cause:    err,
	}
	switch {
	case apierrors.IsNotFound(err):
		e.Sentinel = ErrNotFound
	case apierrors.IsAlreadyExists(err), apierrors.IsConflict(err):
		e.Sentinel = ErrConflict
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		e.Sentinel = ErrForbidden
	case apierrors.IsInvalid(err), apierrors.IsBadRequest(err):
		e.Sentinel = ErrValidation
	default:
		e.Sentinel = ErrInternal
	}
	return e
}
