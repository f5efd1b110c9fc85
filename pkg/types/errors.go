package types

import (
	"errors"
	"fmt"
)

// Shape dispatch errors.
var (
	ErrUnknownShape = errors.New("unknown shape")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrModelNotFound  = errors.New("model not found")
	ErrTypeNotFound   = errors.New("model type not found")
	ErrTraitNotFound  = errors.New("trait type not found")
	ErrDuplicateTitle = errors.New("a model with this title already exists")
	ErrInvalidTitle   = errors.New("title must not be empty")
)

// StandardizationError reports that raw input could not be mapped to
// a canonical shape: a required identity field is absent or
// unparseable, or the raw value's type precludes any field mapping.
// Path locates the offending field within the shape and may be empty
// when the whole value is at fault.
type StandardizationError struct {
	Shape  Shape
	Path   string
	Reason string
}

func (e *StandardizationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("standardize %s: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("standardize %s: %s: %s", e.Shape, e.Path, e.Reason)
}

// BackendError wraps a failure raised by the data-access layer.
// It is passed through verbatim into an error envelope and never
// retried here.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
