package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizationErrorFormat(t *testing.T) {
	withPath := &StandardizationError{Shape: ShapeBaseType, Path: "id", Reason: "unparseable id"}
	assert.Equal(t, "standardize base_type: id: unparseable id", withPath.Error())

	wholeValue := &StandardizationError{Shape: ShapeModel, Reason: "missing id"}
	assert.Equal(t, "standardize model: missing id", wholeValue.Error())
}

func TestBackendErrorUnwrap(t *testing.T) {
	inner := errors.New("database is locked")
	be := &BackendError{Op: "fetch model", Err: inner}
	assert.Equal(t, "fetch model: database is locked", be.Error())
	assert.ErrorIs(t, be, inner)
	assert.ErrorIs(t, fmt.Errorf("handler: %w", be), inner)
}
