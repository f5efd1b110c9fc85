package canon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestSuccessEnvelope(t *testing.T) {
	env := SuccessEnvelope(types.BaseType{ID: 7, Name: "Person"}, "Retrieved type 'Person'")
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
	assert.Equal(t, "Retrieved type 'Person'", env.Message)
	assert.Empty(t, env.ErrorMessage)
	assert.Empty(t, env.Detail)
}

func TestErrorEnvelope(t *testing.T) {
	env := ErrorEnvelope("connection refused", "backend unavailable")
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Empty(t, env.Message)
	assert.Equal(t, "connection refused", env.ErrorMessage)
	assert.Equal(t, "backend unavailable", env.Detail)
}

func TestEnvelopeFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantDetail  string
	}{
		{
			name:        "backend fault passes its message through",
			err:         &types.BackendError{Op: "fetch model", Err: errors.New("connection refused")},
			wantMessage: "connection refused",
			wantDetail:  "backend unavailable",
		},
		{
			name:        "standardization failure names shape and field",
			err:         &types.StandardizationError{Shape: types.ShapeBaseType, Path: "id", Reason: "unparseable id"},
			wantMessage: "response standardization failed",
			wantDetail:  "standardize base_type: id: unparseable id",
		},
		{
			name:        "unknown shape is an internal defect",
			err:         types.ErrUnknownShape,
			wantMessage: "internal error",
			wantDetail:  types.ErrUnknownShape.Error(),
		},
		{
			name:        "plain error passes through without detail",
			err:         errors.New("store is detached"),
			wantMessage: "store is detached",
			wantDetail:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := EnvelopeFromError(tt.err)
			require.False(t, env.Success)
			assert.Nil(t, env.Data)
			assert.Equal(t, tt.wantMessage, env.ErrorMessage)
			assert.Equal(t, tt.wantDetail, env.Detail)
		})
	}
}

func TestEnvelopeFromWrappedError(t *testing.T) {
	inner := &types.BackendError{Op: "fetch model", Err: errors.New("disk I/O error")}
	env := EnvelopeFromError(inner)
	assert.Equal(t, "disk I/O error", env.ErrorMessage)
	assert.Equal(t, "backend unavailable", env.Detail)
}
