package batcherr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error_WithCause(t *testing.T) {
	err := InvalidInput("batchmanager", "operation must not be empty")
	assert.Contains(t, err.Error(), "batchmanager")
	assert.Contains(t, err.Error(), string(KindInvalidInput))
	assert.Contains(t, err.Error(), "operation must not be empty")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := SystemError("configstore", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIs_MatchesKind(t *testing.T) {
	err := NotFound("jobstore", "job not found: job_1")
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindInvalidState))
}

func TestIs_NonEngineError(t *testing.T) {
	assert.False(t, Is(errors.New("plain error"), KindNotFound))
}

func TestIs_NilError(t *testing.T) {
	assert.False(t, Is(nil, KindNotFound))
}

func TestConstructors_SetKindAndComponent(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"invalid-input", InvalidInput("c", "m"), KindInvalidInput},
		{"not-found", NotFound("c", "m"), KindNotFound},
		{"invalid-state", InvalidState("c", "m"), KindInvalidState},
		{"system-error", SystemError("c", errors.New("m")), KindSystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, "c", tt.err.Component)
		})
	}
}
