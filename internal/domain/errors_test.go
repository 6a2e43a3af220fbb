package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewModelUnavailableError(errors.New("connection refused"))

	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.False(t, errors.Is(err, ErrGeneration))

	wrapped := fmt.Errorf("generate: %w", err)
	assert.True(t, errors.Is(wrapped, ErrModelUnavailable))
	assert.Equal(t, CodeModelUnavailable, CodeOf(wrapped))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("no such model")
	err := NewModelLoadError(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "no such model")
	assert.Equal(t, "Failed to load language model: no such model", err.Error())
}

func TestCodeOf_NonDomainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestDomainError_MarshalJSONHidesInternals(t *testing.T) {
	attempts := []GenerationAttempt{{Retry: 0, Kind: PromptStandard, Raw: "raw model text"}}
	err := NewGenerationError(attempts, errors.New("internal cause"))

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)

	assert.JSONEq(t, `{"code":"GENERATION_ERROR","message":"Failed to generate a valid quiz"}`, string(data))
	assert.Len(t, err.Attempts, 1)
}

func TestNewInvalidRequestError(t *testing.T) {
	errs := ValidationErrors{
		NewMissingFieldError("topic"),
		NewOutOfRangeError("num_questions", 11, MinQuestions, MaxQuestions),
	}
	err := NewInvalidRequestError(errs)

	assert.Equal(t, CodeInvalidRequest, err.Code)
	assert.Equal(t, []ValidationError(errs), err.Context["errors"])

	var got ValidationErrors
	require.True(t, errors.As(err, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, CodeOutOfRange, got[1].Code)
	assert.Contains(t, err.Error(), "topic is required")
}
