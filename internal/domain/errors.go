package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Request validation
	CodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeMissingField   ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat  ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange     ErrorCode = "OUT_OF_RANGE"

	// Quiz generation errors
	CodeModelLoad        ErrorCode = "MODEL_LOAD_ERROR"
	CodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	CodeGeneration       ErrorCode = "GENERATION_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"details,omitempty"`
	// Attempts carries generation diagnostics. Logged, never rendered.
	Attempts []GenerationAttempt `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Context,
	})
}

// WithContext attaches a detail rendered to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidRequest   = &DomainError{Code: CodeInvalidRequest}
	ErrModelLoad        = &DomainError{Code: CodeModelLoad}
	ErrModelUnavailable = &DomainError{Code: CodeModelUnavailable}
	ErrGeneration       = &DomainError{Code: CodeGeneration}
	ErrNotFound         = &DomainError{Code: CodeNotFound}
)

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// NewInvalidRequestError wraps field validation failures.
func NewInvalidRequestError(errs ValidationErrors) *DomainError {
	return NewError(CodeInvalidRequest, "Invalid quiz request", errs).WithContext("errors", []ValidationError(errs))
}

func NewModelLoadError(err error) *DomainError {
	return NewError(CodeModelLoad, "Failed to load language model", err)
}

func NewModelUnavailableError(err error) *DomainError {
	return NewError(CodeModelUnavailable, "Language model is unavailable", err)
}

// NewGenerationError reports that no valid question survived the retry budget.
func NewGenerationError(attempts []GenerationAttempt, err error) *DomainError {
	e := NewError(CodeGeneration, "Failed to generate a valid quiz", err)
	e.Attempts = attempts
	return e
}

// CodeOf returns the code of the first DomainError in err's chain.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
