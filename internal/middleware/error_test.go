package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"edututor/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger())
	app.Get("/test", handler)
	return app
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid request", domain.NewInvalidRequestError(domain.ValidationErrors{domain.NewMissingFieldError("topic")}), http.StatusBadRequest, "INVALID_REQUEST"},
		{"not found", domain.NewNotFoundError("student not found"), http.StatusNotFound, "NOT_FOUND"},
		{"model unavailable", domain.NewModelUnavailableError(errors.New("dial tcp")), http.StatusServiceUnavailable, "MODEL_UNAVAILABLE"},
		{"generation", domain.NewGenerationError(nil, nil), http.StatusBadGateway, "GENERATION_ERROR"},
		{"model load", domain.NewModelLoadError(errors.New("no such model")), http.StatusInternalServerError, "MODEL_LOAD_ERROR"},
		{"internal", domain.NewInternalError("boom", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"fiber error", fiber.NewError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestErrorHandler_InvalidRequestDetails(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return domain.NewInvalidRequestError(domain.ValidationErrors{
			domain.NewMissingFieldError("topic"),
			domain.NewOutOfRangeError("num_questions", 11, 1, 10),
		})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)

	var body struct {
		Details struct {
			Errors []domain.ValidationError `json:"errors"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Details.Errors, 2)
	assert.Equal(t, "topic", body.Details.Errors[0].Field)
	assert.Equal(t, "num_questions", body.Details.Errors[1].Field)
}

func TestErrorHandler_DiagnosticsAreNotRendered(t *testing.T) {
	attempts := []domain.GenerationAttempt{{
		Retry: 0,
		Kind:  domain.PromptStandard,
		Raw:   "secret raw model output",
		Diagnostics: domain.Diagnostics{
			Rejections: []domain.Rejection{{Reason: domain.RejectNoItems}},
		},
	}}
	app := newTestApp(func(c *fiber.Ctx) error {
		return domain.NewGenerationError(attempts, nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret raw model output")
	assert.NotContains(t, string(raw), "no_items")
}

func TestErrorHandler_BareValidationErrors(t *testing.T) {
	app := newTestApp(func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("student")}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "student", body.Errors[0].Field)
}

func TestValidateStudent(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	vm := NewValidationMiddleware()
	app.Get("/students/:name", vm.ValidateStudent(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalStudent).(string))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/students/alice", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "alice", string(body))

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students/"+string(long), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.NewNotFoundError("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ValidationErrors{}))
	assert.Equal(t, http.StatusTeapot, statusFor(fiber.NewError(http.StatusTeapot)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("x")))
}
