package middleware

import (
	"net/url"
	"strings"

	"edututor/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// LocalStudent is the fiber.Ctx locals key holding the validated student name.
const LocalStudent = "validated_student"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateStudent validates the :name path parameter
func (vm *ValidationMiddleware) ValidateStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
		name = strings.TrimSpace(name)

		if errors := vm.validator.ValidateStudentName(name); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(LocalStudent, name)
		return c.Next()
	}
}
