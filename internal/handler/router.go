package handler

import (
	"edututor/internal/domain"
	"edututor/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Quiz      *QuizHandler
	Attempts  *AttemptHandler
	Educator  *EducatorHandler
	ModelName string
	// Cache is reported by /healthz when set.
	Cache domain.Cache
}

// SetupRoutes registers the public API on app.
func SetupRoutes(app *fiber.App, h Handlers) {
	vm := middleware.NewValidationMiddleware()

	app.Get("/healthz", Health(h.ModelName, h.Cache))

	// Root path kept for older clients. Routing is not strict, so the
	// trailing slash is optional.
	app.Post("/generate-quiz/", h.Quiz.GenerateQuiz)

	apiGroup := app.Group("/api")
	apiGroup.Post("/quizzes/generate", h.Quiz.GenerateQuiz)

	students := apiGroup.Group("/students")
	students.Post("/", h.Attempts.RegisterStudent)
	students.Post("/:name/attempts", vm.ValidateStudent(), h.Attempts.SubmitAttempt)
	students.Get("/:name/attempts", vm.ValidateStudent(), h.Attempts.GetHistory)

	educator := apiGroup.Group("/educator")
	educator.Get("/dashboard", h.Educator.GetDashboard)
	educator.Get("/activity", h.Educator.GetActivity)
	educator.Get("/export.csv", h.Educator.ExportCSV)
}
