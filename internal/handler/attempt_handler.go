package handler

import (
	"edututor/internal/dto"
	"edututor/internal/middleware"
	"edututor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler handles student registration and quiz attempt requests
type AttemptHandler struct {
	service service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(service service.AttemptService) *AttemptHandler {
	return &AttemptHandler{service: service}
}

// RegisterStudent godoc
// @Summary Register a student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student"
// @Success 201
// @Failure 400 {object} middleware.ErrorResponse
// @Router /students [post]
func (h *AttemptHandler) RegisterStudent(c *fiber.Ctx) error {
	var req dto.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.service.RegisterStudent(c.UserContext(), req.Name); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// SubmitAttempt godoc
// @Summary Record a taken quiz
// @Description Grades the selections against the quiz answers and records the attempt
// @Tags students
// @Accept json
// @Produce json
// @Param name path string true "Student name"
// @Param request body dto.SubmitAttemptRequest true "Attempt"
// @Success 201 {object} domain.QuizAttempt
// @Failure 400 {object} middleware.ErrorResponse
// @Router /students/{name}/attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *fiber.Ctx) error {
	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	student, _ := c.Locals(middleware.LocalStudent).(string)
	attempt, err := h.service.SubmitAttempt(c.UserContext(), student, service.AttemptSubmission{
		QuizID:     req.QuizID,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Questions:  dto.ToDomainQuestions(req.Questions),
		Selections: req.Selections,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(attempt)
}

// GetHistory godoc
// @Summary List a student's attempts
// @Tags students
// @Produce json
// @Param name path string true "Student name"
// @Success 200 {object} dto.AttemptHistoryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /students/{name}/attempts [get]
func (h *AttemptHandler) GetHistory(c *fiber.Ctx) error {
	student, _ := c.Locals(middleware.LocalStudent).(string)
	history, err := h.service.History(c.UserContext(), student)
	if err != nil {
		return err
	}
	return c.JSON(dto.AttemptHistoryResponse{Student: student, Attempts: history})
}
