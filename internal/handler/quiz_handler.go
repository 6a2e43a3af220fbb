package handler

import (
	"context"
	"time"

	"edututor/internal/dto"
	"edututor/internal/logger"
	"edututor/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation HTTP requests
type QuizHandler struct {
	service service.QuizService
	timeout time.Duration
}

// NewQuizHandler creates a new QuizHandler instance.
// timeout bounds one generation request; zero disables it.
func NewQuizHandler(service service.QuizService, timeout time.Duration) *QuizHandler {
	return &QuizHandler{
		service: service,
		timeout: timeout,
	}
}

// GenerateQuiz godoc
// @Summary Generate a multiple-choice quiz
// @Description Generates questions about a topic with the language model
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Quiz request"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse quiz request body", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.service.Generate(ctx, req.Topic, req.Difficulty, req.NumQuestions)
	if err != nil {
		return err
	}

	logger.Get().Info("Quiz generated",
		zap.String("topic", req.Topic),
		zap.String("difficulty", req.Difficulty),
		zap.Int("requested", req.NumQuestions),
		zap.Int("returned", len(resp.Questions)),
	)
	return c.JSON(resp)
}
