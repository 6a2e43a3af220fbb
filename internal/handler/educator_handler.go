package handler

import (
	"bytes"

	"edututor/internal/dto"
	"edututor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExportFileName is the download name of the performance export.
const ExportFileName = "student_performance.csv"

// EducatorHandler serves the aggregate views over student activity
type EducatorHandler struct {
	service service.AttemptService
}

// NewEducatorHandler creates a new EducatorHandler instance
func NewEducatorHandler(service service.AttemptService) *EducatorHandler {
	return &EducatorHandler{service: service}
}

// GetDashboard godoc
// @Summary Summary of all student activity
// @Tags educator
// @Produce json
// @Success 200 {object} domain.DashboardSummary
// @Router /educator/dashboard [get]
func (h *EducatorHandler) GetDashboard(c *fiber.Ctx) error {
	summary, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetActivity godoc
// @Summary Per-student activity, optionally filtered by topic
// @Tags educator
// @Produce json
// @Param topic query string false "Case-insensitive topic substring"
// @Success 200 {object} dto.ActivityResponse
// @Router /educator/activity [get]
func (h *EducatorHandler) GetActivity(c *fiber.Ctx) error {
	topic := c.Query("topic")
	activity, err := h.service.Activity(c.UserContext(), topic)
	if err != nil {
		return err
	}
	return c.JSON(dto.ActivityResponse{Topic: topic, Students: activity})
}

// ExportCSV godoc
// @Summary Download every attempt as CSV
// @Tags educator
// @Produce text/csv
// @Success 200 {string} string
// @Router /educator/export.csv [get]
func (h *EducatorHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.UserContext(), &buf); err != nil {
		return err
	}
	c.Attachment(ExportFileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
