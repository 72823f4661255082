package handler

import (
	"time"

	"go-kasir-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Sales returns aggregated sales for a period (default: last 30 days)
// GET /api/v1/reports/sales?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	r, err := service.ResolveRange(c.Query("startDate"), c.Query("endDate"), time.Now())
	if err != nil {
		return err
	}
	report, err := h.service.SalesReport(c.UserContext(), a, r)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", report)
}

// Detailed lists every sale of the period with its items
// GET /api/v1/reports/detailed
func (h *ReportHandler) Detailed(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	r, err := service.ResolveRange(c.Query("startDate"), c.Query("endDate"), time.Now())
	if err != nil {
		return err
	}
	report, err := h.service.DetailedReport(c.UserContext(), a, r)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", report)
}
