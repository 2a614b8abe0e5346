package handler

import (
	"time"

	"bakeshop-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportingHandler struct {
	reporting service.ReportingService
}

func NewReportingHandler(r service.ReportingService) *ReportingHandler {
	return &ReportingHandler{reporting: r}
}

func (h *ReportingHandler) GetDailySales(c *fiber.Ctx) error {
	report, err := h.reporting.DailySales()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) GetMonthlySummary(c *fiber.Ctx) error {
	summary, err := h.reporting.MonthlySummary()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

func (h *ReportingHandler) GetUnitCosting(c *fiber.Ctx) error {
	report, err := h.reporting.UnitCosting(c.Params("product"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportingHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.reporting.LowStockProducts()
	if err != nil {
		return fail(c, err)
	}
	materials, err := h.reporting.LowStockMaterials()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"products": products, "materials": materials})
}

// GetEntriesInRange extracts sales and reservations between ?start= and
// ?end= (YYYY-MM-DD, both inclusive). Bounds are read as local calendar
// days, matching the timezone sale timestamps are written in.
func (h *ReportingHandler) GetEntriesInRange(c *fiber.Ctx) error {
	start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start date, expected YYYY-MM-DD"})
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end date, expected YYYY-MM-DD"})
	}
	entries, err := h.reporting.EntriesInRange(start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entries)
}

// GetDailyReportText serves the printable plain-text report.
func (h *ReportingHandler) GetDailyReportText(c *fiber.Ctx) error {
	report, err := h.reporting.RenderDailyReport()
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(report)
}
