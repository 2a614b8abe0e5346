package handler

import (
	"bakeshop-pos/internal/model"
	"bakeshop-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FulfillmentHandler struct {
	fulfillment service.FulfillmentService
	reporting   service.ReportingService
}

func NewFulfillmentHandler(f service.FulfillmentService, r service.ReportingService) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillment: f, reporting: r}
}

type saleRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func (h *FulfillmentHandler) CreateSale(c *fiber.Ctx) error {
	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	sale, err := h.fulfillment.Fulfill(req.Product, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

func (h *FulfillmentHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.reporting.Sales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *FulfillmentHandler) RestockProduct(c *fiber.Ctx) error {
	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := h.fulfillment.RestockProduct(c.Params("name"), req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product restocked", "data": product})
}

func (h *FulfillmentHandler) CreateReservation(c *fiber.Ctx) error {
	var res model.Reservation
	if err := c.BodyParser(&res); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.fulfillment.CreateReservation(&res); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Reservation recorded", "data": res})
}

func (h *FulfillmentHandler) GetReservations(c *fiber.Ctx) error {
	reservations, err := h.reporting.Reservations()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(reservations)
}

type fulfillReservationRequest struct {
	Product string `json:"product"`
}

func (h *FulfillmentHandler) FulfillReservation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}
	var req fulfillReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	sale, err := h.fulfillment.FulfillReservation(id, req.Product)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reservation fulfilled", "data": sale})
}
