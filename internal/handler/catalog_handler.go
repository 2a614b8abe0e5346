package handler

import (
	"bakeshop-pos/internal/model"
	"bakeshop-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler covers product, ingredient and recipe maintenance.
type CatalogHandler struct {
	fulfillment service.FulfillmentService
	reporting   service.ReportingService
}

func NewCatalogHandler(f service.FulfillmentService, r service.ReportingService) *CatalogHandler {
	return &CatalogHandler{fulfillment: f, reporting: r}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.fulfillment.RegisterProduct(&product); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product registered", "data": product})
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.reporting.Products()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.fulfillment.DeleteProduct(c.Params("name")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

type ingredientRequest struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// CreateIngredient registers a new material or restocks an existing one;
// the same endpoint logs administrative expenses via the EXP: name prefix.
func (h *CatalogHandler) CreateIngredient(c *fiber.Ctx) error {
	var req ingredientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	ing, err := h.fulfillment.RegisterOrRestockIngredient(req.Name, req.Quantity, req.Cost)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Ingredient recorded", "data": ing})
}

// GetIngredients lists physical materials. Administrative-expense entries
// are hidden from the stock view unless ?all=true.
func (h *CatalogHandler) GetIngredients(c *fiber.Ctx) error {
	includeAdmin := c.QueryBool("all", false)
	ingredients, err := h.reporting.Materials(includeAdmin)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(ingredients)
}

func (h *CatalogHandler) DeleteIngredient(c *fiber.Ctx) error {
	if err := h.fulfillment.DeleteIngredient(c.Params("name")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ingredient deleted"})
}

type recipeLinkRequest struct {
	Product    string  `json:"product"`
	Ingredient string  `json:"ingredient"`
	Usage      float64 `json:"usage"`
}

func (h *CatalogHandler) SetRecipeLink(c *fiber.Ctx) error {
	var req recipeLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.fulfillment.LinkRecipe(req.Product, req.Ingredient, req.Usage); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Recipe saved"})
}

func (h *CatalogHandler) GetRecipe(c *fiber.Ctx) error {
	links, err := h.reporting.Recipe(c.Params("product"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(links)
}
