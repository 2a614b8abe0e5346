package service

import (
	"errors"
	"fmt"

	"bakeshop-pos/internal/model"
	"bakeshop-pos/internal/repository"
	"bakeshop-pos/internal/ws"
	"bakeshop-pos/pkg/quantity"
	"bakeshop-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FulfillmentService owns every write to the ledgers. Reporting only reads.
type FulfillmentService interface {
	Fulfill(productName string, qty int) (*model.SaleEvent, error)
	RegisterProduct(req *model.Product) error
	RestockProduct(name string, qty int) (*model.Product, error)
	DeleteProduct(name string) error
	RegisterOrRestockIngredient(name, quantityText string, cost float64) (*model.Ingredient, error)
	DeleteIngredient(name string) error
	LinkRecipe(product, ingredient string, usage float64) error
	CreateReservation(req *model.Reservation) error
	FulfillReservation(id uuid.UUID, productName string) (*model.SaleEvent, error)
}

type fulfillmentService struct {
	products     repository.ProductRepository
	ingredients  repository.IngredientRepository
	recipes      repository.RecipeRepository
	sales        repository.SaleRepository
	reservations repository.ReservationRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewFulfillmentService(
	products repository.ProductRepository,
	ingredients repository.IngredientRepository,
	recipes repository.RecipeRepository,
	sales repository.SaleRepository,
	reservations repository.ReservationRepository,
	db *gorm.DB,
	hub *ws.Hub,
) FulfillmentService {
	return &fulfillmentService{
		products:     products,
		ingredients:  ingredients,
		recipes:      recipes,
		sales:        sales,
		reservations: reservations,
		db:           db,
		wsHub:        hub,
	}
}

// fulfillOutcome carries what a committed fulfillment needs to broadcast.
type fulfillOutcome struct {
	sale         *model.SaleEvent
	remaining    int
	lowMaterials map[string]float64
}

// Fulfill records one sale: stock gate, product decrement, recipe-driven
// ingredient deduction, sales append. The whole sequence runs in a single
// database transaction, so the caller sees all three ledgers move or none.
func (s *fulfillmentService) Fulfill(productName string, qty int) (*model.SaleEvent, error) {
	var out fulfillOutcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.fulfillTx(tx, productName, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publishFulfillment(out)
	return out.sale, nil
}

func (s *fulfillmentService) fulfillTx(tx *gorm.DB, productName string, qty int) (fulfillOutcome, error) {
	var out fulfillOutcome
	if qty <= 0 {
		return out, fmt.Errorf("%w: quantity must be a positive integer, got %d", ErrInvalidInput, qty)
	}

	product, err := s.products.FindByNameLocked(tx, productName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, fmt.Errorf("%w: product %q", ErrNotFound, productName)
		}
		return out, fmt.Errorf("%w: load product: %v", ErrPersistence, err)
	}

	// Sole gate keeping product stock non-negative.
	if product.Stock < qty {
		return out, fmt.Errorf("%w: %q has %d on hand, requested %d",
			ErrInsufficientStock, productName, product.Stock, qty)
	}

	out.remaining = product.Stock - qty
	if err := s.products.UpdateStock(tx, product.ID, out.remaining); err != nil {
		return out, fmt.Errorf("%w: decrement stock: %v", ErrPersistence, err)
	}

	links, err := s.recipes.GetTx(tx, productName)
	if err != nil {
		return out, fmt.Errorf("%w: load recipe: %v", ErrPersistence, err)
	}
	for ingName, usagePerUnit := range links {
		ing, err := s.ingredients.FindByNameLocked(tx, ingName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Link to an unrecorded ingredient means "no usage".
				continue
			}
			return out, fmt.Errorf("%w: load ingredient %q: %v", ErrPersistence, ingName, err)
		}
		// May go negative; over-consumption is left visible on purpose.
		newQty := quantity.Round3(quantity.ParseSigned(ing.Quantity) - usagePerUnit*float64(qty))
		if err := s.ingredients.UpdateQuantity(tx, ing.ID, quantity.Format(newQty)); err != nil {
			return out, fmt.Errorf("%w: deduct ingredient %q: %v", ErrPersistence, ingName, err)
		}
		if newQty < lowStockThreshold && !ing.IsAdminExpense() {
			if out.lowMaterials == nil {
				out.lowMaterials = map[string]float64{}
			}
			out.lowMaterials[ing.Name] = newQty
		}
	}

	out.sale = &model.SaleEvent{
		Product:  product.Name,
		Quantity: qty,
		Total:    product.Price * float64(qty), // price at time of sale
	}
	if err := s.sales.Append(tx, out.sale); err != nil {
		return out, fmt.Errorf("%w: append sale: %v", ErrPersistence, err)
	}
	return out, nil
}

// publishFulfillment pushes the dashboard events for a committed sale,
// including low_stock warnings for anything the sale drew under the
// threshold.
func (s *fulfillmentService) publishFulfillment(out fulfillOutcome) {
	s.wsHub.Publish("sale_recorded", map[string]interface{}{
		"product":   out.sale.Product,
		"quantity":  out.sale.Quantity,
		"total":     out.sale.Total,
		"new_stock": out.remaining,
	})
	if out.remaining < lowStockThreshold {
		s.wsHub.Publish("low_stock", map[string]interface{}{
			"kind":  "product",
			"name":  out.sale.Product,
			"stock": out.remaining,
		})
	}
	for name, qty := range out.lowMaterials {
		s.wsHub.Publish("low_stock", map[string]interface{}{
			"kind":     "material",
			"name":     name,
			"quantity": qty,
		})
	}
}

func (s *fulfillmentService) RegisterProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field %q failed on %q", ErrInvalidInput, first.FailedField, first.Tag)
	}

	existing, err := s.products.FindByName(req.Name)
	if err == nil && existing.ID != uuid.Nil {
		return fmt.Errorf("%w: product %q already registered", ErrInvalidInput, req.Name)
	}

	if err := s.products.Create(req); err != nil {
		return fmt.Errorf("%w: create product: %v", ErrPersistence, err)
	}

	s.wsHub.Publish("stock_update", map[string]interface{}{
		"action":  "product_created",
		"product": req.Name,
		"stock":   req.Stock,
		"price":   req.Price,
	})
	return nil
}

func (s *fulfillmentService) RestockProduct(name string, qty int) (*model.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be a positive integer, got %d", ErrInvalidInput, qty)
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.products.FindByNameLocked(tx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %q", ErrNotFound, name)
			}
			return fmt.Errorf("%w: load product: %v", ErrPersistence, err)
		}
		product.Stock += qty
		if err := s.products.UpdateStock(tx, product.ID, product.Stock); err != nil {
			return fmt.Errorf("%w: restock product: %v", ErrPersistence, err)
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("stock_update", map[string]interface{}{
		"action":    "product_restocked",
		"product":   updated.Name,
		"new_stock": updated.Stock,
	})
	return updated, nil
}

func (s *fulfillmentService) DeleteProduct(name string) error {
	if err := s.products.DeleteByName(name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %q", ErrNotFound, name)
		}
		return fmt.Errorf("%w: delete product: %v", ErrPersistence, err)
	}
	return nil
}

// RegisterOrRestockIngredient creates the material row on first sight.
// After that, the signed parsed delta moves the quantity and cost
// accumulates; it is never reset. Administrative expenses are recorded the
// same way under the model.AdminExpensePrefix naming convention.
func (s *fulfillmentService) RegisterOrRestockIngredient(name, quantityText string, cost float64) (*model.Ingredient, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", ErrInvalidInput)
	}
	if cost < 0 {
		return nil, fmt.Errorf("%w: cost must be non-negative, got %v", ErrInvalidInput, cost)
	}

	var out *model.Ingredient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.ingredients.FindByNameLocked(tx, name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: load ingredient: %v", ErrPersistence, err)
			}
			ing := &model.Ingredient{Name: name, Quantity: quantityText, Cost: cost}
			if err := tx.Create(ing).Error; err != nil {
				return fmt.Errorf("%w: create ingredient: %v", ErrPersistence, err)
			}
			out = ing
			return nil
		}

		newQty := quantity.Round3(quantity.ParseSigned(existing.Quantity) + quantity.ParseSigned(quantityText))
		if err := s.ingredients.Restock(tx, existing.ID, quantity.Format(newQty), cost); err != nil {
			return fmt.Errorf("%w: restock ingredient: %v", ErrPersistence, err)
		}
		existing.Quantity = quantity.Format(newQty)
		existing.Cost += cost
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish("stock_update", map[string]interface{}{
		"action":     "ingredient_restocked",
		"ingredient": out.Name,
		"quantity":   out.Quantity,
	})
	return out, nil
}

func (s *fulfillmentService) DeleteIngredient(name string) error {
	if err := s.ingredients.DeleteByName(name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: ingredient %q", ErrNotFound, name)
		}
		return fmt.Errorf("%w: delete ingredient: %v", ErrPersistence, err)
	}
	return nil
}

// LinkRecipe upserts one recipe link. The product must exist; the ingredient
// need not — dangling links are tolerated and simply skipped at fulfillment.
func (s *fulfillmentService) LinkRecipe(product, ingredient string, usage float64) error {
	if product == "" || ingredient == "" {
		return fmt.Errorf("%w: product and ingredient names are required", ErrInvalidInput)
	}
	if _, err := s.products.FindByName(product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %q", ErrNotFound, product)
		}
		return fmt.Errorf("%w: load product: %v", ErrPersistence, err)
	}
	if err := s.recipes.Set(product, ingredient, usage); err != nil {
		return fmt.Errorf("%w: save recipe: %v", ErrPersistence, err)
	}
	return nil
}

func (s *fulfillmentService) CreateReservation(req *model.Reservation) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field %q failed on %q", ErrInvalidInput, first.FailedField, first.Tag)
	}
	req.Pending = true
	if err := s.reservations.Create(req); err != nil {
		return fmt.Errorf("%w: create reservation: %v", ErrPersistence, err)
	}
	return nil
}

// FulfillReservation turns a pending pre-order into an ordinary sale against
// productName, then clears the pending marker with the realized total.
func (s *fulfillmentService) FulfillReservation(id uuid.UUID, productName string) (*model.SaleEvent, error) {
	res, err := s.reservations.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load reservation: %v", ErrPersistence, err)
	}
	if !res.Pending {
		return nil, fmt.Errorf("%w: reservation %s already fulfilled", ErrInvalidInput, id)
	}

	var out fulfillOutcome
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.fulfillTx(tx, productName, res.Quantity)
		if err != nil {
			return err
		}
		// Same transaction as the sale: the ledger entry and the cleared
		// pending marker commit together or not at all.
		if err := s.reservations.MarkFulfilled(tx, res.ID, out.sale.Total); err != nil {
			return fmt.Errorf("%w: mark reservation fulfilled: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishFulfillment(out)
	return out.sale, nil
}
