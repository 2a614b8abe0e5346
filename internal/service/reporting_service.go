package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bakeshop-pos/internal/model"
	"bakeshop-pos/internal/repository"
	"bakeshop-pos/pkg/quantity"

	"gorm.io/gorm"
)

const (
	lowStockThreshold  = 10
	lowMarginThreshold = 30.0
	dateLayout         = "2006-01-02"
)

type DailySalesReport struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type MonthlySummary struct {
	Month        string  `json:"month"`
	Revenue      float64 `json:"revenue"`
	MaterialCost float64 `json:"material_cost"`
	AdminCost    float64 `json:"admin_cost"`
	Net          float64 `json:"net"`
}

type CostingReport struct {
	Product   string  `json:"product"`
	Price     float64 `json:"price"`
	UnitCost  float64 `json:"unit_cost"`
	Margin    float64 `json:"margin"`
	LowMargin bool    `json:"low_margin"`
}

// LedgerEntry is the flattened row shape shared by sales and reservations in
// date-range extracts.
type LedgerEntry struct {
	Date     string  `json:"date"`
	Kind     string  `json:"kind"` // "sale" or "reservation"
	Item     string  `json:"item"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
	Pending  bool    `json:"pending,omitempty"`
}

// ReportingService is the read-only side: every method derives its answer
// from committed ledger state and degrades malformed rows instead of
// failing the whole report.
type ReportingService interface {
	DailySales() (*DailySalesReport, error)
	MonthlySummary() (*MonthlySummary, error)
	UnitCosting(product string) (*CostingReport, error)
	LowStockProducts() ([]model.Product, error)
	LowStockMaterials() ([]model.Ingredient, error)
	Products() ([]model.Product, error)
	Materials(includeAdmin bool) ([]model.Ingredient, error)
	Recipe(product string) (map[string]float64, error)
	Sales() ([]model.SaleEvent, error)
	Reservations() ([]model.Reservation, error)
	EntriesInRange(start, end time.Time) ([]LedgerEntry, error)
	RenderDailyReport() (string, error)
}

type reportingService struct {
	products     repository.ProductRepository
	ingredients  repository.IngredientRepository
	recipes      repository.RecipeRepository
	sales        repository.SaleRepository
	reservations repository.ReservationRepository
	now          func() time.Time
}

func NewReportingService(
	products repository.ProductRepository,
	ingredients repository.IngredientRepository,
	recipes repository.RecipeRepository,
	sales repository.SaleRepository,
	reservations repository.ReservationRepository,
) ReportingService {
	return &reportingService{
		products:     products,
		ingredients:  ingredients,
		recipes:      recipes,
		sales:        sales,
		reservations: reservations,
		now:          time.Now,
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *reportingService) DailySales() (*DailySalesReport, error) {
	start := dayStart(s.now())
	end := start.AddDate(0, 0, 1)

	revenue, err := s.sales.SumTotalBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: sum daily sales: %v", ErrPersistence, err)
	}
	orders, err := s.sales.CountBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: count daily sales: %v", ErrPersistence, err)
	}
	return &DailySalesReport{
		Date:    start.Format(dateLayout),
		Orders:  orders,
		Revenue: revenue,
	}, nil
}

func (s *reportingService) MonthlySummary() (*MonthlySummary, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	revenue, err := s.sales.SumTotalBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: sum monthly sales: %v", ErrPersistence, err)
	}

	ingredients, err := s.ingredients.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: load ingredients: %v", ErrPersistence, err)
	}
	var material, admin float64
	for _, ing := range ingredients {
		if ing.IsAdminExpense() {
			admin += ing.Cost
		} else {
			material += ing.Cost
		}
	}

	return &MonthlySummary{
		Month:        start.Format("2006-01"),
		Revenue:      revenue,
		MaterialCost: material,
		AdminCost:    admin,
		Net:          revenue - material - admin,
	}, nil
}

// UnitCosting prices one unit of product from its recipe: each link adds
// usage * (cumulative cost / quantity on hand). A depleted or negative
// quantity divides by 1 instead, capping the contribution rather than
// faulting.
func (s *reportingService) UnitCosting(product string) (*CostingReport, error) {
	p, err := s.products.FindByName(product)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %q", ErrNotFound, product)
		}
		return nil, fmt.Errorf("%w: load product: %v", ErrPersistence, err)
	}

	links, err := s.recipes.Get(product)
	if err != nil {
		return nil, fmt.Errorf("%w: load recipe: %v", ErrPersistence, err)
	}

	var unitCost float64
	for ingName, usage := range links {
		ing, err := s.ingredients.FindByName(ingName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // dangling link contributes nothing
			}
			return nil, fmt.Errorf("%w: load ingredient %q: %v", ErrPersistence, ingName, err)
		}
		divisor := quantity.ParseSigned(ing.Quantity)
		if divisor <= 0 {
			divisor = 1
		}
		unitCost += usage * (ing.Cost / divisor)
	}

	margin := 0.0
	if p.Price > 0 {
		margin = (p.Price - unitCost) / p.Price * 100
	}

	return &CostingReport{
		Product:   p.Name,
		Price:     p.Price,
		UnitCost:  unitCost,
		Margin:    margin,
		LowMargin: margin < lowMarginThreshold,
	}, nil
}

func (s *reportingService) LowStockProducts() ([]model.Product, error) {
	products, err := s.products.FindBelowStock(lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: low stock products: %v", ErrPersistence, err)
	}
	return products, nil
}

func (s *reportingService) LowStockMaterials() ([]model.Ingredient, error) {
	ingredients, err := s.ingredients.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: load ingredients: %v", ErrPersistence, err)
	}
	low := []model.Ingredient{}
	for _, ing := range ingredients {
		if ing.IsAdminExpense() {
			continue
		}
		if quantity.ParseSigned(ing.Quantity) < lowStockThreshold {
			low = append(low, ing)
		}
	}
	return low, nil
}

func (s *reportingService) Products() ([]model.Product, error) {
	return s.products.FindAll()
}

func (s *reportingService) Materials(includeAdmin bool) ([]model.Ingredient, error) {
	ingredients, err := s.ingredients.FindAll()
	if err != nil {
		return nil, err
	}
	if includeAdmin {
		return ingredients, nil
	}
	materials := []model.Ingredient{}
	for _, ing := range ingredients {
		if !ing.IsAdminExpense() {
			materials = append(materials, ing)
		}
	}
	return materials, nil
}

func (s *reportingService) Recipe(product string) (map[string]float64, error) {
	return s.recipes.Get(product)
}

func (s *reportingService) Sales() ([]model.SaleEvent, error) {
	return s.sales.FindAll()
}

func (s *reportingService) Reservations() ([]model.Reservation, error) {
	return s.reservations.FindAll()
}

// EntriesInRange returns sales and reservations whose calendar date falls in
// the closed [start, end] interval. Reservation dates are operator text; a
// row whose date does not parse is dropped, not fatal.
func (s *reportingService) EntriesInRange(start, end time.Time) ([]LedgerEntry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s precedes start %s",
			ErrInvalidInput, end.Format(dateLayout), start.Format(dateLayout))
	}
	lo := dayStart(start)
	hi := dayStart(end).AddDate(0, 0, 1)

	entries := []LedgerEntry{}

	sales, err := s.sales.FindBetween(lo, hi)
	if err != nil {
		return nil, fmt.Errorf("%w: load sales: %v", ErrPersistence, err)
	}
	for _, sale := range sales {
		entries = append(entries, LedgerEntry{
			Date:     sale.CreatedAt.Format(dateLayout),
			Kind:     "sale",
			Item:     sale.Product,
			Quantity: sale.Quantity,
			Total:    sale.Total,
		})
	}

	reservations, err := s.reservations.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: load reservations: %v", ErrPersistence, err)
	}
	for _, res := range reservations {
		d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(res.Date), lo.Location())
		if err != nil {
			continue
		}
		if d.Before(lo) || !d.Before(hi) {
			continue
		}
		entries = append(entries, LedgerEntry{
			Date:     d.Format(dateLayout),
			Kind:     "reservation",
			Item:     res.Item,
			Quantity: res.Quantity,
			Total:    res.Total,
			Pending:  res.Pending,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

// RenderDailyReport produces the plain-text business report handed to the
// printer: today's sales log, total revenue, cumulative expenses, net.
func (s *reportingService) RenderDailyReport() (string, error) {
	now := s.now()
	start := dayStart(now)
	end := start.AddDate(0, 0, 1)

	sales, err := s.sales.FindBetween(start, end)
	if err != nil {
		return "", fmt.Errorf("%w: load sales: %v", ErrPersistence, err)
	}
	ingredients, err := s.ingredients.FindAll()
	if err != nil {
		return "", fmt.Errorf("%w: load ingredients: %v", ErrPersistence, err)
	}

	var revenue float64
	for _, sale := range sales {
		revenue += sale.Total
	}
	var expenses float64
	for _, ing := range ingredients {
		expenses += ing.Cost
	}

	var b strings.Builder
	rule := strings.Repeat("=", 45)
	fmt.Fprintf(&b, "BAKESHOP BUSINESS REPORT: %s\n%s\n\n", start.Format(dateLayout), rule)
	b.WriteString("SALES LOG:\n")
	if len(sales) == 0 {
		b.WriteString("No sales today.\n")
	} else {
		for _, sale := range sales {
			fmt.Fprintf(&b, "%-25s x%-4d %10.2f\n", sale.Product, sale.Quantity, sale.Total)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("-", 45))
	fmt.Fprintf(&b, "TOTAL REVENUE:   %.2f\n", revenue)
	fmt.Fprintf(&b, "TOTAL EXPENSES:  %.2f\n", expenses)
	fmt.Fprintf(&b, "NET PROFIT:      %.2f\n", revenue-expenses)
	fmt.Fprintf(&b, "%s\nGenerated on: %s\n", rule, now.Format("15:04:05"))
	return b.String(), nil
}
