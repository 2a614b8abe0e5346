package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bakeshop-pos/internal/model"
)

func newReportingAt(t *testing.T, env *testEnv, at time.Time) *reportingService {
	t.Helper()
	svc := NewReportingService(
		env.products, env.ingredients, env.recipes, env.sales, env.reservations).(*reportingService)
	svc.now = func() time.Time { return at }
	return svc
}

func seedSaleAt(t *testing.T, env *testEnv, at time.Time, product string, qty int, total float64) {
	t.Helper()
	sale := &model.SaleEvent{
		BaseModel: model.BaseModel{CreatedAt: at, UpdatedAt: at},
		Product:   product,
		Quantity:  qty,
		Total:     total,
	}
	if err := env.db.Create(sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestDailySalesCountsOnlyToday(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	svc := newReportingAt(t, env, now)

	seedSaleAt(t, env, now.Add(-2*time.Hour), "Croissant", 3, 150)
	seedSaleAt(t, env, now.Add(-5*time.Hour), "Cake", 1, 200)
	seedSaleAt(t, env, now.AddDate(0, 0, -1), "Croissant", 10, 500) // yesterday

	report, err := svc.DailySales()
	if err != nil {
		t.Fatalf("daily sales: %v", err)
	}
	if report.Revenue != 350 {
		t.Errorf("revenue = %v, want 350", report.Revenue)
	}
	if report.Orders != 2 {
		t.Errorf("orders = %d, want 2", report.Orders)
	}
	if report.Date != "2026-03-15" {
		t.Errorf("date = %q, want 2026-03-15", report.Date)
	}
}

func TestMonthlySummaryPartitionsCosts(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	svc := newReportingAt(t, env, now)

	seedSaleAt(t, env, now.AddDate(0, 0, -10), "Croissant", 4, 200)
	seedSaleAt(t, env, now, "Cake", 1, 300)
	seedSaleAt(t, env, now.AddDate(0, -2, 0), "Cake", 1, 999) // outside the month

	mustCreate := func(ing *model.Ingredient) {
		if err := env.ingredients.Create(ing); err != nil {
			t.Fatalf("seed ingredient: %v", err)
		}
	}
	mustCreate(&model.Ingredient{Name: "Flour", Quantity: "5kg", Cost: 100})
	mustCreate(&model.Ingredient{Name: "EXP:Rent", Quantity: "", Cost: 50})

	summary, err := svc.MonthlySummary()
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if summary.Month != "2026-03" {
		t.Errorf("month = %q, want 2026-03", summary.Month)
	}
	if summary.Revenue != 500 {
		t.Errorf("revenue = %v, want 500", summary.Revenue)
	}
	if summary.MaterialCost != 100 {
		t.Errorf("material cost = %v, want 100", summary.MaterialCost)
	}
	if summary.AdminCost != 50 {
		t.Errorf("admin cost = %v, want 50", summary.AdminCost)
	}
	if summary.Net != 350 {
		t.Errorf("net = %v, want 350", summary.Net)
	}
}

func TestUnitCostingLowMargin(t *testing.T) {
	env := newTestEnv(t)
	// price 10, unit cost 8 -> margin 20%, below the 30% threshold.
	if err := env.products.Create(&model.Product{Name: "Donut", Price: 10, Stock: 5}); err != nil {
		t.Fatal(err)
	}
	if err := env.ingredients.Create(&model.Ingredient{Name: "Flour", Quantity: "10", Cost: 80}); err != nil {
		t.Fatal(err)
	}
	if err := env.recipes.Set("Donut", "Flour", 1); err != nil {
		t.Fatal(err)
	}

	report, err := env.reporting.UnitCosting("Donut")
	if err != nil {
		t.Fatalf("unit costing: %v", err)
	}
	if report.UnitCost != 8 {
		t.Errorf("unit cost = %v, want 8", report.UnitCost)
	}
	if report.Margin != 20 {
		t.Errorf("margin = %v, want 20", report.Margin)
	}
	if !report.LowMargin {
		t.Error("margin 20%% should be flagged low")
	}
}

func TestUnitCostingHealthyMargin(t *testing.T) {
	env := newTestEnv(t)
	seedCroissant(t, env)

	// 0.1 * (100 / 5) = 2 per unit against price 50 -> margin 96%.
	report, err := env.reporting.UnitCosting("Croissant")
	if err != nil {
		t.Fatalf("unit costing: %v", err)
	}
	if report.UnitCost != 2 {
		t.Errorf("unit cost = %v, want 2", report.UnitCost)
	}
	if report.LowMargin {
		t.Errorf("margin %v should be healthy", report.Margin)
	}
}

func TestUnitCostingDepletedIngredientDividesByOne(t *testing.T) {
	env := newTestEnv(t)
	if err := env.products.Create(&model.Product{Name: "Scone", Price: 20, Stock: 5}); err != nil {
		t.Fatal(err)
	}
	if err := env.ingredients.Create(&model.Ingredient{Name: "Raisins", Quantity: "0", Cost: 100}); err != nil {
		t.Fatal(err)
	}
	if err := env.recipes.Set("Scone", "Raisins", 0.1); err != nil {
		t.Fatal(err)
	}

	report, err := env.reporting.UnitCosting("Scone")
	if err != nil {
		t.Fatalf("unit costing: %v", err)
	}
	// Divisor floors at 1, so the contribution is 0.1 * 100.
	if report.UnitCost != 10 {
		t.Errorf("unit cost = %v, want 10", report.UnitCost)
	}
}

func TestUnitCostingZeroPriceHasZeroMargin(t *testing.T) {
	env := newTestEnv(t)
	if err := env.products.Create(&model.Product{Name: "Sample", Price: 0, Stock: 1}); err != nil {
		t.Fatal(err)
	}

	report, err := env.reporting.UnitCosting("Sample")
	if err != nil {
		t.Fatalf("unit costing: %v", err)
	}
	if report.Margin != 0 {
		t.Errorf("margin = %v, want 0", report.Margin)
	}
}

func TestUnitCostingUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.reporting.UnitCosting("Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLowStockProducts(t *testing.T) {
	env := newTestEnv(t)
	if err := env.products.Create(&model.Product{Name: "Croissant", Price: 50, Stock: 20}); err != nil {
		t.Fatal(err)
	}
	if err := env.products.Create(&model.Product{Name: "Cake", Price: 200, Stock: 3}); err != nil {
		t.Fatal(err)
	}

	low, err := env.reporting.LowStockProducts()
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Cake" {
		t.Errorf("low stock = %v, want just Cake", low)
	}
}

func TestLowStockMaterialsExcludesAdminEntries(t *testing.T) {
	env := newTestEnv(t)
	mustCreate := func(ing *model.Ingredient) {
		if err := env.ingredients.Create(ing); err != nil {
			t.Fatal(err)
		}
	}
	mustCreate(&model.Ingredient{Name: "Flour", Quantity: "5kg", Cost: 100})   // low
	mustCreate(&model.Ingredient{Name: "Sugar", Quantity: "50", Cost: 60})     // fine
	mustCreate(&model.Ingredient{Name: "Yeast", Quantity: "-2", Cost: 10})     // negative on hand -> low
	mustCreate(&model.Ingredient{Name: "EXP:Rent", Quantity: "", Cost: 5000})  // admin, skipped

	low, err := env.reporting.LowStockMaterials()
	if err != nil {
		t.Fatalf("low stock materials: %v", err)
	}
	names := map[string]bool{}
	for _, ing := range low {
		names[ing.Name] = true
	}
	if !names["Flour"] || !names["Yeast"] || names["Sugar"] || names["EXP:Rent"] {
		t.Errorf("low stock materials = %v, want Flour and Yeast only", names)
	}
}

func TestMaterialsViewHidesAdminEntries(t *testing.T) {
	env := newTestEnv(t)
	if err := env.ingredients.Create(&model.Ingredient{Name: "Flour", Quantity: "5kg", Cost: 100}); err != nil {
		t.Fatal(err)
	}
	if err := env.ingredients.Create(&model.Ingredient{Name: "EXP:Rent", Cost: 5000}); err != nil {
		t.Fatal(err)
	}

	visible, err := env.reporting.Materials(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].Name != "Flour" {
		t.Errorf("materials view = %v, want Flour only", visible)
	}
	all, err := env.reporting.Materials(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("full view has %d rows, want 2", len(all))
	}
}

func TestEntriesInRangeInclusiveBounds(t *testing.T) {
	env := newTestEnv(t)
	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"} {
		res := &model.Reservation{Date: date, Item: "Box of " + date, Quantity: 1, Pending: true}
		if err := env.reservations.Create(res); err != nil {
			t.Fatal(err)
		}
	}

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	entries, err := env.reporting.EntriesInRange(start, end)
	if err != nil {
		t.Fatalf("entries in range: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Date != "2024-03-02" || entries[2].Date != "2024-03-04" {
		t.Errorf("bounds = %q..%q, want 2024-03-02..2024-03-04", entries[0].Date, entries[2].Date)
	}
}

func TestEntriesInRangeMixesSalesAndSkipsMalformedDates(t *testing.T) {
	env := newTestEnv(t)
	seedSaleAt(t, env, time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC), "Croissant", 2, 100)
	seedSaleAt(t, env, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), "Croissant", 2, 100)
	if err := env.reservations.Create(&model.Reservation{Date: "2024-03-02", Item: "Cake", Quantity: 1, Pending: true}); err != nil {
		t.Fatal(err)
	}
	if err := env.reservations.Create(&model.Reservation{Date: "next tuesday", Item: "Pie", Quantity: 1, Pending: true}); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	entries, err := env.reporting.EntriesInRange(start, end)
	if err != nil {
		t.Fatalf("entries in range: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (one sale, one reservation)", len(entries))
	}
	if entries[0].Kind != "reservation" || entries[1].Kind != "sale" {
		t.Errorf("kinds = %q,%q, want reservation,sale ordered by date", entries[0].Kind, entries[1].Kind)
	}
}

func TestEntriesInRangeRejectsReversedRange(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if _, err := env.reporting.EntriesInRange(start, end); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRenderDailyReport(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	svc := newReportingAt(t, env, now)

	seedSaleAt(t, env, now.Add(-time.Hour), "Croissant", 3, 150)
	if err := env.ingredients.Create(&model.Ingredient{Name: "Flour", Quantity: "5kg", Cost: 100}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.RenderDailyReport()
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	for _, want := range []string{
		"BAKESHOP BUSINESS REPORT: 2026-03-15",
		"Croissant",
		"TOTAL REVENUE:   150.00",
		"TOTAL EXPENSES:  100.00",
		"NET PROFIT:      50.00",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
