package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bakeshop-pos/internal/handler"
	"bakeshop-pos/internal/model"
	"bakeshop-pos/internal/repository"
	"bakeshop-pos/internal/service"
	"bakeshop-pos/internal/ws"
	"bakeshop-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Ingredient{},
		&model.SaleEvent{},
		&model.Reservation{},
		&model.RecipeDocument{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	if err := recipeRepo.Ensure(); err != nil {
		log.Fatal("Recipe store init failed: ", err)
	}

	fulfillService := service.NewFulfillmentService(
		productRepo, ingredientRepo, recipeRepo, saleRepo, reservationRepo, db, wsHub)
	reportService := service.NewReportingService(
		productRepo, ingredientRepo, recipeRepo, saleRepo, reservationRepo)

	catalogHandler := handler.NewCatalogHandler(fulfillService, reportService)
	fulfillHandler := handler.NewFulfillmentHandler(fulfillService, reportService)
	reportHandler := handler.NewReportingHandler(reportService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Bakeshop POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", catalogHandler.GetProducts)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Delete("/products/:name", catalogHandler.DeleteProduct)
	api.Get("/ingredients", catalogHandler.GetIngredients)
	api.Post("/ingredients", catalogHandler.CreateIngredient)
	api.Delete("/ingredients/:name", catalogHandler.DeleteIngredient)
	api.Post("/recipes", catalogHandler.SetRecipeLink)
	api.Get("/recipes/:product", catalogHandler.GetRecipe)

	// Fulfillment
	api.Post("/sales", fulfillHandler.CreateSale)
	api.Get("/sales", fulfillHandler.GetSales)
	api.Post("/products/:name/restock", fulfillHandler.RestockProduct)
	api.Post("/reservations", fulfillHandler.CreateReservation)
	api.Get("/reservations", fulfillHandler.GetReservations)
	api.Post("/reservations/:id/fulfill", fulfillHandler.FulfillReservation)

	// Reports
	api.Get("/reports/daily", reportHandler.GetDailySales)
	api.Get("/reports/monthly", reportHandler.GetMonthlySummary)
	api.Get("/reports/costing/:product", reportHandler.GetUnitCosting)
	api.Get("/reports/low-stock", reportHandler.GetLowStock)
	api.Get("/reports/range", reportHandler.GetEntriesInRange)
	api.Get("/reports/daily.txt", reportHandler.GetDailyReportText)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
