package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/pos-sync-api/internal/application/auth"
	"github.com/invorya/pos-sync-api/internal/application/catalog"
	"github.com/invorya/pos-sync-api/internal/application/sales"
	"github.com/invorya/pos-sync-api/internal/application/usecase"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	MovementUC  *usecase.MovementUseCase
	AlertUC     *usecase.AlertUseCase
	AnalyticsUC *usecase.AnalyticsUseCase
	SyncUC      *sales.SyncUseCase
	ReceiptUC   *sales.ReceiptUseCase
	ImportUC    *catalog.ImportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)

	// Inventory: ajustes + historial (protegido)
	invGroup := protected.Group("/inventory")
	movementHandler := NewMovementHandler(deps.MovementUC)
	invGroup.Post("/adjust", movementHandler.Adjust)
	invGroup.Get("/movements", movementHandler.List)
	invGroup.Get("/products/:id/movements", movementHandler.History)

	// Sales: sincronización idempotente + recibos (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SyncUC, deps.ReceiptUC)
	salesGroup.Post("/sync", saleHandler.Submit)
	salesGroup.Get("/", saleHandler.ListMine)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Alerts (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.ListActive)
	alerts.Get("/history", alertHandler.ListHistory)
	alerts.Post("/acknowledge", alertHandler.Acknowledge)
	alerts.Get("/preferences", alertHandler.GetPreferences)
	alerts.Put("/preferences", alertHandler.UpdatePreferences)

	// Analytics (protegido)
	analytics := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analytics.Get("/sales", analyticsHandler.SalesByDate)
	analytics.Get("/trend", analyticsHandler.SalesTrend)
	analytics.Get("/products/:id", analyticsHandler.ProductSales)

	// Catalog import (protegido, solo admin)
	catalogGroup := protected.Group("/catalog", RequireRole(entity.RoleAdmin))
	importHandler := NewImportHandler(deps.ImportUC)
	catalogGroup.Post("/import", importHandler.ImportCSV)
}
