package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bodega-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/counting"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	LotUC       *usecase.LotUseCase
	CountUC     *counting.UseCase
	WasteUC     *inventory.WasteUseCase
	ReturnUC    *inventory.ReturnUseCase
	SyncUC      *inventory.SyncUseCase
	AlertUC     *alerts.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	Verifier    *jwt.Verifier
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	lotHandler := NewLotHandler(deps.LotUC)
	products := api.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Post("/", staff, productHandler.Create)
	products.Post("/scan", staff, productHandler.Scan)
	products.Get("/sku/:sku", anyRole, productHandler.GetBySKU)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Patch("/:id/stock", staff, productHandler.SetStock)
	products.Get("/:id/movements", anyRole, productHandler.Movements)
	products.Get("/:id/lots", anyRole, lotHandler.ListByProduct)

	// Lots
	api.Post("/lots", staff, lotHandler.Create)

	// Counts
	countHandler := NewCountHandler(deps.CountUC)
	counts := api.Group("/counts", staff)
	counts.Post("/", countHandler.Start)
	counts.Get("/", countHandler.List)
	counts.Get("/:id", countHandler.Get)
	counts.Post("/:id/scan", countHandler.Scan)
	counts.Post("/:id/lines", countHandler.SaveLine)
	counts.Post("/:id/close", countHandler.Close)
	counts.Get("/:id/sheet.pdf", countHandler.Sheet)
	counts.Get("/:id/export.csv", countHandler.ExportCSV)

	// Waste, returns, sync
	inventoryHandler := NewInventoryHandler(deps.WasteUC, deps.ReturnUC, deps.SyncUC)
	api.Post("/waste", staff, inventoryHandler.RegisterWaste)
	returns := api.Group("/returns")
	returns.Get("/", anyRole, inventoryHandler.ListReturns)
	returns.Post("/", anyRole, inventoryHandler.RegisterReturn)
	returns.Post("/:id/approve", staff, inventoryHandler.ApproveReturn)
	returns.Post("/:id/reject", staff, inventoryHandler.RejectReturn)
	api.Post("/inventory/sync", adminOnly, inventoryHandler.Sync)

	// Alerts
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertGroup := api.Group("/alerts", anyRole)
	alertGroup.Get("/", alertHandler.List)
	alertGroup.Get("/unread-count", alertHandler.UnreadCount)
	alertGroup.Post("/:id/read", alertHandler.MarkRead)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard := api.Group("/dashboard", anyRole)
	dashboard.Get("/expiry", dashboardHandler.GetExpiry)
	dashboard.Get("/consistency", dashboardHandler.GetConsistency)
}
