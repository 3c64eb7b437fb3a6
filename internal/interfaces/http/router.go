package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock-api/internal/application/auth"
	"github.com/jhoicas/gestion-stock-api/internal/application/exitslip"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
	"github.com/jhoicas/gestion-stock-api/internal/application/procurement"
	"github.com/jhoicas/gestion-stock-api/internal/application/usecase"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	OrderUC     *procurement.OrderUseCase
	ExitSlipUC  *exitslip.UseCase
	StockQuery  *inventory.StockQueryUseCase
	MovementQry *inventory.MovementQueryUseCase
	JWTSecret   string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)

	purchasing := RequireRole(entity.RoleAdmin, entity.RoleComprador)
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/category/:category", productHandler.ListByCategory)
	products.Get("/:id/stock", productHandler.GetStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/search", supplierHandler.Search)
	suppliers.Get("/email/:email", supplierHandler.GetByEmail)
	suppliers.Get("/ice/:ice", supplierHandler.GetByICE)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Purchase orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/search", orderHandler.Search)
	orders.Get("/status/:status", orderHandler.ListByStatus)
	orders.Get("/supplier/:id", orderHandler.ListBySupplier)
	orders.Get("/:id/xml", orderHandler.ExportXML)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	orders.Post("/:id/validate", purchasing, orderHandler.Validate)
	orders.Post("/:id/receive", purchasing, orderHandler.Receive)
	orders.Post("/:id/cancel", purchasing, orderHandler.Cancel)

	// Exit slips
	slips := protected.Group("/exit-slips")
	slipHandler := NewExitSlipHandler(deps.ExitSlipUC)
	slips.Post("/", slipHandler.Create)
	slips.Get("/", slipHandler.List)
	slips.Get("/workshop/:workshop", slipHandler.ListByWorkshop)
	slips.Get("/:id/pdf", slipHandler.ExportPDF)
	slips.Get("/:id", slipHandler.GetByID)
	slips.Put("/:id", slipHandler.Update)
	slips.Post("/:id/validate", warehouse, slipHandler.Validate)
	slips.Post("/:id/cancel", warehouse, slipHandler.Cancel)

	// Stock
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.StockQuery, deps.MovementQry)
	stock.Get("/", inventoryHandler.GlobalState)
	stock.Get("/products/:id", inventoryHandler.ProductValuation)
	stock.Get("/alerts", inventoryHandler.Alerts)
	stock.Get("/valuation", inventoryHandler.GlobalValuation)
	stock.Get("/consistency", inventoryHandler.Consistency)
	stock.Get("/movements", inventoryHandler.SearchMovements)
	stock.Get("/movements/products/:id", inventoryHandler.MovementsByProduct)
}
