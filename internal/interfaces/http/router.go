package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/application/usecase"
	"github.com/jhoicas/materias-primas/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents   *inventory.DocumentUseCase
	Engine      *inventory.PostingEngine
	Stock       *inventory.StockQueryUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	ClientUC    *usecase.ClientUseCase
	JWTSecret   string
	ServiceName string
	// Ping comprueba el backend de almacenamiento; nil = siempre disponible.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.ServiceName, "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	readers := RequireRole(jwt.RoleAdmin, jwt.RoleAlmacenero, jwt.RoleConsulta)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleAlmacenero)
	admins := RequireRole(jwt.RoleAdmin)

	// Documentos de movimiento
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Documents, deps.Engine)
	documents.Post("/", writers, documentHandler.Create)
	documents.Get("/", readers, documentHandler.List)
	documents.Get("/:id", readers, documentHandler.GetByID)
	documents.Post("/:id/confirm", writers, documentHandler.Confirm)
	documents.Delete("/:id", writers, documentHandler.Delete)

	// Existencias (submayor) y kardex
	stockHandler := NewStockHandler(deps.Stock)
	stock := api.Group("/stock", readers)
	stock.Get("/:warehouse_id", stockHandler.ListBalances)
	stock.Get("/:warehouse_id/:product_id", stockHandler.GetBalance)
	stock.Get("/:warehouse_id/:product_id/movements", stockHandler.ListMovements)
	// "mine" antes que :ueb_id: fiber resuelve en orden de registro.
	api.Get("/sites/mine/stock", readers, stockHandler.ListOwnSiteBalances)
	api.Get("/sites/:ueb_id/stock", readers, stockHandler.ListSiteBalances)

	// Maestro de datos
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", admins, warehouseHandler.Create)
	warehouses.Get("/", readers, warehouseHandler.List)
	warehouses.Get("/:id", readers, warehouseHandler.GetByID)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", admins, productHandler.Create)
	products.Get("/:id", readers, productHandler.GetByID)

	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", writers, clientHandler.Create)
	clients.Get("/:id", readers, clientHandler.GetByID)
}
