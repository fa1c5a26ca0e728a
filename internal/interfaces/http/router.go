package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ms-inventory/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory *inventory.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	inv := api.Group("/inventory")
	handler := NewInventoryHandler(deps.Inventory)

	// Obtener todos los registros de inventario
	inv.Get("/", handler.GetAllStocks)
	// Obtener stock por ID de producto
	inv.Get("/:product_id", handler.GetStockByProductID)
	// Agregar nuevo registro de inventario
	inv.Post("/", handler.AddStock)
	// Modificar la cantidad en el inventario
	inv.Put("/update", handler.UpdateStock)
}
