package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/ms-inventory/internal/application/dto"
	"github.com/tu-usuario/ms-inventory/internal/application/inventory"
	"github.com/tu-usuario/ms-inventory/internal/domain"
	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de inventario.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetAllStocks godoc
// @Summary      Obtener todos los registros de inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.StockResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/ [get]
func (h *InventoryHandler) GetAllStocks(c *fiber.Ctx) error {
	stocks, err := h.uc.GetAllStocks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Error al obtener todos los stocks"})
	}
	return c.JSON(dto.StockListResponse(stocks))
}

// GetStockByProductID godoc
// @Summary      Obtener stock por ID de producto
// @Tags         inventory
// @Produce      json
// @Param        product_id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id} [get]
func (h *InventoryHandler) GetStockByProductID(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("product_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id debe ser un número entero"})
	}

	stock, err := h.uc.GetStockByProductID(c.Context(), productID)
	if err != nil {
		return h.errorResponse(c, err, "Error al obtener stock")
	}
	return c.JSON(dto.NewStockResponse(stock))
}

// AddStock godoc
// @Summary      Registrar una entrada de stock
// @Description  Incrementa el saldo del producto o crea la fila si no existe.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "product_id y quantity (> 0)"
// @Success      201  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/ [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	stock, err := h.uc.AddStock(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		return h.errorResponse(c, err, "Error al agregar stock")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{
		Message: "Stock agregado exitosamente",
		Stock:   dto.NewStockResponse(stock),
	})
}

// UpdateStock godoc
// @Summary      Modificar la cantidad en el inventario
// @Description  input_output 1 suma (entrada), 2 resta (salida) con guardia de stock insuficiente.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStockRequest  true  "product_id, quantity (> 0), input_output (1|2)"
// @Success      200  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/update [put]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	stock, err := h.uc.UpdateStock(c.Context(), in.ProductID, in.Quantity, entity.Direction(in.InputOutput))
	if err != nil {
		return h.errorResponse(c, err, "Error al modificar stock")
	}
	return c.JSON(dto.MutationResponse{
		Message: "Stock actualizado exitosamente",
		Stock:   dto.NewStockResponse(stock),
	})
}

// errorResponse mapea errores de dominio a códigos HTTP. DEPENDENCY_UNAVAILABLE
// se distingue de NOT_FOUND para que el cliente no confunda "el producto no
// existe" con "no se pudo consultar el catálogo".
func (h *InventoryHandler) errorResponse(c *fiber.Ctx, err error, internalMsg string) error {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Stock no encontrado"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "Producto no encontrado"})
	case errors.Is(err, domain.ErrProductInactive):
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "PRODUCT_INACTIVE", Message: "El producto está desactivado"})
	case errors.Is(err, domain.ErrInvalidData):
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "INVALID_DATA", Message: "Datos inválidos"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "Cantidad insuficiente de stock para esta salida"})
	case errors.Is(err, domain.ErrDependencyUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(dto.ErrorResponse{Code: "DEPENDENCY_UNAVAILABLE", Message: "Servicio de productos no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMsg})
	}
}
