package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
)

// AddStockRequest entrada para registrar una entrada de stock.
// quantity debe ser > 0; lo verifica el caso de uso.
type AddStockRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// UpdateStockRequest entrada para modificar el stock de un producto.
// InputOutput: 1 entrada (suma), 2 salida (resta); quantity debe ser > 0.
// Ambas reglas las verifica el caso de uso.
type UpdateStockRequest struct {
	ProductID   int64           `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	InputOutput int             `json:"input_output"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	InputOutput     int             `json:"input_output"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// NewStockResponse mapea la entidad al DTO de salida.
func NewStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		InputOutput:     int(s.InputOutput),
		TransactionDate: s.TransactionDate,
	}
}

// StockListResponse mapea un slice de entidades.
func StockListResponse(stocks []entity.Stock) []StockResponse {
	out := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, NewStockResponse(&stocks[i]))
	}
	return out
}

// MutationResponse envoltorio de una mutación exitosa (mensaje + registro).
type MutationResponse struct {
	Message string        `json:"message"`
	Stock   StockResponse `json:"stock"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
