package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tipo de movimiento de stock: 1 entrada, 2 salida.
type Direction int

const (
	DirectionInput  Direction = 1
	DirectionOutput Direction = 2
)

// Valid indica si el valor corresponde a un movimiento conocido.
func (d Direction) Valid() bool {
	return d == DirectionInput || d == DirectionOutput
}

// Stock representa el saldo de inventario de un producto.
// Modelo de saldo único: existe a lo sumo una fila por producto, siempre con
// input_output = 1; las salidas descuentan sobre esa misma fila.
type Stock struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	InputOutput     Direction       `json:"input_output"`
	TransactionDate time.Time       `json:"transaction_date"`
}
