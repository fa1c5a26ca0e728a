package inventory

import (
	"context"

	"github.com/tu-usuario/ms-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de stock atado a esa tx. Garantiza atomicidad: Commit si fn
// devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(stockRepo repository.StockRepository) error) error
}

// Cache puerto clave-valor con TTL para el camino de lectura (cache-aside).
// El contrato es fail-closed: un backend caído se comporta como miss y las
// escrituras/invalidaciones fallidas se registran pero nunca se propagan
// (la expiración por TTL acota la ventana de staleness).
type Cache interface {
	// Get deserializa el valor en dest y devuelve true si hubo hit.
	Get(ctx context.Context, key string, dest any) bool
	// Set serializa value y lo guarda con el TTL configurado (lo reinicia si existía).
	Set(ctx context.Context, key string, value any)
	// Delete invalida las claves indicadas.
	Delete(ctx context.Context, keys ...string)
}

// ProductValidator responde si un producto existe y está activo en el catálogo.
// Devuelve nil, o uno de: domain.ErrProductNotFound, domain.ErrProductInactive,
// domain.ErrDependencyUnavailable (la dependencia no pudo consultarse; el caller
// NO debe interpretarlo como "el producto no existe").
type ProductValidator interface {
	Validate(ctx context.Context, productID int64) error
}
