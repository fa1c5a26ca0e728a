package repository

import (
	"context"

	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el stock.
// Las variantes ForUpdate se usan dentro de transacciones para garantizar
// consistencia: bloquean la fila (SELECT FOR UPDATE) hasta Commit/Rollback.
// Ningún método hace Commit por su cuenta; el control transaccional es del caller.
type StockRepository interface {
	// FindAll devuelve todos los registros de stock.
	FindAll(ctx context.Context) ([]entity.Stock, error)
	// FindByProduct devuelve la fila de saldo del producto, o nil si no existe.
	FindByProduct(ctx context.Context, productID int64) (*entity.Stock, error)
	// FindByProductForUpdate igual que FindByProduct pero con bloqueo de fila.
	FindByProductForUpdate(ctx context.Context, productID int64) (*entity.Stock, error)
	// Create inserta una fila nueva y devuelve el registro con su ID.
	Create(ctx context.Context, stock *entity.Stock) (*entity.Stock, error)
	// Save persiste la mutación in-place de una fila existente.
	Save(ctx context.Context, stock *entity.Stock) (*entity.Stock, error)
}
