package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
	"github.com/tu-usuario/ms-inventory/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = "id, product_id, quantity, input_output, transaction_date"

// FindAll devuelve todos los registros de stock.
func (r *StockRepo) FindAll(ctx context.Context) ([]entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock ORDER BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find all stocks: %w", err)
	}
	defer rows.Close()

	stocks := []entity.Stock{}
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.InputOutput, &s.TransactionDate); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stocks: %w", err)
	}
	return stocks, nil
}

// FindByProduct devuelve la fila de saldo del producto, o nil si no existe.
func (r *StockRepo) FindByProduct(ctx context.Context, productID int64) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND input_output = $2`
	return r.scanOne(ctx, query, productID, entity.DirectionInput)
}

// FindByProductForUpdate obtiene la fila de saldo y la bloquea (SELECT FOR UPDATE)
// hasta Commit/Rollback de la transacción que envuelve al Querier.
func (r *StockRepo) FindByProductForUpdate(ctx context.Context, productID int64) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND input_output = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, productID, entity.DirectionInput)
}

func (r *StockRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ProductID, &s.Quantity, &s.InputOutput, &s.TransactionDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Create inserta una fila nueva de stock y devuelve el registro con su ID.
func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) (*entity.Stock, error) {
	query := `
		INSERT INTO stock (product_id, quantity, input_output, transaction_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		stock.ProductID, stock.Quantity, stock.InputOutput, stock.TransactionDate,
	).Scan(&stock.ID)
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	return stock, nil
}

// Save persiste la mutación in-place de una fila existente. No hace Commit;
// el control transaccional es del caller.
func (r *StockRepo) Save(ctx context.Context, stock *entity.Stock) (*entity.Stock, error) {
	query := `
		UPDATE stock
		SET quantity = $1, transaction_date = $2
		WHERE id = $3`
	tag, err := r.q.Exec(ctx, query, stock.Quantity, stock.TransactionDate, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("save stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("save stock: fila %d no existe", stock.ID)
	}
	return stock, nil
}
