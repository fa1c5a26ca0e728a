package postgres

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
	"github.com/tu-usuario/ms-inventory/internal/domain/repository"
	"github.com/tu-usuario/ms-inventory/pkg/config"
)

// Pruebas de integración contra PostgreSQL real. Se omiten si TEST_DATABASE_URL
// no está definida. La tabla stock debe existir (migrations/001_create_stock.sql).

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definida, prueba de integración omitida")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 2, MinConns: 1})
	if err != nil {
		t.Skipf("PostgreSQL no disponible: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func cleanProduct(t *testing.T, pool *pgxpool.Pool, productID int64) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM stock WHERE product_id = $1", productID)
	})
}

func TestStockRepo_CreateYFindByProduct(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)
	ctx := context.Background()
	productID := time.Now().UnixNano()
	cleanProduct(t, pool, productID)

	created, err := repo.Create(ctx, &entity.Stock{
		ProductID:       productID,
		Quantity:        decimal.NewFromInt(10),
		InputOutput:     entity.DirectionInput,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.DirectionInput, found.InputOutput)
}

func TestStockRepo_ProductIDDe64BitsRoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)
	ctx := context.Background()
	// product_id es BIGINT: un ID por encima del rango de int32 debe
	// persistirse y consultarse sin problemas de encoding
	productID := int64(math.MaxInt32) + time.Now().Unix()
	cleanProduct(t, pool, productID)

	created, err := repo.Create(ctx, &entity.Stock{
		ProductID:       productID,
		Quantity:        decimal.NewFromInt(1),
		InputOutput:     entity.DirectionInput,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, productID, found.ProductID)
}

func TestStockRepo_FindByProductSinFilaDevuelveNil(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)

	found, err := repo.FindByProduct(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, found, "ausencia de fila no es un error")
}

func TestStockRepo_SavePersisteLaMutacion(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)
	ctx := context.Background()
	productID := time.Now().UnixNano()
	cleanProduct(t, pool, productID)

	created, err := repo.Create(ctx, &entity.Stock{
		ProductID:       productID,
		Quantity:        decimal.NewFromInt(10),
		InputOutput:     entity.DirectionInput,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)

	created.Quantity = decimal.NewFromInt(7)
	created.TransactionDate = time.Now()
	_, err = repo.Save(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(7)))
}

func TestStockRepo_SaveFilaInexistenteFalla(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)

	_, err := repo.Save(context.Background(), &entity.Stock{
		ID: -1, Quantity: decimal.NewFromInt(1), TransactionDate: time.Now(),
	})
	assert.Error(t, err)
}

func TestTxRunner_RollbackRevierteLaMutacion(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)
	runner := NewTxRunner(pool)
	ctx := context.Background()
	productID := time.Now().UnixNano()
	cleanProduct(t, pool, productID)

	_, err := repo.Create(ctx, &entity.Stock{
		ProductID:       productID,
		Quantity:        decimal.NewFromInt(10),
		InputOutput:     entity.DirectionInput,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)

	errFallo := errors.New("fallo simulado")
	err = runner.Run(ctx, func(txRepo repository.StockRepository) error {
		stock, err := txRepo.FindByProductForUpdate(ctx, productID)
		require.NoError(t, err)
		require.NotNil(t, stock)

		stock.Quantity = decimal.NewFromInt(999)
		if _, err := txRepo.Save(ctx, stock); err != nil {
			return err
		}
		return errFallo
	})
	require.ErrorIs(t, err, errFallo)

	found, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(10)),
		"el rollback debe dejar el saldo original")
}

func TestTxRunner_CommitPersiste(t *testing.T) {
	pool := testPool(t)
	repo := NewStockRepository(pool)
	runner := NewTxRunner(pool)
	ctx := context.Background()
	productID := time.Now().UnixNano()
	cleanProduct(t, pool, productID)

	err := runner.Run(ctx, func(txRepo repository.StockRepository) error {
		_, err := txRepo.Create(ctx, &entity.Stock{
			ProductID:       productID,
			Quantity:        decimal.NewFromInt(3),
			InputOutput:     entity.DirectionInput,
			TransactionDate: time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	found, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(3)))
}
