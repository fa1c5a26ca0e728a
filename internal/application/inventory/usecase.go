package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ms-inventory/internal/domain"
	"github.com/tu-usuario/ms-inventory/internal/domain/entity"
	"github.com/tu-usuario/ms-inventory/internal/domain/repository"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

const allStocksKey = "allStocks"

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// UseCase orquesta el pipeline de lectura/mutación de inventario:
// lecturas cache-aside contra Redis con fallback al repositorio, y mutaciones
// transaccionales con bloqueo de fila, validación del producto contra el
// catálogo externo e invalidación de caché después del Commit.
type UseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	cache     Cache
	products  ProductValidator
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. stockRepo se usa para lecturas fuera
// de transacción; las mutaciones reciben su repositorio vía txRunner.
func NewUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	cache Cache,
	products ProductValidator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		cache:     cache,
		products:  products,
		log:       log,
	}
}

// GetAllStocks devuelve todos los registros de inventario (cache-aside sobre
// la clave "allStocks": hit devuelve de inmediato; miss consulta el
// repositorio y rellena la caché).
func (uc *UseCase) GetAllStocks(ctx context.Context) ([]entity.Stock, error) {
	var cached []entity.Stock
	if uc.cache.Get(ctx, allStocksKey, &cached) {
		return cached, nil
	}

	stocks, err := uc.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtener todos los stocks: %w", err)
	}

	uc.cache.Set(ctx, allStocksKey, stocks)
	return stocks, nil
}

// GetStockByProductID devuelve el stock de un producto (cache-aside sobre
// "stock:<id>"). La ausencia real de fila es domain.ErrStockNotFound, no un
// error interno. La caché solo se rellena cuando la fila existe.
func (uc *UseCase) GetStockByProductID(ctx context.Context, productID int64) (*entity.Stock, error) {
	key := stockKey(productID)

	var cached entity.Stock
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	stock, err := uc.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener stock del producto %d: %w", productID, err)
	}
	if stock == nil {
		return nil, domain.ErrStockNotFound
	}

	uc.cache.Set(ctx, key, stock)
	return stock, nil
}

// AddStock registra una entrada de stock: valida el producto contra el
// catálogo, y dentro de una transacción bloquea la fila de saldo
// (input_output = 1) para incrementarla, o la crea si el producto aún no
// tiene stock. La caché se invalida solo después de un Commit exitoso.
func (uc *UseCase) AddStock(ctx context.Context, productID int64, quantity decimal.Decimal) (*entity.Stock, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidData
	}
	if err := uc.products.Validate(ctx, productID); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	now := time.Now()

	var saved *entity.Stock
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository) error {
		// Bloquea la fila de saldo (SELECT FOR UPDATE) para serializar
		// mutaciones concurrentes del mismo producto
		stock, err := stockRepo.FindByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if stock != nil {
			stock.Quantity = stock.Quantity.Add(quantity)
			stock.TransactionDate = now
			saved, err = stockRepo.Save(ctx, stock)
			return err
		}

		saved, err = stockRepo.Create(ctx, &entity.Stock{
			ProductID:       productID,
			Quantity:        quantity,
			InputOutput:     entity.DirectionInput,
			TransactionDate: now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("agregar stock: %w", err)
	}

	// Invalidación después del Commit, nunca antes
	uc.cache.Delete(ctx, stockKey(productID), allStocksKey)

	uc.log.Info().
		Str("tx_id", txID).
		Int64("product_id", productID).
		Str("quantity", quantity.String()).
		Msg("stock agregado exitosamente")
	return saved, nil
}

// UpdateStock modifica el saldo de un producto: entrada (1) suma, salida (2)
// resta con guardia de stock insuficiente. La fila se bloquea durante toda la
// transacción; cualquier rama de error hace Rollback sin dejar mutaciones.
func (uc *UseCase) UpdateStock(ctx context.Context, productID int64, quantity decimal.Decimal, direction entity.Direction) (*entity.Stock, error) {
	if !direction.Valid() {
		return nil, domain.ErrInvalidData
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidData
	}
	if err := uc.products.Validate(ctx, productID); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	now := time.Now()

	var saved *entity.Stock
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository) error {
		stock, err := stockRepo.FindByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}

		switch direction {
		case entity.DirectionInput:
			stock.Quantity = stock.Quantity.Add(quantity)
		case entity.DirectionOutput:
			if stock.Quantity.LessThan(quantity) {
				return domain.ErrInsufficientStock
			}
			stock.Quantity = stock.Quantity.Sub(quantity)
		}

		stock.TransactionDate = now
		saved, err = stockRepo.Save(ctx, stock)
		return err
	})
	if err != nil {
		// %w conserva los sentinelas de dominio para errors.Is en el handler
		return nil, fmt.Errorf("modificar stock: %w", err)
	}

	uc.cache.Delete(ctx, stockKey(productID), allStocksKey)

	uc.log.Info().
		Str("tx_id", txID).
		Int64("product_id", productID).
		Str("quantity", quantity.String()).
		Int("input_output", int(direction)).
		Msg("stock actualizado exitosamente")
	return saved, nil
}
