package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tu-usuario/ms-inventory/internal/application/inventory"
	"github.com/tu-usuario/ms-inventory/internal/domain"
	"github.com/tu-usuario/ms-inventory/pkg/breaker"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

// Ensure Validator implements inventory.ProductValidator.
var _ inventory.ProductValidator = (*Validator)(nil)

// Validator adaptador de validación de productos: cliente con reintentos
// envuelto por el circuit breaker. Normaliza los fallos de la dependencia a
// errores de dominio: 404 -> ErrProductNotFound, producto desactivado ->
// ErrProductInactive, 5xx agotados / timeout / circuito abierto ->
// ErrDependencyUnavailable (que NO significa "el producto no existe").
type Validator struct {
	client  *Client
	breaker *breaker.Breaker
	log     *logger.Logger
}

// NewValidator construye el adaptador.
func NewValidator(client *Client, b *breaker.Breaker, log *logger.Logger) *Validator {
	return &Validator{client: client, breaker: b, log: log.Component("product-validator")}
}

// Validate responde si el producto existe y está activo.
func (v *Validator) Validate(ctx context.Context, productID int64) error {
	var product *Product
	var status int

	err := v.breaker.Do(ctx, func(ctx context.Context) error {
		p, st, err := v.client.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if st >= http.StatusInternalServerError {
			// Solo los 5xx cuentan como fallo del breaker; un 404 es una
			// respuesta válida de la dependencia
			return fmt.Errorf("el catálogo respondió %d", st)
		}
		product, status = p, st
		return nil
	})
	if err != nil {
		if errors.Is(err, breaker.ErrOpen) {
			v.log.Warn().Int64("product_id", productID).Msg("circuito abierto: validación cortocircuitada")
		} else {
			v.log.Error().Err(err).Int64("product_id", productID).Msg("no se pudo validar el producto")
		}
		return domain.ErrDependencyUnavailable
	}

	switch {
	case status == http.StatusNotFound:
		return domain.ErrProductNotFound
	case status != http.StatusOK:
		return domain.ErrDependencyUnavailable
	case !product.Activate:
		return domain.ErrProductInactive
	}
	return nil
}
