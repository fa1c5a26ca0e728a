package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/ms-inventory/pkg/config"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

// Product representación mínima del producto del catálogo externo.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Activate bool            `json:"activate"`
}

// envelope el catálogo envuelve el producto en un campo data.
type envelope struct {
	Data Product `json:"data"`
}

// Client cliente HTTP del servicio de catálogo con reintentos acotados.
// Política: reintenta solo ante error de red o respuesta >= 500; los 4xx son
// terminales y se devuelven de inmediato. La espera antes del reintento k es
// k * RetryDelay. El cliente no conoce el estado del circuit breaker: es
// puramente por llamada.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente con la política de reintentos de la configuración.
func NewClient(cfg config.CatalogConfig, log *logger.Logger) *Client {
	clog := log.Component("catalog")

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryAttempts).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			// resp.Request.Attempt es el número del intento que acaba de fallar
			return time.Duration(resp.Request.Attempt) * cfg.RetryDelay, nil
		}).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		}).
		AddRetryHook(func(resp *resty.Response, err error) {
			clog.Warn().
				Int("attempt", resp.Request.Attempt).
				Err(err).
				Msg("reintento de llamada al catálogo")
		})

	return &Client{http: rc}
}

// GetProductByID consulta GET <base>/<id>. Devuelve el producto y el status
// HTTP observado; err no nulo significa fallo de red tras agotar reintentos.
// Un 404 no es un error de transporte: se reporta vía status.
func (c *Client) GetProductByID(ctx context.Context, productID int64) (*Product, int, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		Get(fmt.Sprintf("/%d", productID))
	if err != nil {
		return nil, 0, fmt.Errorf("solicitud al catálogo: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, resp.StatusCode(), nil
	}
	return &env.Data, resp.StatusCode(), nil
}
