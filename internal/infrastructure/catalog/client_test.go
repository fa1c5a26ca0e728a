package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/ms-inventory/internal/infrastructure/catalog"
	"github.com/tu-usuario/ms-inventory/pkg/config"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

// newTestClient cliente contra el servidor de prueba con reintentos rápidos.
func newTestClient(baseURL string, attempts int) *catalog.Client {
	return catalog.NewClient(config.CatalogConfig{
		BaseURL:       baseURL,
		Timeout:       2 * time.Second,
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	}, logger.Nop())
}

func TestGetProductByID_Exitoso(t *testing.T) {
	var llamadas int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&llamadas, 1)
		assert.Equal(t, "/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":42,"name":"Teclado","price":99.9,"activate":true}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)
	product, status, err := client.GetProductByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(42), product.ID)
	assert.True(t, product.Activate)
	assert.Equal(t, int32(1), atomic.LoadInt32(&llamadas), "una respuesta 200 no debe reintentarse")
}

func TestGetProductByID_404NoReintenta(t *testing.T) {
	var llamadas int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&llamadas, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)
	product, status, err := client.GetProductByID(context.Background(), 99)

	require.NoError(t, err, "un 4xx es terminal, no un error de transporte")
	assert.Nil(t, product)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&llamadas), "los 4xx deben producir exactamente 1 intento")
}

func TestGetProductByID_5xxAgotaReintentos(t *testing.T) {
	var llamadas int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&llamadas, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)
	product, status, err := client.GetProductByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Nil(t, product)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, int32(4), atomic.LoadInt32(&llamadas),
		"un 5xx persistente debe producir intento inicial + N reintentos")
}

func TestGetProductByID_5xxLuegoExito(t *testing.T) {
	var llamadas int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&llamadas, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":7,"name":"Mouse","price":25,"activate":true}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 3)
	product, status, err := client.GetProductByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, product)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&llamadas))
}

func TestGetProductByID_ErrorDeRedTrasReintentos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // servidor caído: error de red en cada intento

	client := newTestClient(srv.URL, 2)
	_, _, err := client.GetProductByID(context.Background(), 1)

	assert.Error(t, err, "un fallo de red persistente debe aflorar tras agotar reintentos")
}
