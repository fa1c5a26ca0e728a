package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tu-usuario/ms-inventory/internal/application/inventory"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

// Ensure Cache implements inventory.Cache.
var _ inventory.Cache = (*Cache)(nil)

// Cache adaptador clave-valor sobre Redis para el camino de lectura.
// Contrato fail-closed: si Redis no responde, Get se comporta como miss y
// Set/Delete solo registran el fallo; el caller siempre puede seguir contra
// el repositorio y el TTL acota el staleness de lo que no se pudo invalidar.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache construye el adaptador. ttl aplica a todos los Set.
func NewCache(client *goredis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log.Component("cache")}
}

// Get deserializa el valor JSON en dest y devuelve true si hubo hit.
// Una clave ausente no es un error.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("error en Redis, tratado como miss")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta, tratada como miss")
		return false
	}
	return true
}

// Set serializa value como JSON y lo guarda con el TTL configurado
// (reinicia el TTL si la clave ya existía).
func (c *Cache) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar el valor a cachear")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir en la caché")
	}
}

// Delete invalida las claves indicadas. Un fallo aquí no interrumpe la
// operación: la expiración por TTL es el respaldo.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("no se pudo invalidar la caché")
	}
}

// NewClient crea el cliente Redis a partir de la URL de configuración.
func NewClient(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}
