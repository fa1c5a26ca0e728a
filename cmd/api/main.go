package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/ms-inventory/internal/application/inventory"
	"github.com/tu-usuario/ms-inventory/internal/infrastructure/catalog"
	"github.com/tu-usuario/ms-inventory/internal/infrastructure/postgres"
	infraredis "github.com/tu-usuario/ms-inventory/internal/infrastructure/redis"
	httpRouter "github.com/tu-usuario/ms-inventory/internal/interfaces/http"
	"github.com/tu-usuario/ms-inventory/pkg/breaker"
	"github.com/tu-usuario/ms-inventory/pkg/config"
	"github.com/tu-usuario/ms-inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de Redis")
	}
	defer redisClient.Close()
	// La caché es fail-closed: si Redis no responde en el arranque solo se
	// advierte; el servicio sigue contra el repositorio
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis no responde; la caché operará como miss permanente")
	} else {
		log.Info().Msg("conectado a Redis")
	}

	cache := infraredis.NewCache(redisClient, cfg.Redis.CacheExpiry, log)

	// Breaker de la validación de productos; las transiciones se registran
	// para diagnóstico
	blog := log.Component("breaker")
	productBreaker := breaker.New(breaker.Settings{
		Name:             "product-service",
		CallTimeout:      cfg.Breaker.CallTimeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		MinRequests:      cfg.Breaker.MinRequests,
		Window:           cfg.Breaker.Window,
		ResetTimeout:     cfg.Breaker.ResetTimeout,
		OnStateChange: func(name string, from, to breaker.State) {
			blog.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("transición del circuit breaker")
		},
	})

	catalogClient := catalog.NewClient(cfg.Catalog, log)
	productValidator := catalog.NewValidator(catalogClient, productBreaker, log)

	stockRepo := postgres.NewStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	inventoryUC := inventory.NewUseCase(txRunner, stockRepo, cache, productValidator, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ms-inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Inventory: inventoryUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("REST API escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
