package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/autopartes-api/internal/application/auth"
	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/application/purchasing"
	"github.com/jhoicas/autopartes-api/internal/application/sales"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/infrastructure/cache"
	"github.com/jhoicas/autopartes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/autopartes-api/internal/interfaces/http"
	"github.com/jhoicas/autopartes-api/pkg/config"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
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

	txRunner := postgres.NewTxRunner(pool)
	store := postgres.NewStore(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Caché de divisas opcional: sin Redis (o si no responde) se lee directo de PostgreSQL.
	var currencyCache ports.CurrencyCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, caché de divisas desactivada")
		} else {
			defer client.Close()
			currencyCache = cache.NewCurrencyCache(client, store.Currencies, cfg.Redis.CacheTTL, log)
		}
	}

	ledger := inventory.NewStockLedger(txRunner, store.Products, store.Movements, log)
	currencyUC := currency.NewUseCase(txRunner, store.Currencies, currencyCache, log)
	productUC := usecase.NewProductUseCase(txRunner, store.Products, ledger, cfg.Inventory.StockMinimumDefault)
	customerUC := usecase.NewCustomerUseCase(store.Customers)
	supplierUC := usecase.NewSupplierUseCase(store.Suppliers)
	catalogUC := usecase.NewCatalogUseCase(postgres.NewCategoryRepository(pool), postgres.NewBrandRepository(pool))
	vehicleUC := usecase.NewVehicleModelUseCase(postgres.NewVehicleModelRepository(pool), store.Products)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.Products, store.Sales, log)
	purchaseUC := purchasing.NewUseCase(txRunner, ledger, store.Purchases, log)
	saleUC := sales.NewUseCase(txRunner, ledger, store.Sales, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestTimeout(cfg.HTTP.RequestTimeout))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CurrencyUC:    currencyUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		SupplierUC:    supplierUC,
		CatalogUC:     catalogUC,
		VehicleUC:     vehicleUC,
		Ledger:        ledger,
		Replenishment: replenishmentUC,
		PurchaseUC:    purchaseUC,
		SaleUC:        saleUC,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

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

// requestTimeout pone un deadline al contexto de cada request; las transacciones lo heredan y se cancelan al vencer.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
