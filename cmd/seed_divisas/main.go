// seed_divisas siembra las divisas iniciales (VES principal, USD, COP, EUR) en una sola transacción.
//
// Uso: go run ./cmd/seed_divisas [-force]
// Sin -force las divisas existentes conservan su tasa, su marca de principal y su estado.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/autopartes-api/pkg/config"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

type seedCurrency struct {
	code   string
	name   string
	symbol string
	rate   string // vacío = principal
}

var defaults = []seedCurrency{
	{code: "VES", name: "Bolívar", symbol: "Bs."},
	{code: "USD", name: "Dólar estadounidense", symbol: "$", rate: "0.00435"},
	{code: "COP", name: "Peso colombiano", symbol: "COP", rate: "16.67"},
	{code: "EUR", name: "Euro", symbol: "€", rate: "0.00374"},
}

func main() {
	force := flag.Bool("force", false, "sobrescribir tasas, principal y estado de las divisas existentes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	currencies, err := buildCurrencies(defaults, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("divisas por defecto inválidas")
	}

	err = postgres.NewTxRunner(pool).Run(ctx, func(store ports.Store) error {
		for _, c := range currencies {
			if err := store.Currencies.Upsert(ctx, c, *force); err != nil {
				return fmt.Errorf("divisa %s: %w", c.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("siembra de divisas")
	}
	log.Info().Int("divisas", len(currencies)).Bool("force", *force).Msg("divisas sembradas")
}

func buildCurrencies(seeds []seedCurrency, now time.Time) ([]*entity.Currency, error) {
	out := make([]*entity.Currency, 0, len(seeds))
	for _, s := range seeds {
		c := &entity.Currency{
			ID:        uuid.New().String(),
			Code:      s.code,
			Name:      s.name,
			Symbol:    s.symbol,
			Rate:      entity.BaseRate(),
			Active:    true,
			UpdatedAt: now,
		}
		if s.rate != "" {
			value, err := decimal.NewFromString(s.rate)
			if err != nil {
				return nil, err
			}
			if c.Rate, err = entity.PeggedRate(value); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}
