package memstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// IDs fijos de las divisas sembradas por SeedCurrencies.
const (
	CurrencyVES = "00000000-0000-0000-0000-000000000001"
	CurrencyUSD = "00000000-0000-0000-0000-000000000002"
	CurrencyCOP = "00000000-0000-0000-0000-000000000003"
	CurrencyEUR = "00000000-0000-0000-0000-000000000004"
)

// SeedCurrencies siembra VES (principal), USD, COP y EUR con las tasas por defecto.
// EUR queda inactiva si inactiveEUR.
func (db *DB) SeedCurrencies(inactiveEUR bool) {
	now := time.Now()
	db.AddCurrency(&entity.Currency{ID: CurrencyVES, Code: "VES", Name: "Bolívar", Symbol: "Bs.", Rate: entity.BaseRate(), Active: true, UpdatedAt: now})
	db.AddCurrency(&entity.Currency{ID: CurrencyUSD, Code: "USD", Name: "Dólar estadounidense", Symbol: "$", Rate: mustRate("0.00435"), Active: true, UpdatedAt: now})
	db.AddCurrency(&entity.Currency{ID: CurrencyCOP, Code: "COP", Name: "Peso colombiano", Symbol: "COP", Rate: mustRate("16.67"), Active: true, UpdatedAt: now})
	db.AddCurrency(&entity.Currency{ID: CurrencyEUR, Code: "EUR", Name: "Euro", Symbol: "€", Rate: mustRate("0.00374"), Active: !inactiveEUR, UpdatedAt: now})
}

// Currency devuelve una copia de la divisa (nil si no existe).
func (db *DB) Currency(id string) *entity.Currency {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.currencies[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// SeedProduct inserta un producto con stock y precios simples.
func (db *DB) SeedProduct(id, code string, stock int) *entity.Product {
	p := &entity.Product{
		ID:           id,
		Code:         code,
		Description:  "Repuesto " + code,
		PurchaseCost: decimal.NewFromInt(5),
		SalePrice:    decimal.NewFromInt(10),
		AverageCost:  decimal.NewFromInt(5),
		StockOnHand:  stock,
		StockMinimum: entity.DefaultStockMinimum,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	db.AddProduct(p)
	return p
}

func mustRate(s string) entity.CurrencyRate {
	r, err := entity.PeggedRate(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return r
}
