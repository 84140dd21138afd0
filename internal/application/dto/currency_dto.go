package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyResponse salida de una divisa.
type CurrencyResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"codigo"`
	Name         string          `json:"nombre"`
	Symbol       string          `json:"simbolo"`
	ExchangeRate decimal.Decimal `json:"tasa_cambio"`
	IsBase       bool            `json:"es_principal"`
	Active       bool            `json:"activa"`
	UpdatedAt    time.Time       `json:"ultima_actualizacion"`
}

// ConvertRequest body para POST /api/divisas/convertir. From/To aceptan id o código.
type ConvertRequest struct {
	Amount decimal.Decimal `json:"monto"`
	From   string          `json:"divisa_origen" validate:"required"`
	To     string          `json:"divisa_destino" validate:"required"`
}

// ConvertResponse resultado de una conversión.
type ConvertResponse struct {
	Amount          decimal.Decimal `json:"monto_original"`
	From            string          `json:"divisa_origen"`
	To              string          `json:"divisa_destino"`
	ConvertedAmount decimal.Decimal `json:"monto_convertido"`
	AppliedRate     decimal.Decimal `json:"tasa_aplicada"`
	Formatted       string          `json:"monto_formateado"`
}

// UpdateRateRequest body para PUT /api/divisas/:id/tasa.
type UpdateRateRequest struct {
	ExchangeRate decimal.Decimal `json:"tasa_cambio"`
}

// SetActiveRequest body para PUT /api/divisas/:id/estado.
type SetActiveRequest struct {
	Active *bool `json:"activa" validate:"required"`
}

// CurrencyListResponse listado de divisas junto con la principal.
type CurrencyListResponse struct {
	Items []CurrencyResponse `json:"items"`
	Base  *CurrencyResponse  `json:"principal,omitempty"`
}
