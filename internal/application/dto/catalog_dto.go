package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateNamedRequest entrada para crear una categoría o una marca.
type CreateNamedRequest struct {
	Name string `json:"nombre" validate:"required,min=1,max=100"`
}

// NamedResponse salida de categoría o marca.
type NamedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateVehicleModelRequest entrada para registrar un modelo de vehículo.
type CreateVehicleModelRequest struct {
	Make     string `json:"marca" validate:"required,max=50"`
	Model    string `json:"modelo" validate:"required,max=50"`
	YearFrom *int   `json:"anio_inicio" validate:"omitempty,min=1900,max=2100"`
	YearTo   *int   `json:"anio_fin" validate:"omitempty,min=1900,max=2100"`
	Engine   string `json:"motor" validate:"omitempty,max=50"`
	Notes    string `json:"observaciones"`
}

// VehicleModelResponse salida de un modelo de vehículo.
type VehicleModelResponse struct {
	ID        string    `json:"id"`
	Make      string    `json:"marca"`
	Model     string    `json:"modelo"`
	YearFrom  *int      `json:"anio_inicio"`
	YearTo    *int      `json:"anio_fin"`
	Engine    string    `json:"motor,omitempty"`
	Notes     string    `json:"observaciones,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// AssociateRequest asocia un producto con un modelo. Original nil conserva el valor previo (o false si es nueva).
type AssociateRequest struct {
	ProductID      string `json:"producto_id" validate:"required,uuid"`
	VehicleModelID string `json:"modelo_vehiculo_id" validate:"required,uuid"`
	Notes          string `json:"notas_compatibilidad"`
	Original       *bool  `json:"es_original"`
}

// CompatibilityResponse resultado de asociar.
type CompatibilityResponse struct {
	ProductID      string `json:"producto_id"`
	VehicleModelID string `json:"modelo_vehiculo_id"`
	Notes          string `json:"notas_compatibilidad,omitempty"`
	Original       bool   `json:"es_original"`
	Created        bool   `json:"creada"`
}

// CompatibleProductResponse producto compatible con un modelo.
type CompatibleProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	SalePrice   decimal.Decimal `json:"precio_venta"`
	StockOnHand int             `json:"stock_actual"`
	Notes       string          `json:"notas_compatibilidad,omitempty"`
	Original    bool            `json:"es_original"`
}
