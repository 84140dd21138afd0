package dto

import "time"

// CreateCustomerRequest entrada para registrar un cliente. La identificación es opcional pero única.
type CreateCustomerRequest struct {
	Name  string `json:"nombre" validate:"required,min=1,max=150"`
	TaxID string `json:"identificacion" validate:"omitempty,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"telefono" validate:"omitempty,max=50"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	TaxID     string    `json:"identificacion,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"telefono,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplierRequest entrada para registrar un proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"nombre" validate:"required,min=1,max=255"`
	TaxID string `json:"rif" validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"telefono" validate:"omitempty,max=50"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	TaxID     string    `json:"rif,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"telefono,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
