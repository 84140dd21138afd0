package entity

import "time"

// Customer cliente al que se registran ventas.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // cédula o RIF
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
