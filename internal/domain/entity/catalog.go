package entity

import "time"

// Category agrupa productos (frenos, suspensión, filtros...). El nombre es único.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Brand fabricante del repuesto. El nombre es único.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// VehicleModel vehículo con el que un repuesto puede ser compatible.
// YearTo nil significa que el modelo sigue vigente.
type VehicleModel struct {
	ID        string
	Make      string
	Model     string
	YearFrom  *int
	YearTo    *int
	Engine    string
	Notes     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CoversYear indica si el rango de años del modelo incluye year.
func (m *VehicleModel) CoversYear(year int) bool {
	if m.YearFrom != nil && *m.YearFrom > year {
		return false
	}
	return m.YearTo == nil || *m.YearTo >= year
}

// Compatibility asociación producto ↔ modelo de vehículo.
type Compatibility struct {
	ProductID      string
	VehicleModelID string
	Notes          string
	Original       bool // repuesto original (OEM) y no alternativo
}

// CompatibleProduct producto con los datos de su compatibilidad con un modelo.
type CompatibleProduct struct {
	Product  Product
	Notes    string
	Original bool
}
