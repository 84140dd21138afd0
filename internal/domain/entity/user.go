package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "administrador"
	RoleSeller = "vendedor"
	RoleViewer = "visualizador"
)

// User usuario del sistema; el rol decide qué operaciones puede ejecutar.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
