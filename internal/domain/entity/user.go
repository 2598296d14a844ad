package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleVentas  = "ventas"  // crea y edita renovaciones, genera cotizaciones a clientes
	RoleCompras = "compras" // solicitudes de cotización y cotizaciones de proveedor
)

// StatusActive estado de usuarios y empresas habilitados.
const StatusActive = "active"

// IsValidRole true para admin, ventas y compras.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVentas, RoleCompras:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, ventas, compras
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
