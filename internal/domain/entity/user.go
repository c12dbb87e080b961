package entity

import "time"

// Roles conocidos. El rol privilegiado y los que ven precios de compra son configurables.
const (
	RoleMain   = "main"
	RoleDoctor = "doctor"
	RoleSeller = "seller"
)

// User usuario del sistema con uno o más roles (tabla user_roles).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Active       bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
