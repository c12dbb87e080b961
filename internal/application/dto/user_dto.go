package dto

import (
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos del usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// CreateUserRequest alta de usuario por un rol privilegiado.
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Name     string   `json:"name" validate:"max=200"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,required"`
}

// UpdateUserRequest cambia roles y/o estado de un usuario.
type UpdateUserRequest struct {
	Roles  []string `json:"roles,omitempty" validate:"omitempty,min=1,dive,required"`
	Active *bool    `json:"active,omitempty"`
}

// UserResponse salida de usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse mapea el usuario.
func NewUserResponse(u *entity.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Active:    u.Active,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

// MeResponse usuario autenticado y sus capacidades.
type MeResponse struct {
	User                UserResponse `json:"user"`
	Privileged          bool         `json:"privileged"`
	CanSeePurchasePrice bool         `json:"can_see_purchase_price"`
}
