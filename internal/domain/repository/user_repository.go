package repository

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios y sus roles.
type UserRepository interface {
	// Create persiste el usuario y sus roles (user_roles).
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetRoles(ctx context.Context, userID string, roles []string) error
	SetActive(ctx context.Context, userID string, active bool) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// RoleNames devuelve los roles existentes en la tabla roles.
	RoleNames(ctx context.Context) ([]string, error)
}
