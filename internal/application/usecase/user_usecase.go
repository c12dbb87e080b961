package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// UserUseCase administración de usuarios: consulta, roles y activación.
type UserUseCase struct {
	repo      repository.UserRepository
	validator *validation.Validator
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, validator *validation.Validator) *UserUseCase {
	return &UserUseCase{repo: repo, validator: validator}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.User, dto.PageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	return list, dto.PageResponse{Limit: page.Limit, Offset: page.Offset}, nil
}

// Update cambia roles y/o estado. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if in.Active != nil && !*in.Active && actorID == id {
		return nil, fmt.Errorf("no puede desactivar su propio usuario: %w", domain.ErrConflict)
	}
	if in.Roles != nil {
		roles, err := ValidateRoles(ctx, uc.repo, in.Roles)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.SetRoles(ctx, id, roles); err != nil {
			return nil, err
		}
	}
	if in.Active != nil {
		if err := uc.repo.SetActive(ctx, id, *in.Active); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, id)
}

// ValidateRoles normaliza los roles y verifica que existan en la tabla roles.
func ValidateRoles(ctx context.Context, repo repository.UserRepository, roles []string) ([]string, error) {
	known, err := repo.RoleNames(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(known))
	for _, r := range known {
		set[r] = struct{}{}
	}
	out := make([]string, 0, len(roles))
	seen := map[string]struct{}{}
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if _, ok := set[r]; !ok {
			return nil, domain.Invalid("roles", fmt.Sprintf("rol desconocido %q", r))
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, domain.Invalid("roles", "es requerido")
	}
	return out, nil
}
