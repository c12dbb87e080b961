package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/access"
	"github.com/jhoicas/crm-api/internal/testutil/memrepo"
	"github.com/jhoicas/crm-api/pkg/jwt"
	"github.com/jhoicas/crm-api/pkg/validation"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	gate := access.NewGate([]string{"main"}, []string{"main", "doctor"})
	uc := auth.NewAuthUseCase(store.Users(), gate, validation.New("CO"), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "crm-api-test",
	})
	return uc, store
}

func TestCreateUserYLogin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	user, err := uc.CreateUser(ctx, dto.CreateUserRequest{
		Email: " Doc@Clinica.co ", Password: "secreto123", Roles: []string{"Doctor", "doctor"},
	})
	require.NoError(t, err)
	assert.Equal(t, "doc@clinica.co", user.Email)
	assert.Equal(t, []string{"doctor"}, user.Roles)
	assert.NotEqual(t, "secreto123", user.PasswordHash)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "doc@clinica.co", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.ExpiresIn)

	id, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, []string{"doctor"}, id.Roles)
}

func TestCreateUser_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "secreto123", Roles: []string{"main"}})
	require.NoError(t, err)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "A@B.co", Password: "secreto123", Roles: []string{"main"}})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "c@b.co", Password: "secreto123", Roles: []string{"admin"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "d@b.co", Password: "corto", Roles: []string{"seller"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "secreto123", Roles: []string{"seller"}})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	user, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.co", Password: "secreto123", Roles: []string{"seller"}})
	require.NoError(t, err)
	require.NoError(t, store.Users().SetActive(ctx, user.ID, false))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe_Capacidades(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	doctor, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "doc@b.co", Password: "secreto123", Roles: []string{"doctor"}})
	require.NoError(t, err)
	me, err := uc.Me(ctx, doctor.ID)
	require.NoError(t, err)
	assert.False(t, me.Privileged)
	assert.True(t, me.CanSeePurchasePrice)

	seller, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ven@b.co", Password: "secreto123", Roles: []string{"seller"}})
	require.NoError(t, err)
	me, err = uc.Me(ctx, seller.ID)
	require.NoError(t, err)
	assert.False(t, me.Privileged)
	assert.False(t, me.CanSeePurchasePrice)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
