package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	apphttp "github.com/jhoicas/crm-api/internal/interfaces/http"
	"github.com/jhoicas/crm-api/pkg/logger"
)

func TestErrorHandler_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.Invalid("quantity", "debe ser mayor que 0"), http.StatusBadRequest, "VALIDATION"},
		{"entrada inválida", domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"no autorizado", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"no encontrado envuelto", fmt.Errorf("product_id: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"usuario no encontrado", domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"stock insuficiente", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"ya anulado", domain.ErrAlreadyVoided, http.StatusConflict, "ALREADY_VOIDED"},
		{"en uso", domain.ErrInUse, http.StatusConflict, "IN_USE"},
		{"duplicado", domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{"email existente", domain.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_EXISTS"},
		{"conflicto", fmt.Errorf("vacante cerrada: %w", domain.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"dependencia", fmt.Errorf("subir archivo: %w", domain.ErrDependency), http.StatusInternalServerError, "DEPENDENCY"},
		{"inesperado", errors.New("dial tcp 10.0.0.1:5432: connection refused"), http.StatusInternalServerError, "INTERNAL"},
		{"fiber", fiber.NewError(fiber.StatusMethodNotAllowed, "método no permitido"), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.OK)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorHandler_NoFiltraDetallesInternos(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.New("password authentication failed for user crm")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Error, "password")
}

func TestErrorHandler_ValidacionIncluyeCampos(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewValidationError(map[string]string{"lot_number": "es requerido", "quantity": "debe ser mayor que 0"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "es requerido", body.Fields["lot_number"])
	assert.Contains(t, body.Fields, "quantity")
}
