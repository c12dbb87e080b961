package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/domain/access"
)

// DashboardHandler maneja los endpoints del tablero de ventas.
type DashboardHandler struct {
	uc   *appanalytics.DashboardUseCase
	gate *access.Gate
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, gate *access.Gate) *DashboardHandler {
	return &DashboardHandler{uc: uc, gate: gate}
}

// GetSummary godoc
// @Summary      Resumen de ventas de hoy y del mes en curso
// @Description  Costo y margen solo se incluyen para roles que pueden ver precios de compra.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, summary.Redact(canSeePrices(c, h.gate)))
}
