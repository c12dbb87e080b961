package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/usecase"
)

// SalespersonHandler maneja las peticiones HTTP de vendedores (protegido).
type SalespersonHandler struct {
	uc *usecase.SalespersonUseCase
}

// NewSalespersonHandler construye el handler.
func NewSalespersonHandler(uc *usecase.SalespersonUseCase) *SalespersonHandler {
	return &SalespersonHandler{uc: uc}
}

// Create POST /api/salespersons
func (h *SalespersonHandler) Create(c *fiber.Ctx) error {
	var in dto.SalespersonRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	sp, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewSalespersonResponse(sp))
}

// GetByID GET /api/salespersons/:id
func (h *SalespersonHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sp, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewSalespersonResponse(sp))
}

// List GET /api/salespersons?active=true&limit=20&offset=0
func (h *SalespersonHandler) List(c *fiber.Ctx) error {
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	onlyActive, err := queryBool(c, "active", false)
	if err != nil {
		return err
	}
	list, meta, err := h.uc.List(c.UserContext(), onlyActive, page)
	if err != nil {
		return err
	}
	out := make([]dto.SalespersonResponse, 0, len(list))
	for _, sp := range list {
		out = append(out, dto.NewSalespersonResponse(sp))
	}
	return okPage(c, out, meta)
}

// Update PUT /api/salespersons/:id
func (h *SalespersonHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SalespersonRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	sp, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewSalespersonResponse(sp))
}

// Delete DELETE /api/salespersons/:id (409 si tiene ventas)
func (h *SalespersonHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
