package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/access"
)

// ProductHandler maneja las peticiones HTTP para productos y escalones de precio.
type ProductHandler struct {
	uc   *usecase.ProductUseCase
	gate *access.Gate
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, gate *access.Gate) *ProductHandler {
	return &ProductHandler{uc: uc, gate: gate}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	p, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewProductResponse(p, canSeePrices(c, h.gate)))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewProductResponse(p, canSeePrices(c, h.gate)))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "Texto (código o nombre, sin tildes)"
// @Param        category          query  string  false  "Categoría"
// @Param        include_archived  query  bool    false  "Incluir archivados"
// @Param        limit             query  int     false  "Límite"   default(20)
// @Param        offset            query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	includeArchived, err := queryBool(c, "include_archived", false)
	if err != nil {
		return err
	}
	list, meta, err := h.uc.List(c.UserContext(), c.Query("search"), c.Query("category"), includeArchived, page)
	if err != nil {
		return err
	}
	return okPage(c, dto.NewProductResponses(list, canSeePrices(c, h.gate)), meta)
}

// Update godoc
// @Summary      Actualizar producto (no modifica precio de compra ni stock)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	p, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewProductResponse(p, canSeePrices(c, h.gate)))
}

// Archive godoc
// @Summary      Archivar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/archive [post]
func (h *ProductHandler) Archive(c *fiber.Ctx) error {
	return h.setArchived(c, true)
}

// Unarchive godoc
// @Summary      Reactivar producto archivado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/unarchive [post]
func (h *ProductHandler) Unarchive(c *fiber.Ctx) error {
	return h.setArchived(c, false)
}

func (h *ProductHandler) setArchived(c *fiber.Ctx, archived bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.uc.SetArchived(c.UserContext(), id, archived)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewProductResponse(p, canSeePrices(c, h.gate)))
}

// Delete godoc
// @Summary      Eliminar producto sin movimientos ni ventas
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Escalones de precio ──────────────────────────────────────────────────────

// ListPriceTiers godoc
// @Summary      Escalones de precio por cantidad
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.PriceTierResponse
// @Router       /api/products/{id}/price-tiers [get]
func (h *ProductHandler) ListPriceTiers(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tiers, err := h.uc.ListPriceTiers(c.UserContext(), id)
	if err != nil {
		return err
	}
	out := make([]dto.PriceTierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, dto.NewPriceTierResponse(t))
	}
	return ok(c, fiber.StatusOK, out)
}

// UpsertPriceTier godoc
// @Summary      Crear o reemplazar el escalón (producto, cantidad mínima)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del producto"
// @Param        body  body  dto.PriceTierRequest  true  "Escalón"
// @Success      200   {object}  dto.PriceTierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price-tiers [put]
func (h *ProductHandler) UpsertPriceTier(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.PriceTierRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	t, err := h.uc.UpsertPriceTier(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewPriceTierResponse(t))
}

// DeletePriceTier godoc
// @Summary      Eliminar escalón de precio
// @Tags         products
// @Security     Bearer
// @Param        id       path   string  true  "ID del producto"
// @Param        min_qty  query  string  true  "Cantidad mínima del escalón"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price-tiers [delete]
func (h *ProductHandler) DeletePriceTier(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	minQty, err := decimal.NewFromString(c.Query("min_qty"))
	if err != nil {
		return domain.Invalid("min_qty", "número inválido")
	}
	if err := h.uc.DeletePriceTier(c.UserContext(), id, minQty); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Quote godoc
// @Summary      Precio unitario para una cantidad (escalón aplicable o precio de venta)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true  "ID del producto"
// @Param        qty  query  string  true  "Cantidad"
// @Success      200  {object}  dto.PriceQuote
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quote [get]
func (h *ProductHandler) Quote(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	qty, err := decimal.NewFromString(c.Query("qty"))
	if err != nil {
		return domain.Invalid("qty", "número inválido")
	}
	q, err := h.uc.Quote(c.UserContext(), id, qty)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, q)
}
