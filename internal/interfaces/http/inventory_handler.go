package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/domain/access"
)

// InventoryHandler expone lotes, ajustes y el libro de movimientos.
type InventoryHandler struct {
	uc   *inventory.UseCase
	gate *access.Gate
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, gate *access.Gate) *InventoryHandler {
	return &InventoryHandler{uc: uc, gate: gate}
}

// receiveBatchResponse lote resultante y si se fusionó con uno activo.
type receiveBatchResponse struct {
	Batch  dto.BatchResponse `json:"batch"`
	Merged bool              `json:"merged"`
}

// ReceiveBatch godoc
// @Summary      Registrar recepción de lote (fusiona con el lote activo del mismo número)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveBatchRequest  true  "Recepción"
// @Success      201   {object}  receiveBatchResponse  "lote nuevo"
// @Success      200   {object}  receiveBatchResponse  "lote fusionado"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) ReceiveBatch(c *fiber.Ctx) error {
	var in dto.ReceiveBatchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ids := map[string]string{"product_id": in.ProductID}
	if in.SupplierID != nil {
		ids["supplier_id"] = *in.SupplierID
	}
	if err := refIDs(ids); err != nil {
		return err
	}
	res, err := h.uc.ReceiveBatch(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	status := fiber.StatusCreated
	if res.Merged {
		status = fiber.StatusOK
	}
	return ok(c, status, receiveBatchResponse{
		Batch:  dto.NewBatchResponse(res.Batch, canSeePrices(c, h.gate)),
		Merged: res.Merged,
	})
}

// VoidBatch godoc
// @Summary      Anular lote (revierte su cantidad en el libro)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya anulado o stock consumido"
// @Router       /api/inventory/batches/{id}/void [post]
func (h *InventoryHandler) VoidBatch(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.uc.VoidBatch(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewBatchResponse(b, canSeePrices(c, h.gate)))
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.uc.GetBatch(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewBatchResponse(b, canSeePrices(c, h.gate)))
}

// ListBatches godoc
// @Summary      Lotes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id              path   string  true   "ID del producto"
// @Param        include_voided  query  bool    false  "Incluir anulados"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	includeVoided, err := queryBool(c, "include_voided", false)
	if err != nil {
		return err
	}
	list, err := h.uc.ListBatches(c.UserContext(), id, includeVoided)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewBatchResponses(list, canSeePrices(c, h.gate)))
}

// RegisterAdjustment godoc
// @Summary      Ajuste manual del libro (ADJ con signo, RETURN positivo)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := refIDs(map[string]string{"product_id": in.ProductID}); err != nil {
		return err
	}
	m, err := h.uc.RegisterAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewMovementResponse(m))
}

// ListMovements godoc
// @Summary      Movimientos de inventario de un producto (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (2006-01-02)"
// @Param        to      query  string  false  "Hasta, inclusive (2006-01-02)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	from, to, err := queryDateRange(c)
	if err != nil {
		return err
	}
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	list, err := h.uc.ListMovements(c.UserContext(), id, from, to, page)
	if err != nil {
		return err
	}
	return okPage(c, dto.NewMovementResponses(list), dto.PageResponse{Limit: page.Limit, Offset: page.Offset})
}

// StockSummary godoc
// @Summary      Stock derivado del libro, precio promedio y lotes activos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *InventoryHandler) StockSummary(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.uc.StockSummary(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, s.Redact(canSeePrices(c, h.gate)))
}
