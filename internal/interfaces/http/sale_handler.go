package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SaleHandler maneja ventas: registro, anulación, consulta, comprobante y exportación.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta (descuenta stock del libro)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ids := map[string]string{"client_id": in.ClientID, "product_id": in.ProductID}
	if in.SalespersonID != nil {
		ids["salesperson_id"] = *in.SalespersonID
	}
	if err := refIDs(ids); err != nil {
		return err
	}
	sale, err := h.uc.RecordSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewSaleResponse(sale))
}

// Void godoc
// @Summary      Anular venta (elimina la venta y devuelve el stock)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse  "venta anulada"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sale, err := h.uc.VoidSale(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	sale, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        client_id       query  string  false  "Cliente"
// @Param        product_id      query  string  false  "Producto"
// @Param        salesperson_id  query  string  false  "Vendedor"
// @Param        from            query  string  false  "Desde (2006-01-02)"
// @Param        to              query  string  false  "Hasta, inclusive (2006-01-02)"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	f, err := saleFilter(c)
	if err != nil {
		return err
	}
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return okPage(c, dto.NewSaleResponses(list), dto.PageResponse{Limit: page.Limit, Offset: page.Offset})
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	data, name, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return err
	}
	return attachment(c, contentTypePDF, name, data)
}

// Export godoc
// @Summary      Exportar ventas a Excel
// @Tags         sales
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        client_id       query  string  false  "Cliente"
// @Param        product_id      query  string  false  "Producto"
// @Param        salesperson_id  query  string  false  "Vendedor"
// @Param        from            query  string  false  "Desde (2006-01-02)"
// @Param        to              query  string  false  "Hasta, inclusive (2006-01-02)"
// @Success      200  {file}    binary
// @Router       /api/sales/export [get]
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	f, err := saleFilter(c)
	if err != nil {
		return err
	}
	data, name, err := h.uc.ExportXLSX(c.UserContext(), f)
	if err != nil {
		return err
	}
	return attachment(c, contentTypeXLSX, name, data)
}

func saleFilter(c *fiber.Ctx) (repository.SaleFilter, error) {
	f := repository.SaleFilter{
		ClientID:      c.Query("client_id"),
		ProductID:     c.Query("product_id"),
		SalespersonID: c.Query("salesperson_id"),
	}
	// un filtro con UUID mal formado no puede coincidir con nada
	if err := refIDs(map[string]string{
		"client_id":      f.ClientID,
		"product_id":     f.ProductID,
		"salesperson_id": f.SalespersonID,
	}); err != nil {
		return f, err
	}
	from, to, err := queryDateRange(c)
	if err != nil {
		return f, err
	}
	f.From, f.To = from, to
	return f, nil
}
