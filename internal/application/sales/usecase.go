// Package sales registra y anula ventas manteniendo el libro de inventario.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	domaininv "github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// maxExportRows tope de filas por exportación.
const maxExportRows = 5000

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner     inventory.TxRunner
	sales        repository.SaleRepository
	clients      repository.ClientRepository
	products     repository.ProductRepository
	salespersons repository.SalespersonRepository
	validator    *validation.Validator
	receipts     ReceiptGenerator
	exporter     Exporter
	now          func() time.Time
}

// NewUseCase construye el caso de uso. receipts y exporter pueden ser nil (funcionalidad deshabilitada).
func NewUseCase(
	txRunner inventory.TxRunner,
	sales repository.SaleRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	salespersons repository.SalespersonRepository,
	validator *validation.Validator,
	receipts ReceiptGenerator,
	exporter Exporter,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		sales:        sales,
		clients:      clients,
		products:     products,
		salespersons: salespersons,
		validator:    validator,
		receipts:     receipts,
		exporter:     exporter,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// RecordSale registra la venta y su salida (OUT) en una sola transacción.
// El stock derivado del libro debe cubrir la cantidad; si no, ErrInsufficientStock.
func (uc *UseCase) RecordSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if fields := uc.validator.Struct(in); fields != nil {
		return nil, domain.NewValidationError(fields)
	}
	if !domaininv.FitsScale(in.Quantity, domaininv.QuantityScale) {
		return nil, domain.Invalid("quantity", "admite máximo 3 decimales")
	}

	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("cliente %s: %w", in.ClientID, domain.ErrNotFound)
	}
	var salespersonID *string
	if in.SalespersonID != nil && strings.TrimSpace(*in.SalespersonID) != "" {
		sp, err := uc.salespersons.GetByID(ctx, *in.SalespersonID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, fmt.Errorf("vendedor %s: %w", *in.SalespersonID, domain.ErrNotFound)
		}
		if !sp.Active {
			return nil, domain.Invalid("salesperson_id", "vendedor inactivo")
		}
		salespersonID = &sp.ID
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ClientID:      client.ID,
		ProductID:     in.ProductID,
		SalespersonID: salespersonID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice.Round(domaininv.PriceScale),
		SaleDate:      in.SaleDate.Time,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		CreatedBy:     userID,
		ClientName:    client.Name,
	}

	err = uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		product, err := inventory.LockProduct(ctx, r, in.ProductID)
		if err != nil {
			return err
		}
		if product.Archived {
			return fmt.Errorf("producto archivado: %w", domain.ErrConflict)
		}
		sale.ProductCode = product.Code
		sale.ProductName = product.Name
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		_, err = inventory.ConsumeInTx(ctx, r, product.ID, sale.Quantity, entity.MovementRefSale, sale.ID, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// VoidSale borra la venta y devuelve la cantidad al stock con un ADJ positivo, atómicamente.
func (uc *UseCase) VoidSale(ctx context.Context, userID, saleID string) (*entity.Sale, error) {
	existing, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	var deleted *entity.Sale
	err = uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		if _, err := inventory.LockProduct(ctx, r, existing.ProductID); err != nil {
			return err
		}
		s, err := r.Sales.DeleteReturning(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		note := fmt.Sprintf("anulación venta %s", s.ID)
		if _, err := inventory.RestockInTx(ctx, r, s.ProductID, s.Quantity, entity.MovementRefSale, s.ID, note, userID, uc.now()); err != nil {
			return err
		}
		deleted = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// GetByID obtiene una venta.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List lista ventas con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.Invalid("to", "debe ser posterior a from")
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	return uc.sales.List(ctx, f)
}

// Receipt genera el comprobante PDF de una venta. Devuelve bytes y nombre de archivo.
func (uc *UseCase) Receipt(ctx context.Context, saleID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("comprobantes deshabilitados: %w", domain.ErrDependency)
	}
	sale, err := uc.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	client, err := uc.clients.GetByID(ctx, sale.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: sale.ClientID, Name: sale.ClientName}
	}
	product, err := uc.products.GetByID(ctx, sale.ProductID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener producto: %w", err)
	}
	if product == nil {
		product = &entity.Product{ID: sale.ProductID, Code: sale.ProductCode, Name: sale.ProductName}
	}
	pdf, err := uc.receipts.GenerateSaleReceipt(ctx, sale, client, product)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", shortID(sale.ID)), nil
}

// ExportXLSX exporta las ventas del filtro (hasta maxExportRows) a Excel.
func (uc *UseCase) ExportXLSX(ctx context.Context, f repository.SaleFilter) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación deshabilitada: %w", domain.ErrDependency)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, "", domain.Invalid("to", "debe ser posterior a from")
	}
	f.Limit, f.Offset = maxExportRows, 0
	list, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportSales(ctx, list)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("ventas-%s.xlsx", uc.now().Format("20060102")), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
