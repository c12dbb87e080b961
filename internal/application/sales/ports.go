package sales

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, client *entity.Client, product *entity.Product) ([]byte, error)
}

// Exporter genera una hoja de cálculo con un listado de ventas.
type Exporter interface {
	ExportSales(ctx context.Context, sales []*entity.Sale) ([]byte, error)
}
