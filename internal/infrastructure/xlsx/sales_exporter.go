// Package xlsx exporta listados a hojas de cálculo con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

var _ sales.Exporter = (*SalesExporter)(nil)

const salesSheet = "Ventas"

var salesHeaders = []any{"Fecha", "Cliente", "Código", "Producto", "Vendedor", "Cantidad", "Precio unitario", "Total", "Notas", "ID"}

// SalesExporter genera el libro de ventas.
type SalesExporter struct{}

func NewSalesExporter() *SalesExporter { return &SalesExporter{} }

// ExportSales una fila por venta más una fila de totales; cantidades y montos como números.
func (e *SalesExporter) ExportSales(_ context.Context, list []*entity.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	_ = f.SetRowStyle(salesSheet, 1, 1, bold)

	for i, s := range list {
		qty, _ := s.Quantity.Float64()
		price, _ := s.UnitPrice.Float64()
		total, _ := s.Total().Float64()
		values := []any{
			s.SaleDate.Format("2006-01-02"), s.ClientName, s.ProductCode, s.ProductName, s.SalespersonName,
			qty, price, total, s.Notes, s.ID,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	if n := len(list); n > 0 {
		last := n + 1
		totalRow := last + 1
		_ = f.SetCellValue(salesSheet, fmt.Sprintf("G%d", totalRow), "TOTAL")
		_ = f.SetCellFormula(salesSheet, fmt.Sprintf("F%d", totalRow), fmt.Sprintf("SUM(F2:F%d)", last))
		_ = f.SetCellFormula(salesSheet, fmt.Sprintf("H%d", totalRow), fmt.Sprintf("SUM(H2:H%d)", last))
		_ = f.SetRowStyle(salesSheet, totalRow, totalRow, bold)
	}
	_ = f.SetColWidth(salesSheet, "B", "E", 24)
	_ = f.SetColWidth(salesSheet, "I", "J", 36)
	_ = f.SetPanes(salesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
