// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Negocio + NIT   │  N° Venta + Fecha   │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + contacto           │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cant | P.Unit | Total│
//	│  ───────────────────────────────────────────  │
//	│  TOTAL + Vendedor + Notas                      │
//	│  FOOTER: QR con el id de la venta              │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Issuer datos del negocio impresos en el encabezado.
type Issuer struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
}

// MarotoReceiptGenerator implementa sales.ReceiptGenerator con Maroto v2.
type MarotoReceiptGenerator struct {
	issuer Issuer
}

func NewMarotoReceiptGenerator(issuer Issuer) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{issuer: issuer}
}

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(
	_ context.Context,
	sale *entity.Sale,
	client *entity.Client,
	product *entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(nonEmpty(g.issuer.Name, "CRM"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(sale, product))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale))
	for _, r := range notesRows(sale) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(qrRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptGenerator) headerRow(sale *entity.Sale) core.Row {
	left := col.New(7).Add(
		text.New(nonEmpty(g.issuer.Name, "CRM"), props.Text{
			Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
		}),
	)
	if g.issuer.TaxID != "" {
		left.Add(text.New("NIT: "+g.issuer.TaxID, props.Text{Size: 8, Top: 8, Color: colorGray}))
	}
	if contact := joinNonEmpty("   |   ", g.issuer.Address, g.issuer.Phone); contact != "" {
		left.Add(text.New(contact, props.Text{Size: 7, Top: 12, Color: colorGray}))
	}
	return row.New(18).Add(
		left,
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+sale.SaleDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func clientRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(client.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(client.TaxID, "—"),
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 7, Top: 10, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 2, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func detailRow(sale *entity.Sale, product *entity.Product) core.Row {
	name := product.Name
	if product.ShortName != "" {
		name = product.ShortName
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(product.Code, 2, align.Left),
		cell(name, 4, align.Left),
		cell(formatQty(sale.Quantity), 2, align.Center),
		cell("$"+formatMoney(sale.UnitPrice), 2, align.Right),
		cell("$"+formatMoney(sale.Total()), 2, align.Right),
	)
}

func totalRow(sale *entity.Sale) core.Row {
	return row.New(9).Add(
		col.New(6).Add(text.New(
			"Vendedor: "+nonEmpty(sale.SalespersonName, "—"),
			props.Text{Size: 7, Top: 2, Color: colorGray},
		)),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1, Right: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(sale.Total()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		})),
	)
}

func notesRows(sale *entity.Sale) []core.Row {
	if strings.TrimSpace(sale.Notes) == "" {
		return nil
	}
	return []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+sale.Notes, props.Text{Size: 7, Top: 2, Color: colorGray}),
		)),
	}
}

func qrRow(sale *entity.Sale) core.Row {
	return row.New(28).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Conserve este comprobante.", props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
			text.New("Referencia: "+sale.ID, props.Text{Size: 6.5, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatQty cantidad sin ceros decimales sobrantes: 2.500 -> "2.5".
func formatQty(d decimal.Decimal) string {
	return d.String()
}

// formatMoney redondea a pesos e inserta puntos de miles: 1000000 -> "1.000.000".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
