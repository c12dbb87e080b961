package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/dto"
	appinventory "github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/internal/testutil/memrepo"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	userID      = "00000000-0000-0000-0000-000000000001"
	productID   = "10000000-0000-0000-0000-000000000001"
	clientID    = "20000000-0000-0000-0000-000000000001"
	sellerID    = "30000000-0000-0000-0000-000000000001"
	inactiveID  = "30000000-0000-0000-0000-000000000002"
	fixedLayout = "2006-01-02"
)

type fakeReceipts struct {
	sale *entity.Sale
}

func (f *fakeReceipts) GenerateSaleReceipt(_ context.Context, sale *entity.Sale, _ *entity.Client, _ *entity.Product) ([]byte, error) {
	f.sale = sale
	return []byte("%PDF-1.4"), nil
}

type fakeExporter struct {
	rows int
}

func (f *fakeExporter) ExportSales(_ context.Context, list []*entity.Sale) ([]byte, error) {
	f.rows = len(list)
	return []byte("xlsx"), nil
}

type fixture struct {
	store    *memrepo.Store
	stock    *appinventory.UseCase
	sales    *sales.UseCase
	receipts *fakeReceipts
	exporter *fakeExporter
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) dto.Date {
	t, _ := time.Parse(fixedLayout, s)
	return dto.Date{Time: t}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memrepo.New()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: productID, Code: "P-1", Name: "Suero", SellPrice: d("10")}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: clientID, Name: "Clínica Norte"}))
	require.NoError(t, store.Salespersons().Create(ctx, &entity.Salesperson{ID: sellerID, Name: "Ana", Active: true}))
	require.NoError(t, store.Salespersons().Create(ctx, &entity.Salesperson{ID: inactiveID, Name: "Luis", Active: false}))

	v := validation.New("CO")
	stock := appinventory.NewUseCase(store.TxRunner(), store.Products(), store.Batches(), store.Movements(),
		store.Suppliers(), v, inventory.DatePolicyEarliest).WithClock(clock)
	receipts := &fakeReceipts{}
	exporter := &fakeExporter{}
	uc := sales.NewUseCase(store.TxRunner(), store.Sales(), store.Clients(), store.Products(),
		store.Salespersons(), v, receipts, exporter).WithClock(clock)
	return &fixture{store: store, stock: stock, sales: uc, receipts: receipts, exporter: exporter}
}

func (f *fixture) receive(t *testing.T, qty string) {
	t.Helper()
	_, err := f.stock.ReceiveBatch(context.Background(), userID, dto.ReceiveBatchRequest{
		ProductID: productID, LotNumber: "L1", PurchaseDate: date("2024-05-01"),
		PurchasePrice: d("1.500"), Quantity: d(qty),
	})
	require.NoError(t, err)
}

func (f *fixture) onHand(t *testing.T) decimal.Decimal {
	t.Helper()
	q, err := f.stock.OnHand(context.Background(), productID)
	require.NoError(t, err)
	return q
}

func saleReq(qty string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		ClientID: clientID, ProductID: productID, Quantity: d(qty),
		UnitPrice: d("12.50"), SaleDate: date("2024-06-01"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Escenario completo: 0 → IN 100 @ 1.500 → venta 30 → 70 → anular → 100.
func TestSales_EscenarioLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, f.onHand(t).IsZero())
	f.receive(t, "100")
	assert.True(t, f.onHand(t).Equal(d("100")))
	p, _ := f.store.Products().GetByID(ctx, productID)
	require.NotNil(t, p.AvgPurchasePrice)
	assert.True(t, p.AvgPurchasePrice.Equal(d("1.5")))

	sale, err := f.sales.RecordSale(ctx, userID, saleReq("30"))
	require.NoError(t, err)
	assert.True(t, f.onHand(t).Equal(d("70")))
	assert.Equal(t, "Clínica Norte", sale.ClientName)
	assert.Equal(t, "Suero", sale.ProductName)
	assert.True(t, sale.Total().Equal(d("375")))

	voided, err := f.sales.VoidSale(ctx, userID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, voided.ID)
	assert.True(t, f.onHand(t).Equal(d("100")))

	_, err = f.sales.GetByID(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	movs, _ := f.store.Movements().ListByProduct(ctx, productID, nil, nil, 10, 0)
	require.Len(t, movs, 3, "IN + OUT + ADJ: el libro conserva la historia")
	assert.Equal(t, entity.MovementTypeADJ, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("30")))
	assert.Equal(t, entity.MovementTypeOUT, movs[1].Type)
}

func TestRecordSale_StockInsuficienteNoMuta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "5")

	_, err := f.sales.RecordSale(ctx, userID, saleReq("6"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, _ := f.sales.List(ctx, repository.SaleFilter{})
	assert.Empty(t, list, "la venta no debe persistir")
	assert.True(t, f.onHand(t).Equal(d("5")))
}

func TestRecordSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "50")

	bad := saleReq("0")
	_, err := f.sales.RecordSale(ctx, userID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := saleReq("1")
	neg.UnitPrice = d("-1")
	_, err = f.sales.RecordSale(ctx, userID, neg)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "unit_price")

	fraction := saleReq("0.0004")
	_, err = f.sales.RecordSale(ctx, userID, fraction)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "quantity")

	noClient := saleReq("1")
	noClient.ClientID = "otro"
	_, err = f.sales.RecordSale(ctx, userID, noClient)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	noProduct := saleReq("1")
	noProduct.ProductID = "otro"
	_, err = f.sales.RecordSale(ctx, userID, noProduct)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inactive := saleReq("1")
	id := inactiveID
	inactive.SalespersonID = &id
	_, err = f.sales.RecordSale(ctx, userID, inactive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.True(t, f.onHand(t).Equal(d("50")))
}

func TestRecordSale_PrecioUnitarioATresDecimales(t *testing.T) {
	f := newFixture(t)
	f.receive(t, "10")

	in := saleReq("1")
	in.UnitPrice = d("9.9996")
	sale, err := f.sales.RecordSale(context.Background(), userID, in)
	require.NoError(t, err)
	assert.Equal(t, "10.000", sale.UnitPrice.StringFixed(3))
}

func TestRecordSale_ConVendedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "10")

	in := saleReq("2")
	id := sellerID
	in.SalespersonID = &id
	sale, err := f.sales.RecordSale(ctx, userID, in)
	require.NoError(t, err)
	require.NotNil(t, sale.SalespersonID)

	n, _ := f.store.Sales().CountBySalesperson(ctx, sellerID)
	assert.Equal(t, 1, n)
}

func TestRecordSale_ProductoArchivado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "10")
	require.NoError(t, f.store.Products().SetArchived(ctx, productID, true))

	_, err := f.sales.RecordSale(ctx, userID, saleReq("1"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVoidSale_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.VoidSale(context.Background(), userID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoidSale_FallaDelLibroConservaLaVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "10")
	sale, err := f.sales.RecordSale(ctx, userID, saleReq("4"))
	require.NoError(t, err)

	f.store.FailMovementCreate = errors.New("db caída")
	_, err = f.sales.VoidSale(ctx, userID, sale.ID)
	require.Error(t, err)
	f.store.FailMovementCreate = nil

	got, err := f.sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.True(t, f.onHand(t).Equal(d("6")))
}

func TestReceiptYExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.receive(t, "10")
	sale, err := f.sales.RecordSale(ctx, userID, saleReq("1"))
	require.NoError(t, err)
	_, err = f.sales.RecordSale(ctx, userID, saleReq("2"))
	require.NoError(t, err)

	pdf, name, err := f.sales.Receipt(ctx, sale.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "venta-"+sale.ID[:8]+".pdf", name)
	assert.Equal(t, sale.ID, f.receipts.sale.ID)

	data, name, err := f.sales.ExportXLSX(ctx, repository.SaleFilter{ProductID: productID})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "ventas-20240601.xlsx", name)
	assert.Equal(t, 2, f.exporter.rows)
}
