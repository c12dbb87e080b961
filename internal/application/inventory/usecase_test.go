package inventory_test

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
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
	"github.com/jhoicas/crm-api/internal/testutil/memrepo"
	"github.com/jhoicas/crm-api/pkg/validation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testProductID = "10000000-0000-0000-0000-000000000001"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) dto.Date {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return dto.Date{Time: t}
}

func newEngine(t *testing.T, policy inventory.DatePolicy) (*appinventory.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: testProductID, Code: "P-001", Name: "Crema hidratante", SellPrice: d("25"),
		CreatedAt: now, UpdatedAt: now,
	}))
	uc := appinventory.NewUseCase(
		store.TxRunner(), store.Products(), store.Batches(), store.Movements(), store.Suppliers(),
		validation.New("CO"), policy,
	).WithClock(func() time.Time { return now })
	return uc, store
}

func receive(lot, date, price, qty string) dto.ReceiveBatchRequest {
	return dto.ReceiveBatchRequest{
		ProductID:     testProductID,
		LotNumber:     lot,
		PurchaseDate:  day(date),
		PurchasePrice: d(price),
		Quantity:      d(qty),
	}
}

func avgOf(t *testing.T, store *memrepo.Store) *decimal.Decimal {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), testProductID)
	require.NoError(t, err)
	return p.AvgPurchasePrice
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveBatch_SinMovimientosStockCero(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)

	onHand, err := uc.OnHand(context.Background(), testProductID)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())
}

func TestReceiveBatch_CreaLoteMovimientoYPromedio(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	res, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-01", "1.500", "100"))
	require.NoError(t, err)
	assert.False(t, res.Merged)
	assert.Equal(t, entity.MovementTypeIN, res.Movement.Type)
	assert.Equal(t, res.Batch.ID, res.Movement.RefID)

	onHand, err := uc.OnHand(ctx, testProductID)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(d("100")))
	require.NotNil(t, avgOf(t, store))
	assert.True(t, avgOf(t, store).Equal(d("1.5")))
}

func TestReceiveBatch_MismoLoteSeFusiona(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	first, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-03", "2.000", "10"))
	require.NoError(t, err)
	second, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-01", "5.000", "5"))
	require.NoError(t, err)

	assert.True(t, second.Merged)
	assert.Equal(t, first.Batch.ID, second.Batch.ID)

	active, err := store.Batches().ListByProduct(ctx, testProductID, false)
	require.NoError(t, err)
	require.Len(t, active, 1, "nunca dos lotes activos para el mismo (producto, lote)")
	assert.True(t, active[0].QtyReceived.Equal(d("15")))
	assert.True(t, active[0].PurchasePrice.Equal(d("3")))
	assert.Equal(t, "2024-05-01", active[0].PurchaseDate.Format(dto.DateLayout))

	onHand, _ := uc.OnHand(ctx, testProductID)
	assert.True(t, onHand.Equal(d("15")))
	assert.True(t, avgOf(t, store).Equal(d("3")))
}

func TestReceiveBatch_PoliticaLatestConservaFechaMasReciente(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyLatest)
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-01", "2", "10"))
	require.NoError(t, err)
	_, err = uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-07", "2", "10"))
	require.NoError(t, err)

	active, _ := store.Batches().ListByProduct(ctx, testProductID, false)
	require.Len(t, active, 1)
	assert.Equal(t, "2024-05-07", active[0].PurchaseDate.Format(dto.DateLayout))
}

func TestReceiveBatch_VencimientoPrimeraEscrituraGana(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	first := receive("L1", "2024-05-01", "2", "10")
	exp1 := day("2025-01-31")
	first.ExpiryDate = &exp1
	_, err := uc.ReceiveBatch(ctx, testUserID, first)
	require.NoError(t, err)

	second := receive("L1", "2024-05-02", "2", "10")
	exp2 := day("2026-01-31")
	second.ExpiryDate = &exp2
	_, err = uc.ReceiveBatch(ctx, testUserID, second)
	require.NoError(t, err)

	active, _ := store.Batches().ListByProduct(ctx, testProductID, false)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].ExpiryDate)
	assert.Equal(t, "2025-01-31", active[0].ExpiryDate.Format(dto.DateLayout))
}

func TestReceiveBatch_EntradaInvalidaNoEscribe(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	cases := map[string]dto.ReceiveBatchRequest{
		"precio cero":               receive("L1", "2024-05-01", "0", "10"),
		"cantidad cero":             receive("L1", "2024-05-01", "2", "0"),
		"lote vacío":                receive("   ", "2024-05-01", "2", "10"),
		"sin fecha":                 {ProductID: testProductID, LotNumber: "L1", PurchasePrice: d("2"), Quantity: d("1")},
		"sin producto":              {LotNumber: "L1", PurchaseDate: day("2024-05-01"), PurchasePrice: d("2"), Quantity: d("1")},
		"cantidad negat":            receive("L1", "2024-05-01", "2", "-3"),
		"precio se redondea a cero": receive("L1", "2024-05-01", "0.0004", "10"),
		"cantidad con 4 decimales":  receive("L1", "2024-05-01", "2", "0.0004"),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.ReceiveBatch(ctx, testUserID, in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}

	n, _ := store.Movements().CountByProduct(ctx, testProductID)
	assert.Zero(t, n)
	batches, _ := store.Batches().ListByProduct(ctx, testProductID, true)
	assert.Empty(t, batches)
}

func TestReceiveBatch_ProductoInexistente(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)
	in := receive("L1", "2024-05-01", "2", "10")
	in.ProductID = "no-existe"

	_, err := uc.ReceiveBatch(context.Background(), testUserID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveBatch_ProductoArchivadoEsConflicto(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()
	require.NoError(t, store.Products().SetArchived(ctx, testProductID, true))

	_, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-01", "2", "10"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceiveBatch_FallaDelLibroRevierteTodo(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()
	store.FailMovementCreate = errors.New("db caída")

	_, err := uc.ReceiveBatch(ctx, testUserID, receive("L1", "2024-05-01", "2", "10"))
	require.Error(t, err)

	batches, _ := store.Batches().ListByProduct(ctx, testProductID, true)
	assert.Empty(t, batches, "sin movimiento no puede quedar lote")
	assert.Nil(t, avgOf(t, store))
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidBatch_AsientaAjusteYRecalcula(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	a, err := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	require.NoError(t, err)
	_, err = uc.ReceiveBatch(ctx, testUserID, receive("B", "2024-05-01", "5", "5"))
	require.NoError(t, err)
	assert.True(t, avgOf(t, store).Equal(d("3")))

	before, _ := store.Movements().CountByProduct(ctx, testProductID)
	voided, err := uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	require.NoError(t, err)
	assert.False(t, voided.Active())

	after, _ := store.Movements().CountByProduct(ctx, testProductID)
	assert.Equal(t, before+1, after, "exactamente un movimiento compensatorio")

	movs, _ := store.Movements().ListByProduct(ctx, testProductID, nil, nil, 1, 0)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeADJ, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("-10")))

	active, _ := store.Batches().ListByProduct(ctx, testProductID, false)
	assert.Len(t, active, 1)
	onHand, _ := uc.OnHand(ctx, testProductID)
	assert.True(t, onHand.Equal(d("5")))
	assert.True(t, avgOf(t, store).Equal(d("5")))
}

func TestVoidBatch_YaAnuladoSeRechaza(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	a, err := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	require.NoError(t, err)
	_, err = uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	require.NoError(t, err)

	_, err = uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoided)
}

func TestVoidBatch_StockInsuficienteNoMuta(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	a, err := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	require.NoError(t, err)
	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{
		ProductID: testProductID, Type: entity.MovementTypeADJ, Quantity: d("-4"), Note: "merma",
	})
	require.NoError(t, err)

	movsBefore, _ := store.Movements().CountByProduct(ctx, testProductID)
	_, err = uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	movsAfter, _ := store.Movements().CountByProduct(ctx, testProductID)
	assert.Equal(t, movsBefore, movsAfter)
	b, _ := store.Batches().GetByID(ctx, a.Batch.ID)
	assert.True(t, b.Active())
	onHand, _ := uc.OnHand(ctx, testProductID)
	assert.True(t, onHand.Equal(d("6")))
}

func TestVoidBatch_TodosAnuladosPromedioNulo(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	a, _ := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	b, _ := uc.ReceiveBatch(ctx, testUserID, receive("B", "2024-05-02", "4", "10"))
	_, err := uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	require.NoError(t, err)
	_, err = uc.VoidBatch(ctx, testUserID, b.Batch.ID)
	require.NoError(t, err)

	assert.Nil(t, avgOf(t, store))
	onHand, _ := uc.OnHand(ctx, testProductID)
	assert.True(t, onHand.IsZero())
}

func TestVoidBatch_Inexistente(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)
	_, err := uc.VoidBatch(context.Background(), testUserID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoidBatch_DespuesSePuedeRecibirElMismoLote(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()

	a, _ := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	_, err := uc.VoidBatch(ctx, testUserID, a.Batch.ID)
	require.NoError(t, err)

	res, err := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-03", "3", "4"))
	require.NoError(t, err)
	assert.False(t, res.Merged)
	assert.NotEqual(t, a.Batch.ID, res.Batch.ID)

	all, _ := store.Batches().ListByProduct(ctx, testProductID, true)
	assert.Len(t, all, 2)
	assert.True(t, avgOf(t, store).Equal(d("3")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes manuales y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterAdjustment_Reglas(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()
	_, err := uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	require.NoError(t, err)

	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "ADJ", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "RETURN", Quantity: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "ADJ", Quantity: d("0.0004")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "OUT", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "ADJ", Quantity: d("-11")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	mov, err := uc.RegisterAdjustment(ctx, testUserID, dto.AdjustmentRequest{ProductID: testProductID, Type: "RETURN", Quantity: d("2"), Note: " devolución "})
	require.NoError(t, err)
	assert.Equal(t, "devolución", mov.Note)
	assert.Equal(t, entity.MovementRefManual, mov.RefType)

	onHand, _ := uc.OnHand(ctx, testProductID)
	assert.True(t, onHand.Equal(d("12")))
	n, _ := store.Movements().CountByProduct(ctx, testProductID)
	assert.Equal(t, 2, n, "solo la recepción y la devolución quedan en el libro")
}

func TestStockSummary(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()
	_, _ = uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "2", "10"))
	_, _ = uc.ReceiveBatch(ctx, testUserID, receive("B", "2024-05-01", "5", "5"))

	s, err := uc.StockSummary(ctx, testProductID)
	require.NoError(t, err)
	assert.True(t, s.OnHand.Equal(d("15")))
	assert.Equal(t, 2, s.ActiveBatches)
	require.NotNil(t, s.AvgPurchasePrice)
	assert.True(t, s.AvgPurchasePrice.Equal(d("3")))

	assert.Nil(t, s.Redact(false).AvgPurchasePrice)
}

func TestListMovements_RangoInvalido(t *testing.T) {
	uc, _ := newEngine(t, inventory.DatePolicyEarliest)
	from := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	_, err := uc.ListMovements(context.Background(), testProductID, &from, &to, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecomputeAveragePurchasePrice(t *testing.T) {
	uc, store := newEngine(t, inventory.DatePolicyEarliest)
	ctx := context.Background()
	_, _ = uc.ReceiveBatch(ctx, testUserID, receive("A", "2024-05-01", "1", "2"))
	_, _ = uc.ReceiveBatch(ctx, testUserID, receive("B", "2024-05-01", "2", "1"))
	require.NoError(t, store.Products().UpdateAvgPurchasePrice(ctx, testProductID, nil))

	avg, err := uc.RecomputeAveragePurchasePrice(ctx, testProductID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, "1.333", avg.StringFixed(3))
	assert.True(t, avgOf(t, store).Equal(*avg))
}
