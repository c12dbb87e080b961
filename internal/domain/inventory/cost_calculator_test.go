package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mov(typ, qty string) *entity.InventoryMovement {
	return &entity.InventoryMovement{Type: typ, Quantity: d(qty)}
}

func TestOnHand_SinMovimientosEsCero(t *testing.T) {
	assert.True(t, inventory.OnHand(nil).IsZero())
}

func TestOnHand_SumaConSigno(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov(entity.MovementTypeIN, "100"),
		mov(entity.MovementTypeOUT, "30"),
		mov(entity.MovementTypeADJ, "-5"),
		mov(entity.MovementTypeRETURN, "2"),
		mov(entity.MovementTypeADJ, "3"),
	}
	assert.True(t, d("70").Equal(inventory.OnHand(movs)), "100-30-5+2+3")
}

func TestOnHand_INSeguidoDeOUTVuelveAlValorPrevio(t *testing.T) {
	base := []*entity.InventoryMovement{mov(entity.MovementTypeIN, "12.5")}
	before := inventory.OnHand(base)

	after := inventory.OnHand(append(base,
		mov(entity.MovementTypeIN, "7"),
		mov(entity.MovementTypeOUT, "7"),
	))
	assert.True(t, before.Equal(after))
}

func TestWeightedPrice_EjemploDeFusion(t *testing.T) {
	// Lote A: 10 @ 2.000, lote B: 5 @ 5.000 => (20 + 25) / 15 = 3.000
	got := inventory.WeightedPrice(d("10"), d("2.000"), d("5"), d("5.000"))
	assert.True(t, d("3").Equal(got), "got %s", got)
}

func TestWeightedPrice_RedondeaAEscalaDePrecio(t *testing.T) {
	got := inventory.WeightedPrice(d("1"), d("1"), d("2"), d("2"))
	assert.Equal(t, "1.667", got.StringFixed(inventory.PriceScale))
}

func TestAveragePrice_NilSinCantidad(t *testing.T) {
	assert.Nil(t, inventory.AveragePrice(decimal.Zero, decimal.Zero))

	avg := inventory.AveragePrice(d("100"), d("150"))
	require.NotNil(t, avg)
	assert.True(t, d("1.5").Equal(*avg))
}

func TestActiveTotals_IgnoraAnulados(t *testing.T) {
	now := time.Now()
	batches := []*entity.Batch{
		{QtyReceived: d("10"), PurchasePrice: d("2")},
		{QtyReceived: d("5"), PurchasePrice: d("5")},
		{QtyReceived: d("1000"), PurchasePrice: d("99"), VoidedAt: &now},
	}
	qty, value := inventory.ActiveTotals(batches)
	assert.True(t, d("15").Equal(qty))
	assert.True(t, d("45").Equal(value))
	avg := inventory.AveragePrice(qty, value)
	require.NotNil(t, avg)
	assert.True(t, d("3").Equal(*avg))

	for _, b := range batches {
		b.VoidedAt = &now
	}
	assert.Nil(t, inventory.AveragePrice(inventory.ActiveTotals(batches)), "sin lotes activos el promedio es NULL")
}

func TestFitsScale(t *testing.T) {
	assert.True(t, inventory.FitsScale(d("12.345"), inventory.QuantityScale))
	assert.True(t, inventory.FitsScale(d("1.5000"), inventory.QuantityScale))
	assert.True(t, inventory.FitsScale(d("-3"), inventory.QuantityScale))
	assert.False(t, inventory.FitsScale(d("0.0004"), inventory.QuantityScale))
	assert.False(t, inventory.FitsScale(d("-1.2345"), inventory.QuantityScale))
}

func TestDatePolicy_Pick(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, jan, inventory.DatePolicyEarliest.Pick(feb, jan))
	assert.Equal(t, jan, inventory.DatePolicyEarliest.Pick(jan, feb))
	assert.Equal(t, feb, inventory.DatePolicyLatest.Pick(jan, feb))
	assert.Equal(t, feb, inventory.DatePolicyLatest.Pick(feb, jan))
}

func TestParseDatePolicy(t *testing.T) {
	p, err := inventory.ParseDatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.DatePolicyEarliest, p)

	_, err = inventory.ParseDatePolicy("middle")
	assert.Error(t, err)
}

func TestMergeBatch_PrimeraEscrituraGanaEnVencimientoYProveedor(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	exp1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	exp2 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	supplier := "Droguería Central"

	existing := &entity.Batch{ID: "b1", LotNumber: "L1", QtyReceived: d("10"), PurchasePrice: d("2"), PurchaseDate: feb}
	incoming := &entity.Batch{LotNumber: "L1", QtyReceived: d("5"), PurchasePrice: d("5"), PurchaseDate: jan, ExpiryDate: &exp1, SupplierName: &supplier}

	merged := inventory.MergeBatch(existing, incoming, inventory.DatePolicyEarliest)
	assert.Equal(t, "b1", merged.ID)
	assert.True(t, d("15").Equal(merged.QtyReceived))
	assert.True(t, d("3").Equal(merged.PurchasePrice))
	assert.Equal(t, jan, merged.PurchaseDate)
	require.NotNil(t, merged.ExpiryDate)
	assert.Equal(t, exp1, *merged.ExpiryDate)
	assert.Equal(t, &supplier, merged.SupplierName)

	again := inventory.MergeBatch(merged, &entity.Batch{QtyReceived: d("1"), PurchasePrice: d("3"), PurchaseDate: feb, ExpiryDate: &exp2}, inventory.DatePolicyEarliest)
	assert.Equal(t, exp1, *again.ExpiryDate, "el vencimiento ya definido no se sobrescribe")
	assert.True(t, d("10").Equal(existing.QtyReceived), "MergeBatch no muta el lote original")
}
