// Package inventory contiene la lógica pura del motor de costeo: stock derivado del libro
// de movimientos y precio de compra promedio ponderado de los lotes activos.
package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// PriceScale decimales con que se persisten precios de compra (NUMERIC(14,3)).
const PriceScale = 3

// QuantityScale decimales de cantidades en lotes, ventas y movimientos (NUMERIC(14,3)).
const QuantityScale = 3

// FitsScale indica si d se guarda sin redondeo con scale decimales.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// SignedQuantity aporte de un movimiento al stock: OUT resta su cantidad (guardada positiva),
// IN/RETURN/ADJ suman la cantidad tal como está guardada (ADJ puede ser negativa).
func SignedQuantity(movementType string, qty decimal.Decimal) decimal.Decimal {
	if movementType == entity.MovementTypeOUT {
		return qty.Neg()
	}
	return qty
}

// OnHand suma con signo los movimientos de un producto. Sin movimientos devuelve 0.
func OnHand(movements []*entity.InventoryMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(SignedQuantity(m.Type, m.Quantity))
	}
	return total
}

// WeightedPrice precio promedio ponderado al fusionar una recepción en un lote existente.
// NuevoPrecio = ((CantActual * PrecioActual) + (CantEntrada * PrecioEntrada)) / (CantActual + CantEntrada)
func WeightedPrice(oldQty, oldPrice, newQty, newPrice decimal.Decimal) decimal.Decimal {
	sum := oldQty.Add(newQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := oldQty.Mul(oldPrice).Add(newQty.Mul(newPrice))
	return num.Div(sum).Round(PriceScale)
}

// AveragePrice Σ(qty·price) / Σ(qty) sobre lotes activos; nil (NULL) si Σ(qty) es 0.
func AveragePrice(totalQty, totalValue decimal.Decimal) *decimal.Decimal {
	if totalQty.IsZero() {
		return nil
	}
	avg := totalValue.Div(totalQty).Round(PriceScale)
	return &avg
}

// ActiveTotals devuelve Σ(qty) y Σ(qty·price) de los lotes no anulados.
func ActiveTotals(batches []*entity.Batch) (qty, value decimal.Decimal) {
	qty, value = decimal.Zero, decimal.Zero
	for _, b := range batches {
		if !b.Active() {
			continue
		}
		qty = qty.Add(b.QtyReceived)
		value = value.Add(b.QtyReceived.Mul(b.PurchasePrice))
	}
	return qty, value
}

// DatePolicy decide qué fecha de compra conserva un lote al fusionar recepciones.
type DatePolicy string

const (
	DatePolicyEarliest DatePolicy = "earliest"
	DatePolicyLatest   DatePolicy = "latest"
)

// ParseDatePolicy convierte el valor de configuración.
func ParseDatePolicy(s string) (DatePolicy, error) {
	switch DatePolicy(s) {
	case DatePolicyEarliest, DatePolicyLatest:
		return DatePolicy(s), nil
	case "":
		return DatePolicyEarliest, nil
	}
	return "", fmt.Errorf("inventory: política de fecha desconocida %q", s)
}

// Pick elige entre la fecha existente y la entrante según la política.
func (p DatePolicy) Pick(existing, incoming time.Time) time.Time {
	if p == DatePolicyLatest {
		if incoming.After(existing) {
			return incoming
		}
		return existing
	}
	if incoming.Before(existing) {
		return incoming
	}
	return existing
}

// MergeBatch fusiona una recepción entrante en el lote activo existente:
// suma cantidades, pondera el precio, aplica la política de fecha y completa
// vencimiento y proveedor solo si estaban vacíos (primera escritura gana).
func MergeBatch(existing, incoming *entity.Batch, policy DatePolicy) *entity.Batch {
	merged := *existing
	merged.PurchasePrice = WeightedPrice(existing.QtyReceived, existing.PurchasePrice, incoming.QtyReceived, incoming.PurchasePrice)
	merged.QtyReceived = existing.QtyReceived.Add(incoming.QtyReceived)
	merged.PurchaseDate = policy.Pick(existing.PurchaseDate, incoming.PurchaseDate)
	if merged.ExpiryDate == nil {
		merged.ExpiryDate = incoming.ExpiryDate
	}
	if merged.SupplierID == nil {
		merged.SupplierID = incoming.SupplierID
	}
	if merged.SupplierName == nil {
		merged.SupplierName = incoming.SupplierName
	}
	if merged.SupplierRef == nil {
		merged.SupplierRef = incoming.SupplierRef
	}
	merged.UpdatedAt = incoming.UpdatedAt
	return &merged
}
