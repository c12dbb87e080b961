package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/inventory"
)

// ReceiveBatchRequest body para POST /api/inventory/batches.
type ReceiveBatchRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	LotNumber     string          `json:"lot_number" validate:"required,max=64"`
	PurchaseDate  Date            `json:"purchase_date" validate:"required"`
	ExpiryDate    *Date           `json:"expiry_date,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gt=0"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	SupplierName  *string         `json:"supplier_name,omitempty" validate:"omitempty,max=200"`
	SupplierRef   *string         `json:"supplier_ref,omitempty" validate:"omitempty,max=100"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments (ADJ con signo o RETURN positivo).
type AdjustmentRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=ADJ RETURN"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note" validate:"max=500"`
}

// BatchResponse salida de un lote. PurchasePrice se omite si el rol no puede verlo.
type BatchResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	LotNumber     string           `json:"lot_number"`
	PurchaseDate  Date             `json:"purchase_date"`
	ExpiryDate    *Date            `json:"expiry_date"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	QtyReceived   decimal.Decimal  `json:"qty_received"`
	SupplierID    *string          `json:"supplier_id"`
	SupplierName  *string          `json:"supplier_name"`
	SupplierRef   *string          `json:"supplier_ref"`
	Voided        bool             `json:"voided"`
	VoidedAt      *time.Time       `json:"voided_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewBatchResponse mapea el lote aplicando la redacción de precios.
func NewBatchResponse(b *entity.Batch, showPrices bool) BatchResponse {
	out := BatchResponse{
		ID:           b.ID,
		ProductID:    b.ProductID,
		LotNumber:    b.LotNumber,
		PurchaseDate: NewDate(b.PurchaseDate),
		ExpiryDate:   DatePtr(b.ExpiryDate),
		QtyReceived:  b.QtyReceived,
		SupplierID:   b.SupplierID,
		SupplierName: b.SupplierName,
		SupplierRef:  b.SupplierRef,
		Voided:       !b.Active(),
		VoidedAt:     b.VoidedAt,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if showPrices {
		p := b.PurchasePrice
		out.PurchasePrice = &p
	}
	return out
}

// NewBatchResponses mapea una lista de lotes.
func NewBatchResponses(list []*entity.Batch, showPrices bool) []BatchResponse {
	out := make([]BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, NewBatchResponse(b, showPrices))
	}
	return out
}

// MovementResponse salida de un asiento del libro.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Signed    decimal.Decimal `json:"signed_quantity"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     string          `json:"ref_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// NewMovementResponse mapea un asiento con su cantidad con signo.
func NewMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Signed:    inventory.SignedQuantity(m.Type, m.Quantity),
		RefType:   m.RefType,
		RefID:     m.RefID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

func NewMovementResponses(list []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementResponse(m))
	}
	return out
}

// StockSummary estado derivado de un producto.
type StockSummary struct {
	ProductID        string           `json:"product_id"`
	OnHand           decimal.Decimal  `json:"on_hand"`
	AvgPurchasePrice *decimal.Decimal `json:"avg_purchase_price,omitempty"`
	ActiveBatches    int              `json:"active_batches"`
}

// Redact quita el precio de compra si el rol no puede verlo.
func (s StockSummary) Redact(showPrices bool) StockSummary {
	if !showPrices {
		s.AvgPurchasePrice = nil
	}
	return s
}
