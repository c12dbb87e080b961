package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code      string          `json:"code" validate:"required,min=1,max=64"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	ShortName string          `json:"short_name" validate:"max=80"`
	Category  string          `json:"category" validate:"max=100"`
	SellPrice decimal.Decimal `json:"sell_price" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin precio de compra ni stock).
type UpdateProductRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ShortName *string          `json:"short_name" validate:"omitempty,max=80"`
	Category  *string          `json:"category" validate:"omitempty,max=100"`
	SellPrice *decimal.Decimal `json:"sell_price" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto. AvgPurchasePrice se omite si el rol no puede verlo.
type ProductResponse struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	ShortName        string           `json:"short_name"`
	Category         string           `json:"category"`
	SellPrice        decimal.Decimal  `json:"sell_price"`
	AvgPurchasePrice *decimal.Decimal `json:"avg_purchase_price,omitempty"`
	Archived         bool             `json:"archived"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewProductResponse mapea el producto aplicando la redacción de precios.
func NewProductResponse(p *entity.Product, showPrices bool) ProductResponse {
	out := ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		ShortName: p.ShortName,
		Category:  p.Category,
		SellPrice: p.SellPrice,
		Archived:  p.Archived,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if showPrices {
		out.AvgPurchasePrice = p.AvgPurchasePrice
	}
	return out
}

// NewProductResponses mapea una lista aplicando la misma redacción.
func NewProductResponses(list []*entity.Product, showPrices bool) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductResponse(p, showPrices))
	}
	return out
}

// PriceTierRequest body para PUT /api/products/:id/price-tiers.
type PriceTierRequest struct {
	MinQty    decimal.Decimal `json:"min_qty" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// PriceTierResponse salida de un escalón de precio.
type PriceTierResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	MinQty    decimal.Decimal `json:"min_qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func NewPriceTierResponse(t *entity.PriceTier) PriceTierResponse {
	return PriceTierResponse{ID: t.ID, ProductID: t.ProductID, MinQty: t.MinQty, UnitPrice: t.UnitPrice}
}

// PriceQuote precio unitario aplicable a una cantidad.
type PriceQuote struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Total     decimal.Decimal  `json:"total"`
	TierMin   *decimal.Decimal `json:"tier_min_qty,omitempty"`
}
