package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID      string          `json:"client_id" validate:"required"`
	ProductID     string          `json:"product_id" validate:"required"`
	SalespersonID *string         `json:"salesperson_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"gte=0"`
	SaleDate      Date            `json:"sale_date" validate:"required"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name,omitempty"`
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code,omitempty"`
	ProductName     string          `json:"product_name,omitempty"`
	SalespersonID   *string         `json:"salesperson_id"`
	SalespersonName string          `json:"salesperson_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
	SaleDate        Date            `json:"sale_date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewSaleResponse mapea una venta.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		ClientID:        s.ClientID,
		ClientName:      s.ClientName,
		ProductID:       s.ProductID,
		ProductCode:     s.ProductCode,
		ProductName:     s.ProductName,
		SalespersonID:   s.SalespersonID,
		SalespersonName: s.SalespersonName,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		Total:           s.Total(),
		SaleDate:        NewDate(s.SaleDate),
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
	}
}

func NewSaleResponses(list []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewSaleResponse(s))
	}
	return out
}
