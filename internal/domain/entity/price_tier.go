package entity

import "github.com/shopspring/decimal"

// PriceTier precio unitario por volumen: aplica desde MinQty unidades. Único por (ProductID, MinQty).
type PriceTier struct {
	ID        string
	ProductID string
	MinQty    decimal.Decimal
	UnitPrice decimal.Decimal
}
