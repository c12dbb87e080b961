package entity

import "time"

// Supplier proveedor de lotes.
type Supplier struct {
	ID          string
	Name        string
	TaxID       string
	ContactName string
	Email       string
	Phone       string
	SearchKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
