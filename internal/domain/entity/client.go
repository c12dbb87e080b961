package entity

import "time"

// Client representa un cliente del CRM.
type Client struct {
	ID        string
	Name      string
	TaxID     string // NIT / cédula
	Email     string
	Phone     string
	Address   string
	City      string
	Notes     string
	SearchKey string
	CreatedAt time.Time
	UpdatedAt time.Time
}
