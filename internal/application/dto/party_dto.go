package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// ClientRequest entrada para crear o reemplazar un cliente.
type ClientRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	TaxID   string `json:"tax_id" validate:"max=30,taxid"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Address string `json:"address" validate:"max=250"`
	City    string `json:"city" validate:"max=100"`
	Notes   string `json:"notes" validate:"max=1000"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone,
		Address: c.Address, City: c.City, Notes: c.Notes,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// SupplierRequest entrada para crear o reemplazar un proveedor.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	TaxID       string `json:"tax_id" validate:"max=30,taxid"`
	ContactName string `json:"contact_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID: s.ID, Name: s.Name, TaxID: s.TaxID, ContactName: s.ContactName,
		Email: s.Email, Phone: s.Phone, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// SalespersonRequest entrada para crear o reemplazar un vendedor.
type SalespersonRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=200"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" validate:"omitempty,phone"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"gte=0,lte=100"`
	Active         *bool           `json:"active,omitempty"`
}

// SalespersonResponse salida de un vendedor.
type SalespersonResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewSalespersonResponse(s *entity.Salesperson) SalespersonResponse {
	return SalespersonResponse{
		ID: s.ID, Name: s.Name, Email: s.Email, Phone: s.Phone,
		CommissionRate: s.CommissionRate, Active: s.Active,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}
