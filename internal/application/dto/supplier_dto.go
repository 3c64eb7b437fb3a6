package dto

import "time"

// SupplierRequest entrada para crear o reemplazar un proveedor.
type SupplierRequest struct {
	CompanyName   string `json:"company_name" validate:"required,max=200"`
	Address       string `json:"address" validate:"max=300"`
	City          string `json:"city" validate:"max=100"`
	ContactPerson string `json:"contact_person" validate:"max=150"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	ICE           string `json:"ice" validate:"required,len=15"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ICE           string    `json:"ice"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
