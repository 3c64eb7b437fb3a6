package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock arranca en 0.
type CreateProductRequest struct {
	Reference        string          `json:"reference" validate:"required,min=1,max=50"`
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Description      string          `json:"description" validate:"max=1000"`
	UnitPrice        decimal.Decimal `json:"unit_price" validate:"gte=0.01"`
	Category         string          `json:"category" validate:"max=100"`
	ReorderThreshold int             `json:"reorder_threshold" validate:"gte=0"`
	UnitOfMeasure    string          `json:"unit_of_measure" validate:"required,max=20"`
}

// UpdateProductRequest entrada para actualizar un producto (nunca el stock).
type UpdateProductRequest struct {
	Reference        *string          `json:"reference" validate:"omitempty,min=1,max=50"`
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description" validate:"omitempty,max=1000"`
	UnitPrice        *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0.01"`
	Category         *string          `json:"category" validate:"omitempty,max=100"`
	ReorderThreshold *int             `json:"reorder_threshold" validate:"omitempty,gte=0"`
	UnitOfMeasure    *string          `json:"unit_of_measure" validate:"omitempty,min=1,max=20"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Reference        string          `json:"reference"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Category         string          `json:"category"`
	CurrentStock     int             `json:"current_stock"`
	ReorderThreshold int             `json:"reorder_threshold"`
	UnitOfMeasure    string          `json:"unit_of_measure"`
	BelowThreshold   bool            `json:"below_threshold"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductStockResponse stock actual de un producto.
type ProductStockResponse struct {
	ProductID        string `json:"product_id"`
	Reference        string `json:"reference"`
	CurrentStock     int    `json:"current_stock"`
	ReorderThreshold int    `json:"reorder_threshold"`
	BelowThreshold   bool   `json:"below_threshold"`
}
