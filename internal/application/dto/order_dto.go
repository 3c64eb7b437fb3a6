package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de una orden de compra.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
}

// PurchaseOrderRequest entrada para crear o actualizar una orden. Las fechas van en formato 2006-01-02.
type PurchaseOrderRequest struct {
	Number     string             `json:"number" validate:"required,max=50"`
	OrderDate  string             `json:"order_date" validate:"required,datetime=2006-01-02"`
	SupplierID string             `json:"supplier_id" validate:"required,uuid"`
	Notes      string             `json:"notes" validate:"max=1000"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveOrderRequest entrada para recepcionar una orden VALIDATED.
type ReceiveOrderRequest struct {
	ReceptionDate string `json:"reception_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// OrderSearchRequest filtros de GET /orders/search.
type OrderSearchRequest struct {
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,oneof=PENDING VALIDATED RECEIVED CANCELLED"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// OrderLineResponse salida de una línea.
type OrderLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductReference string          `json:"product_reference,omitempty"`
	ProductName      string          `json:"product_name,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse salida de una orden.
type PurchaseOrderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	OrderDate     time.Time           `json:"order_date"`
	ReceptionDate *time.Time          `json:"reception_date,omitempty"`
	SupplierID    string              `json:"supplier_id"`
	SupplierName  string              `json:"supplier_name,omitempty"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Notes         string              `json:"notes"`
	Lines         []OrderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ReceptionResponse resultado de una recepción: la orden y los lotes creados.
type ReceptionResponse struct {
	Order   PurchaseOrderResponse `json:"order"`
	Batches []BatchResponse       `json:"batches"`
}
