package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	LotNumber         string          `json:"lot_number"`
	ProductID         string          `json:"product_id"`
	EntryDate         time.Time       `json:"entry_date"`
	InitialQuantity   int             `json:"initial_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Valuation         decimal.Decimal `json:"valuation"`
	PurchaseOrderID   string          `json:"purchase_order_id,omitempty"`
}

// StockStateResponse estado de stock de un producto (GET /stock).
type StockStateResponse struct {
	ProductID        string          `json:"product_id"`
	Reference        string          `json:"reference"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	AvailableStock   int             `json:"available_stock"`
	Valuation        decimal.Decimal `json:"valuation"`
	ReorderThreshold int             `json:"reorder_threshold"`
	InAlert          bool            `json:"in_alert"`
}

// ProductValuationResponse lotes FIFO de un producto con cantidad y valor totales.
type ProductValuationResponse struct {
	ProductID     string          `json:"product_id"`
	Reference     string          `json:"reference"`
	Name          string          `json:"name"`
	CurrentStock  int             `json:"current_stock"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Batches       []BatchResponse `json:"batches"`
}

// StockAlertResponse producto bajo su punto de pedido.
type StockAlertResponse struct {
	ProductID        string `json:"product_id"`
	Reference        string `json:"reference"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	CurrentStock     int    `json:"current_stock"`
	ReorderThreshold int    `json:"reorder_threshold"`
	Shortfall        int    `json:"shortfall"`
}

// GlobalValuationResponse valor FIFO de todo el almacén.
type GlobalValuationResponse struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalQuantity int             `json:"total_quantity"`
	Batches       int             `json:"batches"`
	ComputedAt    time.Time       `json:"computed_at"`
}

// StockMismatchResponse producto cuyo stock no coincide con la suma de sus lotes.
type StockMismatchResponse struct {
	ProductID    string `json:"product_id"`
	Reference    string `json:"reference"`
	CurrentStock int    `json:"current_stock"`
	BatchStock   int    `json:"batch_stock"`
}

// ConsistencyResponse resultado de la conciliación stock vs lotes.
type ConsistencyResponse struct {
	Consistent bool                    `json:"consistent"`
	Checked    int                     `json:"checked"`
	Mismatches []StockMismatchResponse `json:"mismatches"`
}

// MovementSearchRequest filtros de GET /stock/movements.
type MovementSearchRequest struct {
	ProductID        string `query:"product_id" validate:"omitempty,uuid"`
	ProductReference string `query:"reference"`
	Type             string `query:"type" validate:"omitempty,oneof=IN OUT"`
	LotNumber        string `query:"lot_number"`
	From             string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To               string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit            int    `query:"limit"`
	Offset           int    `query:"offset"`
}

// MovementResponse salida de un asiento del libro.
type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductReference  string          `json:"product_reference"`
	ProductName       string          `json:"product_name"`
	BatchID           string          `json:"batch_id"`
	LotNumber         string          `json:"lot_number"`
	Type              string          `json:"type"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Date              time.Time       `json:"date"`
	PurchaseOrderID   string          `json:"purchase_order_id,omitempty"`
	ExitSlipID        string          `json:"exit_slip_id,omitempty"`
	DocumentReference string          `json:"document_reference"`
	Notes             string          `json:"notes"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
