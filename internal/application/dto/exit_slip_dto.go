package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExitSlipLineRequest línea de un bon de salida.
type ExitSlipLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// ExitSlipRequest entrada para crear o actualizar un bon (solo en DRAFT).
type ExitSlipRequest struct {
	Number   string                `json:"number" validate:"required,max=50"`
	ExitDate string                `json:"exit_date" validate:"required,datetime=2006-01-02"`
	Workshop string                `json:"workshop" validate:"required,max=100"`
	Reason   string                `json:"reason" validate:"required,oneof=PRODUCTION MAINTENANCE OTHER"`
	Notes    string                `json:"notes" validate:"max=1000"`
	Lines    []ExitSlipLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ExitSlipLineResponse salida de una línea.
type ExitSlipLineResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	ProductReference  string `json:"product_reference,omitempty"`
	ProductName       string `json:"product_name,omitempty"`
	RequestedQuantity int    `json:"requested_quantity"`
}

// ExitSlipResponse salida de un bon.
type ExitSlipResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	ExitDate    time.Time              `json:"exit_date"`
	Workshop    string                 `json:"workshop"`
	Reason      string                 `json:"reason"`
	Status      string                 `json:"status"`
	Notes       string                 `json:"notes"`
	ValidatedAt *time.Time             `json:"validated_at,omitempty"`
	Lines       []ExitSlipLineResponse `json:"lines"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ConsumptionResponse un lote consumido por la validación de un bon.
type ConsumptionResponse struct {
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id"`
	LotNumber string          `json:"lot_number"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Value     decimal.Decimal `json:"value"`
}

// ExitSlipValidationResponse bon validado y lotes consumidos en orden FIFO.
type ExitSlipValidationResponse struct {
	ExitSlip     ExitSlipResponse      `json:"exit_slip"`
	Consumptions []ConsumptionResponse `json:"consumptions"`
	TotalValue   decimal.Decimal       `json:"total_value"`
}
