package inventory

import (
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// ToBatchResponse mapea un lote a su DTO.
func ToBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		LotNumber:         b.LotNumber,
		ProductID:         b.ProductID,
		EntryDate:         b.EntryDate,
		InitialQuantity:   b.InitialQuantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitCost:          b.UnitCost,
		Valuation:         b.Valuation(),
		PurchaseOrderID:   b.PurchaseOrderID,
	}
}

// ToConsumptionResponse mapea un consumo FIFO a su DTO.
func ToConsumptionResponse(c Consumption) dto.ConsumptionResponse {
	return dto.ConsumptionResponse{
		ProductID: c.Batch.ProductID,
		BatchID:   c.Batch.ID,
		LotNumber: c.Batch.LotNumber,
		Quantity:  c.Quantity,
		UnitCost:  c.Batch.UnitCost,
		Value:     c.Movement.TotalValue(),
	}
}

func toMovementResponse(m *repository.MovementDetail) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		ProductReference:  m.ProductReference,
		ProductName:       m.ProductName,
		BatchID:           m.BatchID,
		LotNumber:         m.LotNumber,
		Type:              m.Type,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		TotalValue:        m.TotalValue(),
		Date:              m.Date,
		PurchaseOrderID:   m.PurchaseOrderID,
		ExitSlipID:        m.ExitSlipID,
		DocumentReference: m.DocumentReference,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
	}
}
