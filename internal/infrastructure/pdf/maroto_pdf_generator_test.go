package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00", formatMoney(decimal.Zero))
	assert.Equal(t, "999.90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "1 234 567.50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-1 000.00", formatMoney(decimal.NewFromInt(-1000)))
}

func TestGenerateExitSlipPDF(t *testing.T) {
	slip := &entity.ExitSlip{
		ID: "s1", Number: "BS-001", ExitDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Workshop: "Taller A", Reason: entity.ExitReasonProduction, Status: entity.ExitSlipStatusValidated,
		Lines: []entity.ExitSlipLine{{ID: "l1", ProductID: "p1", RequestedQuantity: 30}},
	}
	products := map[string]*entity.Product{"p1": {ID: "p1", Reference: "REF-1", Name: "Tornillo"}}
	moves := []*repository.MovementDetail{
		{
			StockMovement:    entity.StockMovement{ProductID: "p1", Type: entity.MovementTypeOut, Quantity: 30, UnitPrice: decimal.NewFromInt(10)},
			ProductReference: "REF-1", LotNumber: "LOT-20240101-REF1-PO01-001",
		},
	}

	out, err := NewMarotoPDFGenerator().GenerateExitSlipPDF(slip, products, moves)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
