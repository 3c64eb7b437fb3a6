package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// MustProduct siembra un producto con stock y punto de pedido dados. El stock no se
// respalda con lotes: para un estado coherente sembrar también MustBatch.
func (s *Store) MustProduct(reference, name string, stock, threshold int) *entity.Product {
	now := time.Now()
	p := &entity.Product{
		ID:               uuid.New().String(),
		Reference:        reference,
		Name:             name,
		UnitPrice:        decimal.NewFromInt(1),
		Category:         "General",
		CurrentStock:     stock,
		ReorderThreshold: threshold,
		UnitOfMeasure:    "U",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Products().Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

// MustBatch siembra un lote con el saldo indicado.
func (s *Store) MustBatch(productID, lotNumber string, entryDate time.Time, initial, remaining int, unitCost string) *entity.Batch {
	b := &entity.Batch{
		ID:                uuid.New().String(),
		LotNumber:         lotNumber,
		ProductID:         productID,
		EntryDate:         entryDate,
		InitialQuantity:   initial,
		RemainingQuantity: remaining,
		UnitCost:          decimal.RequireFromString(unitCost),
		CreatedAt:         time.Now(),
	}
	if err := s.Batches().Create(context.Background(), b); err != nil {
		panic(err)
	}
	return b
}

// MustSupplier siembra un proveedor válido.
func (s *Store) MustSupplier(companyName, email, ice string) *entity.Supplier {
	now := time.Now()
	sup := &entity.Supplier{
		ID:          uuid.New().String(),
		CompanyName: companyName,
		City:        "Casablanca",
		Email:       email,
		ICE:         ice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Suppliers().Create(context.Background(), sup); err != nil {
		panic(err)
	}
	return sup
}
