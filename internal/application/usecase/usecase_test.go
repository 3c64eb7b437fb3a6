package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
	"github.com/jhoicas/gestion-stock-api/internal/testutil/memstore"
)

func ptr[T any](v T) *T { return &v }

func productRequest(ref string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Reference:        ref,
		Name:             "Vis M8",
		UnitPrice:        decimal.RequireFromString("0.35"),
		Category:         "Visserie",
		ReorderThreshold: 50,
		UnitOfMeasure:    "U",
	}
}

// ─── ProductUseCase ──────────────────────────────────────────────────────────

func TestProductCreate_StockInicialCero(t *testing.T) {
	uc := NewProductUseCase(memstore.New().Products())
	p, err := uc.Create(context.Background(), productRequest(" VIS-M8 "))
	require.NoError(t, err)

	assert.Equal(t, "VIS-M8", p.Reference)
	assert.Equal(t, 0, p.CurrentStock)
	assert.True(t, p.BelowThreshold, "0 < 50")

	_, err = uc.Create(context.Background(), productRequest("VIS-M8"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in := productRequest("VIS-M10")
	in.ReorderThreshold = -1
	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_Parcial(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store.Products())
	a, err := uc.Create(context.Background(), productRequest("VIS-M8"))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), productRequest("VIS-M10"))
	require.NoError(t, err)

	got, err := uc.Update(context.Background(), a.ID, dto.UpdateProductRequest{Name: ptr("Vis M8 inox"), ReorderThreshold: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, "Vis M8 inox", got.Name)
	assert.Equal(t, "Visserie", got.Category, "los campos ausentes no cambian")
	assert.False(t, got.BelowThreshold)

	_, err = uc.Update(context.Background(), a.ID, dto.UpdateProductRequest{Reference: ptr("VIS-M10")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Update(context.Background(), a.ID, dto.UpdateProductRequest{ReorderThreshold: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(context.Background(), "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductConsultas(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store.Products())
	ctx := context.Background()
	for _, ref := range []string{"VIS-M8", "VIS-M10", "HUI-10W"} {
		in := productRequest(ref)
		if ref == "HUI-10W" {
			in.Name, in.Category = "Huile 10W40", "Lubrifiants"
		}
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)

	found, err := uc.Search(ctx, "vis")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	_, err = uc.Search(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	lub, err := uc.ListByCategory(ctx, "Lubrifiants")
	require.NoError(t, err)
	require.Len(t, lub, 1)

	st, err := uc.GetStock(ctx, lub[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStock)
	assert.True(t, st.BelowThreshold)
}

func TestProductDelete_ConLotesEsConflicto(t *testing.T) {
	store := memstore.New()
	uc := NewProductUseCase(store.Products())
	free := store.MustProduct("LIB-1", "Libre", 0, 0)
	used := store.MustProduct("USO-1", "Usado", 0, 0)
	store.MustBatch(used.ID, "LOT-U", used.CreatedAt, 1, 0, "1")

	require.NoError(t, uc.Delete(context.Background(), free.ID))
	_, err := uc.GetByID(context.Background(), free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(context.Background(), used.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

// ─── SupplierUseCase ─────────────────────────────────────────────────────────

func supplierRequest(name, email, ice string) dto.SupplierRequest {
	return dto.SupplierRequest{CompanyName: name, City: "Casablanca", Email: email, Phone: "+212522000000", ICE: ice}
}

func TestSupplierCreate_UnicidadEmailEICE(t *testing.T) {
	uc := NewSupplierUseCase(memstore.New().Suppliers())
	ctx := context.Background()
	s, err := uc.Create(ctx, supplierRequest("Atlas", " Ventas@Atlas.MA ", "001234567000089"))
	require.NoError(t, err)
	assert.Equal(t, "ventas@atlas.ma", s.Email)

	_, err = uc.Create(ctx, supplierRequest("Otro", "ventas@atlas.ma", "009999999000011"))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "email repetido")
	_, err = uc.Create(ctx, supplierRequest("Otro", "otro@x.ma", "001234567000089"))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "ICE repetido")

	_, err = uc.Create(ctx, supplierRequest("Corto", "c@x.ma", "123"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	bad := supplierRequest("Tel", "t@x.ma", "009999999000011")
	bad.Phone = "abc"
	_, err = uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplierUpdateYBusquedas(t *testing.T) {
	store := memstore.New()
	uc := NewSupplierUseCase(store.Suppliers())
	ctx := context.Background()
	a, err := uc.Create(ctx, supplierRequest("Atlas Pièces", "ventas@atlas.ma", "001234567000089"))
	require.NoError(t, err)
	rabat := supplierRequest("Rif Outillage", "rif@outil.ma", "009999999000011")
	rabat.City = "Rabat"
	_, err = uc.Create(ctx, rabat)
	require.NoError(t, err)

	in := supplierRequest("Atlas Pièces SARL", "ventas@atlas.ma", "001234567000089")
	got, err := uc.Update(ctx, a.ID, in)
	require.NoError(t, err, "conservar su propio email e ICE no es duplicado")
	assert.Equal(t, "Atlas Pièces SARL", got.CompanyName)
	assert.True(t, got.CreatedAt.Equal(a.CreatedAt))

	_, err = uc.Update(ctx, a.ID, supplierRequest("Atlas", "rif@outil.ma", "001234567000089"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	byICE, err := uc.GetByICE(ctx, "009999999000011")
	require.NoError(t, err)
	assert.Equal(t, "Rif Outillage", byICE.CompanyName)
	_, err = uc.GetByEmail(ctx, "nadie@x.ma")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.Search(ctx, repository.SupplierFilter{City: " rabat "})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = uc.Search(ctx, repository.SupplierFilter{Keyword: "atlas"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = uc.Search(ctx, repository.SupplierFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSupplierDelete_ConOrdenesEsConflicto(t *testing.T) {
	store := memstore.New()
	uc := NewSupplierUseCase(store.Suppliers())
	sup := store.MustSupplier("Atlas", "ventas@atlas.ma", "001234567000089")
	p := store.MustProduct("VIS-M8", "Vis M8", 0, 0)
	order := &entity.PurchaseOrder{ID: "o1", Number: "PO-1", SupplierID: sup.ID, Status: entity.OrderStatusPending}
	line, err := entity.NewOrderLine("l1", p.ID, 1, decimal.NewFromInt(1))
	require.NoError(t, err)
	order.ReplaceLines([]entity.OrderLine{line})
	require.NoError(t, store.Orders().Create(context.Background(), order))

	assert.ErrorIs(t, uc.Delete(context.Background(), sup.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

// ─── UserUseCase ─────────────────────────────────────────────────────────────

func TestProfile(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: "u1", Email: "ana@taller.ma", Name: "Ana", Role: entity.RoleAdmin, Status: "active", PasswordHash: "x",
	}))
	uc := NewUserUseCase(store.Users())

	u, err := uc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	_, err = uc.Profile(context.Background(), "borrado")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
