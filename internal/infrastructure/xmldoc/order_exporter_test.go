package xmldoc

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

func sampleOrder() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID: "o1", Number: "PO-001", SupplierID: "s1", Status: entity.OrderStatusValidated,
		OrderDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1500),
		Lines: []entity.OrderLine{
			{ID: "l1", ProductID: "p1", Quantity: 100, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(1000)},
			{ID: "l2", ProductID: "p2", Quantity: 50, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(500)},
		},
	}
}

func TestExportOrder(t *testing.T) {
	supplier := &entity.Supplier{ID: "s1", CompanyName: "Acme", ICE: "123456789012345", Email: "a@acme.ma", City: "Casablanca"}
	products := map[string]*entity.Product{"p1": {ID: "p1", Reference: "REF-1", Name: "Tornillo", UnitOfMeasure: "u"}}

	out, err := NewOrderExporter().ExportOrder(sampleOrder(), supplier, products)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "PurchaseOrder", root.Tag)
	assert.Equal(t, "PO-001", root.SelectAttrValue("number", ""))
	assert.Equal(t, "2024-01-10", root.FindElement("OrderDate").Text())
	assert.Equal(t, "Acme", root.FindElement("Supplier/CompanyName").Text())
	assert.Equal(t, "1500.00", root.FindElement("TotalAmount").Text())

	lines := root.FindElements("Lines/Line")
	require.Len(t, lines, 2)
	assert.Equal(t, "REF-1", lines[0].FindElement("Product/Reference").Text())
	// producto ausente del mapa: solo el id
	assert.Nil(t, lines[1].FindElement("Product/Reference"))
	assert.Equal(t, "p2", lines[1].FindElement("Product").SelectAttrValue("id", ""))
}

func TestExportOrder_NilSupplier(t *testing.T) {
	out, err := NewOrderExporter().ExportOrder(sampleOrder(), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<Supplier id="s1"`)
}

func TestExportOrder_NilOrder(t *testing.T) {
	_, err := NewOrderExporter().ExportOrder(nil, nil, nil)
	assert.Error(t, err)
}
