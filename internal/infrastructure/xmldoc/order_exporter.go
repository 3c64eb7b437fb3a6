// Package xmldoc exporta órdenes de compra como documento XML para el proveedor.
package xmldoc

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// Namespace del documento de orden de compra.
const Namespace = "urn:gestion-stock:purchase-order:1"

// OrderExporter implementa procurement.OrderXMLExporter con etree.
type OrderExporter struct {
	indent int
}

// NewOrderExporter construye el exportador con sangría de 2 espacios.
func NewOrderExporter() *OrderExporter { return &OrderExporter{indent: 2} }

// ExportOrder serializa la orden con su proveedor y líneas. Un producto ausente
// del mapa deja solo el id en la línea.
func (e *OrderExporter) ExportOrder(order *entity.PurchaseOrder, supplier *entity.Supplier, products map[string]*entity.Product) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("xmldoc: orden nula")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("PurchaseOrder")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("number", order.Number)
	root.CreateAttr("status", order.Status)

	root.CreateElement("OrderDate").SetText(order.OrderDate.Format("2006-01-02"))
	if order.ReceptionDate != nil {
		root.CreateElement("ReceptionDate").SetText(order.ReceptionDate.Format("2006-01-02"))
	}

	sup := root.CreateElement("Supplier")
	sup.CreateAttr("id", order.SupplierID)
	if supplier != nil {
		sup.CreateElement("CompanyName").SetText(supplier.CompanyName)
		sup.CreateElement("ICE").SetText(supplier.ICE)
		sup.CreateElement("Email").SetText(supplier.Email)
		if supplier.Phone != "" {
			sup.CreateElement("Phone").SetText(supplier.Phone)
		}
		if supplier.Address != "" || supplier.City != "" {
			addr := sup.CreateElement("Address")
			addr.CreateElement("Street").SetText(supplier.Address)
			addr.CreateElement("City").SetText(supplier.City)
		}
	}

	lines := root.CreateElement("Lines")
	for i, l := range order.Lines {
		el := lines.CreateElement("Line")
		el.CreateAttr("position", strconv.Itoa(i+1))
		prod := el.CreateElement("Product")
		prod.CreateAttr("id", l.ProductID)
		if p := products[l.ProductID]; p != nil {
			prod.CreateElement("Reference").SetText(p.Reference)
			prod.CreateElement("Name").SetText(p.Name)
			prod.CreateElement("UnitOfMeasure").SetText(p.UnitOfMeasure)
		}
		el.CreateElement("Quantity").SetText(strconv.Itoa(l.Quantity))
		el.CreateElement("UnitPrice").SetText(l.UnitPrice.StringFixed(2))
		el.CreateElement("Subtotal").SetText(l.Subtotal.StringFixed(2))
	}

	root.CreateElement("TotalAmount").SetText(order.TotalAmount.StringFixed(2))
	if order.Notes != "" {
		root.CreateElement("Notes").SetText(order.Notes)
	}

	doc.Indent(e.indent)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmldoc: serializar orden: %w", err)
	}
	return out, nil
}
