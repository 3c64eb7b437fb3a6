// Package pdf genera el comprobante imprimible de un bon de salida.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: BON DE SALIDA + N°      │  Fecha + Estado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO: Taller / Motivo / Observaciones                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITADO: Ref | Producto | Cantidad                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONSUMO FIFO: Ref | Lote | Cant | Costo | Valor            │
//	│  TOTAL VALORIZADO                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el número + firmas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var reasonLabels = map[string]string{
	entity.ExitReasonProduction:  "Producción",
	entity.ExitReasonMaintenance: "Mantenimiento",
	entity.ExitReasonOther:       "Otro",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa exitslip.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateExitSlipPDF genera el PDF y devuelve sus bytes. consumptions vacío en bons no validados.
func (g *MarotoPDFGenerator) GenerateExitSlipPDF(
	slip *entity.ExitSlip,
	products map[string]*entity.Product,
	consumptions []*repository.MovementDetail,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de salida "+slip.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinationRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRODUCTOS SOLICITADOS"))
	m.AddRows(requestedHeaderRow())
	m.AddRows(requestedRows(slip.Lines, products)...)

	if len(consumptions) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("LOTES CONSUMIDOS (FIFO)"))
		m.AddRows(consumptionHeaderRow())
		rows, total := consumptionRows(consumptions)
		m.AddRows(rows...)
		m.AddRows(totalRow(total))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(slip *entity.ExitSlip) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("BON DE SALIDA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+slip.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+slip.ExitDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Estado: "+slip.Status, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func destinationRow(slip *entity.ExitSlip) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Taller: %s   |   Motivo: %s",
				slip.Workshop, nonEmpty(reasonLabels[slip.Reason], slip.Reason),
			), props.Text{Size: 9, Top: 6}),
			text.New("Observaciones: "+nonEmpty(slip.Notes, "—"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func requestedHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Referencia", 3, align.Left),
		headerCol("Producto", 7, align.Left),
		headerCol("Cantidad", 2, align.Right),
	)
}

func requestedRows(lines []entity.ExitSlipLine, products map[string]*entity.Product) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		ref, name := l.ProductID, ""
		if p := products[l.ProductID]; p != nil {
			ref, name = p.Reference, p.Name
		}
		out = append(out, row.New(6).Add(
			cell(ref, 3, align.Left),
			cell(name, 7, align.Left),
			cell(fmt.Sprintf("%d", l.RequestedQuantity), 2, align.Right),
		))
	}
	return out
}

func consumptionHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Referencia", 2, align.Left),
		headerCol("Lote", 4, align.Left),
		headerCol("Cant.", 1, align.Right),
		headerCol("Costo unit.", 2, align.Right),
		headerCol("Valor", 3, align.Right),
	)
}

func consumptionRows(moves []*repository.MovementDetail) ([]core.Row, decimal.Decimal) {
	out := make([]core.Row, 0, len(moves))
	total := decimal.Zero
	for _, m := range moves {
		value := m.TotalValue()
		total = total.Add(value)
		out = append(out, row.New(6).Add(
			cell(m.ProductReference, 2, align.Left),
			cell(m.LotNumber, 4, align.Left),
			cell(fmt.Sprintf("%d", m.Quantity), 1, align.Right),
			cell(formatMoney(m.UnitPrice), 2, align.Right),
			cell(formatMoney(value), 3, align.Right),
		))
	}
	return out, total
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL VALORIZADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func footerRow(slip *entity.ExitSlip) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(slip.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Entregado por: ____________________", props.Text{Size: 8, Top: 6, Left: 3}),
			text.New("Recibido por (taller): ____________________", props.Text{Size: 8, Top: 16, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con separador de miles por espacio. Ej: 1234567.5 → "1 234 567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + frac
}
