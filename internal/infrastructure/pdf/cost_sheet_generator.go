// Package pdf genera la hoja de costos de un cálculo de precio guardado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + fecha      │  N° de cálculo              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Cant | Unidad | Costo/u | Total           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENVASES: cantidad x costo                                   │
//	│  DESGLOSE: base / margen 1 / margen 2 / precio / por envase  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID + estado del descuento de stock        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/Costeo-api/internal/application/pricing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ pricing.CostSheetGenerator = (*MarotoCostSheetGenerator)(nil)

// MarotoCostSheetGenerator implementa pricing.CostSheetGenerator usando Maroto v2.
type MarotoCostSheetGenerator struct {
	author string
}

// NewMarotoCostSheetGenerator construye el generador; author va en los metadatos del PDF.
func NewMarotoCostSheetGenerator(author string) *MarotoCostSheetGenerator {
	return &MarotoCostSheetGenerator{author: author}
}

// GenerateCostSheetPDF genera el PDF y devuelve sus bytes.
func (g *MarotoCostSheetGenerator) GenerateCostSheetPDF(_ context.Context, rec *entity.ProductPriceRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("pdf: cálculo nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos - "+rec.Name, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(materialRows(rec.MaterialsUsed)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(bottleRow(rec.Bottle))
	m.AddRows(breakdownRow(rec.Calculations))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rec *entity.ProductPriceRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(rec.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+rec.Timestamp.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(rec.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Cant.", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("Costo/u", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func materialRows(lines []entity.MaterialUsage) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, u := range lines {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(u.MaterialName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(u.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(u.Unit.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(u.CostPerUnit, 4), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(u.TotalCost, 2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func bottleRow(b entity.BottleInfo) core.Row {
	return row.New(7).Add(
		col.New(6).Add(text.New(
			fmt.Sprintf("Envases: %d x %s", b.NumBottles, formatMoney(b.CostPerBottle, 2)),
			props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray},
		)),
		col.New(6),
	)
}

func breakdownRow(b entity.PriceBreakdown) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}

	return row.New(40).Add(
		col.New(3),
		col.New(4).Add(
			label("Materiales:"),
			label("Envases:"),
			label("Costo base:"),
			label(fmt.Sprintf("Margen 1 (%s%%):", percent(b.Margin1Rate))),
			label(fmt.Sprintf("Margen 2 (%s%%):", percent(b.Margin2Rate))),
			label("PRECIO TOTAL:"),
			label("Por envase:"),
		),
		col.New(3).Add(
			value(formatMoney(b.MaterialsCost, 2)),
			value(formatMoney(b.BottleCost, 2)),
			value(formatMoney(b.BaseCost, 2)),
			value(formatMoney(b.Margin1, 2)),
			value(formatMoney(b.Margin2, 2)),
			grand(formatMoney(b.TotalSellingPrice, 2)),
			grand(formatMoney(b.GrossPerBottle, 2)),
		),
		col.New(2),
	)
}

func footerRow(rec *entity.ProductPriceRecord) core.Row {
	stock := "Cotización: no se descontó stock."
	if rec.StockDeducted {
		stock = "Stock de materiales descontado al guardar."
	}
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(rec.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(stock, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("ID: "+rec.ID, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + strings.ToUpper(id[:8])
	}
	return "N° " + strings.ToUpper(id)
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(0)
}

// formatMoney agrupa miles con punto y usa coma decimal.
// Ej: 1898.4 → "$1.898,40"
func formatMoney(d decimal.Decimal, places int32) string {
	s := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := "$" + string(buf)
	if frac != "" {
		out += "," + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
