// Package pdf implementa la ficha de stock imprimible de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU        │  QR del SKU + fecha         │
//	│  RESUMEN: stock / mínimo / salud / próximo vencimiento       │
//	│  TABLA LOTES: Lote | Vence | Inicial | Saldo | Costo | Venta │
//	│  TABLA MOVIMIENTOS: Fecha | Tipo | Cant. | Usuario | Nota    │
//	│  TOTALES POR MES                                              │
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

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

var _ ledger.StockCardGenerator = (*StockCardGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 176, Green: 32, Blue: 32}
)

var healthLabels = map[string]string{
	domledger.HealthExpired:      "Vencido",
	domledger.HealthExpiringSoon: "Por vencer",
	domledger.HealthGood:         "Vigente",
}

// StockCardGenerator implementa ledger.StockCardGenerator usando Maroto v2.
type StockCardGenerator struct{}

// NewStockCardGenerator construye el generador.
func NewStockCardGenerator() *StockCardGenerator { return &StockCardGenerator{} }

// GenerateStockCard genera el PDF y devuelve sus bytes.
func (g *StockCardGenerator) GenerateStockCard(_ context.Context, card ledger.StockCard) ([]byte, error) {
	if card.Product == nil {
		return nil, fmt.Errorf("pdf: ficha sin producto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ficha de stock "+card.Product.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(card))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(card))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("LOTES CON SALDO (orden de despacho)"))
	m.AddRows(batchHeaderRow())
	m.AddRows(batchRows(card.Batches)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("MOVIMIENTOS RECIENTES"))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(card)...)

	if len(card.Months) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("TOTALES POR MES"))
		m.AddRows(monthRows(card.Months)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(card ledger.StockCard) core.Row {
	p := card.Product
	return row.New(24).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("SKU: %s   |   Unidad: %s", p.SKU, nonEmpty(p.Unit, "-")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New("Generada: "+card.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(p.SKU, props.Rect{Percent: 90, Center: true})),
	)
}

func summaryRow(card ledger.StockCard) core.Row {
	s := card.Summary
	stockColor := colorPrimary
	if s.IsLowStock {
		stockColor = colorAlert
	}
	next := "-"
	if s.NextExpiry != nil {
		next = s.NextExpiry.Format(entity.DateLayout)
	}
	parts := make([]string, 0, len(s.Health))
	for _, h := range s.Health {
		parts = append(parts, fmt.Sprintf("%s: %d", healthLabels[h.Bucket], h.Quantity))
	}
	return row.New(14).Add(
		col.New(4).Add(
			text.New("STOCK ACTUAL", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%d (mín. %d)", s.CurrentStock, card.Product.MinLevel), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6, Color: stockColor,
			}),
		),
		col.New(5).Add(
			text.New("SALUD DEL STOCK", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(strings.Join(parts, "   |   "), "Sin stock"), props.Text{Size: 9, Top: 7}),
		),
		col.New(3).Add(
			text.New("PRÓXIMO VENCIMIENTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}),
			text.New(next, props.Text{Size: 10, Top: 7, Align: align.Right}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func batchHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Lote", 3, align.Left),
		headerCell("Vence", 2, align.Center),
		headerCell("Inicial", 1, align.Right),
		headerCell("Saldo", 1, align.Right),
		headerCell("Costo", 2, align.Right),
		headerCell("Venta", 2, align.Right),
		headerCell("Recibió", 1, align.Left),
	)
}

func batchRows(batches []*entity.Batch) []core.Row {
	if len(batches) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin lotes con saldo", 12, align.Left))}
	}
	result := make([]core.Row, 0, len(batches))
	for _, b := range batches {
		result = append(result, row.New(6).Add(
			cell(nonEmpty(b.BatchCode, "-"), 3, align.Left),
			cell(b.ExpiryDate.Format(entity.DateLayout), 2, align.Center),
			cell(fmt.Sprint(b.InitialQuantity), 1, align.Right),
			cell(fmt.Sprint(b.Quantity), 1, align.Right),
			cell("$"+formatMoney(b.CostPrice.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(b.SalePrice.StringFixed(0)), 2, align.Right),
			cell(b.ReceivedBy, 1, align.Left),
		))
	}
	return result
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Fecha", 3, align.Left),
		headerCell("Tipo", 1, align.Center),
		headerCell("Cant.", 1, align.Right),
		headerCell("Usuario", 2, align.Left),
		headerCell("Nota", 5, align.Left),
	)
}

func movementRows(card ledger.StockCard) []core.Row {
	if len(card.Transactions) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin movimientos", 12, align.Left))}
	}
	loc := card.GeneratedAt.Location()
	result := make([]core.Row, 0, len(card.Transactions))
	for _, t := range card.Transactions {
		result = append(result, row.New(6).Add(
			cell(t.CreatedAt.In(loc).Format("02/01/2006 15:04"), 3, align.Left),
			cell(t.Type, 1, align.Center),
			cell(fmt.Sprint(t.Quantity), 1, align.Right),
			cell(t.CreatedBy, 2, align.Left),
			cell(t.Note, 5, align.Left),
		))
	}
	return result
}

func monthRows(months []domledger.MonthlyTotal) []core.Row {
	result := []core.Row{row.New(6).Add(
		headerCell("Mes", 4, align.Left),
		headerCell("Entradas", 4, align.Right),
		headerCell("Salidas", 4, align.Right),
	)}
	for _, mt := range months {
		result = append(result, row.New(6).Add(
			cell(mt.Month, 4, align.Left),
			cell(fmt.Sprint(mt.TotalIn), 4, align.Right),
			cell(fmt.Sprint(mt.TotalOut), 4, align.Right),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
