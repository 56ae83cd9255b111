// Package pdf genera el reporte de existencias en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + almacén            │  fecha de corte      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  por almacén:                                               │
//	│    TABLA: Наименование | Ед. | Кол-во | Мин. | Цена | Сумма │
//	│    subtotal del almacén                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL general + productos bajo mínimo                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa usecase.StockReportGenerator.
// Con FontPath vacío usa helvetica, que no tiene glifos cirílicos; en producción se
// configura una fuente TTF con soporte UTF-8 (p. ej. DejaVuSans).
type MarotoStockReport struct {
	fontPath string
}

var _ usecase.StockReportGenerator = (*MarotoStockReport)(nil)

// NewMarotoStockReport construye el generador.
func NewMarotoStockReport(fontPath string) *MarotoStockReport {
	return &MarotoStockReport{fontPath: fontPath}
}

const customFamily = "report"

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockReport(_ context.Context, report usecase.StockReport) ([]byte, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("Остатки на складе", true)

	family := "helvetica"
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
		}
		b = b.WithCustomFonts(fonts)
		family = customFamily
	}
	m := maroto.New(b.WithDefaultFont(&props.Font{Family: family, Size: 9}).Build())

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	grand := decimal.Zero
	low := 0
	for _, group := range groupByWarehouse(report.Items) {
		m.AddRows(sectionRow(entity.WarehouseName(group.warehouseID)))
		m.AddRows(tableHeaderRow())
		subtotal := decimal.Zero
		for _, r := range group.items {
			m.AddRows(itemRow(r))
			subtotal = subtotal.Add(r.TotalCost)
			if r.IsLowStock() {
				low++
			}
		}
		m.AddRows(subtotalRow(subtotal))
		grand = grand.Add(subtotal)
	}
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Нет товаров", props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 3}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(grand, len(report.Items), low))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report usecase.StockReport) core.Row {
	scope := "Все склады"
	if report.WarehouseID != "" {
		scope = entity.WarehouseName(report.WarehouseID)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ОСТАТКИ НА СКЛАДЕ", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Дата: "+report.GeneratedAt.Format("02.01.2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionRow(name string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Наименование", 4, align.Left),
		h("Ед.", 1, align.Center),
		h("Кол-во", 2, align.Right),
		h("Мин.", 1, align.Right),
		h("Ср. цена", 2, align.Right),
		h("Сумма", 2, align.Right),
	)
}

func itemRow(r *entity.StockRecord) core.Row {
	p := props.Text{Size: 8, Top: 1}
	if r.IsLowStock() {
		p.Color = colorAlert
	}
	cell := func(s string, size int, a align.Type) core.Col {
		tp := p
		tp.Align = a
		tp.Left, tp.Right = 1, 1
		return col.New(size).Add(text.New(s, tp))
	}
	return row.New(6).Add(
		cell(r.Name, 4, align.Left),
		cell(r.Unit, 1, align.Center),
		cell(formatInt(r.Quantity), 2, align.Right),
		cell(formatInt(r.MinQuantity), 1, align.Right),
		cell(formatAmount(r.AverageCost), 2, align.Right),
		cell(formatAmount(r.TotalCost), 2, align.Right),
	)
}

func subtotalRow(total decimal.Decimal) core.Row {
	return row.New(7).Add(
		col.New(8),
		col.New(2).Add(text.New("Итого:", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New(formatAmount(total)+" ₸", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func totalsRow(grand decimal.Decimal, items, low int) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Позиций: %d", items), props.Text{Size: 9, Top: 2}),
			text.New(fmt.Sprintf("Ниже минимума: %d", low), props.Text{Size: 9, Top: 8, Color: colorAlert}),
		),
		col.New(6).Add(text.New("ВСЕГО: "+formatAmount(grand)+" ₸", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 4, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type warehouseGroup struct {
	warehouseID string
	items       []*entity.StockRecord
}

// groupByWarehouse agrupa en el orden fijo de almacenes; omite los vacíos.
func groupByWarehouse(items []*entity.StockRecord) []warehouseGroup {
	var groups []warehouseGroup
	for _, w := range entity.Warehouses() {
		g := warehouseGroup{warehouseID: w.ID}
		for _, r := range items {
			if r.WarehouseID == w.ID {
				g.items = append(g.items, r)
			}
		}
		if len(g.items) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// formatAmount formatea con espacio de miles y coma decimal: 1234567.8 → "1 234 567,80".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

func formatInt(n int64) string {
	if n < 0 {
		return "-" + groupThousands(fmt.Sprint(-n))
	}
	return groupThousands(fmt.Sprint(n))
}

// groupThousands inserta espacios de miles en un string numérico sin signo.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
