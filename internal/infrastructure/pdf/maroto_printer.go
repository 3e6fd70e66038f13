// Package pdf motores que convierten la superficie de una factura en PDF.
//
// Layout de la página A4 (MarotoPrinter):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + contacto    │  INVOICE + N° + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO                      │  SERVICE INFORMATION         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Description | Qty | Unit Price | Total (filas alt.)  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Tax (15%) / Total                       │
//	│  PAGO: Paid / Balance / Status │  TERMS                      │
//	│  FOOTER                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"io"
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

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
)

var _ ports.Printer = (*MarotoPrinter)(nil)

// EngineMaroto nombre del motor.
const EngineMaroto = "maroto"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 58, Blue: 138}
	colorGray    = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 243, Green: 244, Blue: 246}
)

// ── Printer ───────────────────────────────────────────────────────────────────

// MarotoPrinter maqueta el documento compuesto con Maroto v2. No necesita navegador.
type MarotoPrinter struct {
	opts Options
}

// NewMarotoPrinter construye el motor.
func NewMarotoPrinter(opts Options) *MarotoPrinter {
	return &MarotoPrinter{opts: opts.withDefaults()}
}

// Engine implementa ports.Printer.
func (p *MarotoPrinter) Engine() string { return EngineMaroto }

// Print genera el PDF de surface.Document y lo escribe en w.
func (p *MarotoPrinter) Print(ctx context.Context, surface *document.Surface, w io.Writer) error {
	if surface == nil || surface.Document == nil {
		return fmt.Errorf("pdf: la superficie no trae documento para maquetar")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := surface.Document

	size := pagesize.A4
	if strings.EqualFold(p.opts.PageSize, "letter") {
		size = pagesize.Letter
	}
	cfg := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(p.opts.MarginMM).WithRightMargin(p.opts.MarginMM).
		WithTopMargin(p.opts.MarginMM).WithBottomMargin(p.opts.MarginMM).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(surface.Title, true).
		WithAuthor(doc.Header.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Header))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc.BillTo, doc.ServiceInfo))
	m.AddRows(line.NewRow(3))

	m.AddRows(tableHeaderRow(doc.Items.Columns))
	m.AddRows(tableRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Totals))
	m.AddRows(line.NewRow(3))
	m.AddRows(paymentRow(doc.Payment, doc.Terms))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Footer))

	out, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(out.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: taller y contacto (izq), título, número y fecha (der).
func headerRow(h document.Header) core.Row {
	return row.New(24).Add(
		col.New(7).Add(
			text.New(h.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(h.CompanyAddress, props.Text{Size: 8, Top: 8, Color: colorGray}),
			text.New(h.CompanyPhone, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(h.CompanyEmail, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(h.Title, props.Text{
				Style: fontstyle.Bold, Size: 16, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("#"+h.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 10,
			}),
			text.New("Date: "+h.Date, props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
			text.New(h.Status, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 19, Color: colorPrimary,
			}),
		),
	)
}

// partiesRow: cliente (izq) y datos del servicio (der).
func partiesRow(b document.BillTo, s document.ServiceInfo) core.Row {
	return row.New(22).Add(
		col.New(6).Add(
			sectionLabel("BILL TO", 1),
			text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(b.Email, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(b.Phone, props.Text{Size: 8, Top: 15, Color: colorGray}),
			text.New(b.Address, props.Text{Size: 8, Top: 19, Color: colorGray}),
		),
		col.New(6).Add(
			sectionLabel("SERVICE INFORMATION", 1),
			text.New("Booking: "+s.BookingReference, props.Text{Size: 8, Top: 6}),
			text.New("Invoice date: "+s.InvoiceDate, props.Text{Size: 8, Top: 10}),
			text.New("Status: "+s.Status, props.Text{Size: 8, Top: 14}),
		),
	)
}

// columnSizes anchos de Description | Qty | Unit Price | Total sobre la grilla de 12.
var columnSizes = []int{6, 2, 2, 2}

func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

// tableHeaderRow: cabecera con fondo primario.
func tableHeaderRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, label := range columns {
		size := 3
		if i < len(columnSizes) {
			size = columnSizes[i]
		}
		cols = append(cols, col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por línea con fondo alterno; sin líneas, el texto de relleno.
func tableRows(t document.ItemTable) []core.Row {
	if len(t.Rows) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New(t.Placeholder, props.Text{
			Size: 8, Align: align.Center, Top: 2, Style: fontstyle.Italic, Color: colorGray,
		})))}
	}
	rows := make([]core.Row, 0, len(t.Rows))
	for _, it := range t.Rows {
		values := []string{it.Description, it.Quantity, it.UnitPrice, it.LineTotal}
		cols := make([]core.Col, 0, len(values))
		for i, v := range values {
			cols = append(cols, col.New(columnSizes[i]).Add(text.New(v, props.Text{
				Size: 8, Align: cellAlign(i), Top: 1.5, Left: 1, Right: 1,
			})))
		}
		r := row.New(7).Add(cols...)
		if it.Shade == document.ShadeOdd {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t document.Totals) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right,
			Color: colorPrimary, Right: right, Top: top,
		})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal", 1),
			label(t.TaxLabel, 6),
			grand(t.TotalLabel, 2, 12),
		),
		col.New(3).Add(
			value(t.Subtotal, 1),
			value(t.Tax, 6),
			grand(t.Total, 1, 12),
		),
	)
}

// paymentRow: información de pago (izq) y términos (der).
func paymentRow(p document.Payment, terms document.Terms) core.Row {
	termCol := col.New(7).Add(sectionLabel(strings.ToUpper(terms.Title), 1))
	for i, l := range terms.Lines {
		termCol.Add(text.New(l, props.Text{Size: 7, Top: 6 + float64(i)*4, Color: colorGray}))
	}
	return row.New(22).Add(
		col.New(5).Add(
			sectionLabel("PAYMENT INFORMATION", 1),
			text.New("Paid: "+p.Paid, props.Text{Size: 8, Top: 6}),
			text.New("Balance: "+p.Balance, props.Text{Style: fontstyle.Bold, Size: 8, Top: 10}),
			text.New("Status: "+p.Status, props.Text{Size: 8, Top: 14}),
		),
		termCol,
	)
}

func footerRow(f document.Footer) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(f.Message, props.Text{Size: 9, Align: align.Center, Top: 2, Color: colorPrimary}),
		text.New(f.ContactEmail, props.Text{Size: 8, Align: align.Center, Top: 7, Color: colorGray}),
	))
}

func sectionLabel(s string, top float64) core.Component {
	return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: top})
}
