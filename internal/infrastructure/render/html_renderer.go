// Package render convierte un documento compuesto en la superficie HTML que se muestra
// en la vista previa y se entrega al motor de impresión.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
)

var _ ports.Renderer = (*HTMLRenderer)(nil)

// ContentTypeHTML tipo MIME de la superficie.
const ContentTypeHTML = "text/html; charset=utf-8"

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Header.InvoiceNumber}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 24px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #1f2937;
      background: #ffffff;
      font-size: 13px;
    }
    .invoice { max-width: 820px; margin: 0 auto; }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 3px solid #1e3a8a;
      padding-bottom: 16px;
      margin-bottom: 20px;
    }
    .company-name { font-size: 20px; font-weight: 700; color: #1e3a8a; }
    .title { font-size: 28px; font-weight: 700; letter-spacing: 0.08em; color: #1e3a8a; text-align: right; }
    .meta { text-align: right; }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 10px;
      margin-bottom: 4px;
    }
    .columns { display: flex; gap: 24px; margin-bottom: 20px; }
    .column { flex: 1; }
    .status { display: inline-block; padding: 2px 8px; border-radius: 4px; background: #e0e7ff; color: #1e3a8a; font-weight: 700; font-size: 11px; }
    table { width: 100%; border-collapse: collapse; }
    th {
      background: #1e3a8a;
      color: #ffffff;
      text-transform: uppercase;
      font-size: 10px;
      letter-spacing: 0.04em;
      padding: 8px;
      text-align: left;
    }
    td { padding: 8px; border-bottom: 1px solid #e5e7eb; }
    tr.even td { background: #ffffff; }
    tr.odd td { background: #f3f4f6; }
    .num { text-align: right; }
    .placeholder { text-align: center; color: #6b7280; font-style: italic; }
    .totals { margin-left: auto; width: 280px; margin-top: 12px; }
    .totals .line { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { border-top: 2px solid #1e3a8a; font-size: 16px; font-weight: 700; margin-top: 4px; padding-top: 8px; }
    .terms li { margin-bottom: 2px; }
    .footer {
      border-top: 1px solid #e5e7eb;
      margin-top: 24px;
      padding-top: 12px;
      text-align: center;
      color: #6b7280;
      font-size: 12px;
    }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div>
        <div class="company-name">{{.Header.CompanyName}}</div>
        <div>{{.Header.CompanyAddress}}</div>
        <div>{{.Header.CompanyPhone}}</div>
        <div>{{.Header.CompanyEmail}}</div>
      </div>
      <div class="meta">
        <div class="title">{{.Header.Title}}</div>
        <div><strong>#{{.Header.InvoiceNumber}}</strong></div>
        <div>Date: {{.Header.Date}}</div>
        <div><span class="status">{{.Header.Status}}</span></div>
      </div>
    </div>

    <div class="columns">
      <div class="column">
        <div class="label">Bill To</div>
        <div><strong>{{.BillTo.Name}}</strong></div>
        <div>{{.BillTo.Email}}</div>
        <div>{{.BillTo.Phone}}</div>
        <div>{{.BillTo.Address}}</div>
      </div>
      <div class="column">
        <div class="label">Service Information</div>
        <div>Booking: {{.ServiceInfo.BookingReference}}</div>
        <div>Invoice date: {{.ServiceInfo.InvoiceDate}}</div>
        <div>Status: {{.ServiceInfo.Status}}</div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          {{range $i, $c := .Items.Columns}}<th{{if $i}} class="num"{{end}}>{{$c}}</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{range .Items.Rows}}
        <tr class="{{.Shade}}">
          <td>{{.Description}}</td>
          <td class="num">{{.Quantity}}</td>
          <td class="num">{{.UnitPrice}}</td>
          <td class="num">{{.LineTotal}}</td>
        </tr>
        {{else}}
        <tr><td class="placeholder" colspan="{{.Items.Span}}">{{.Items.Placeholder}}</td></tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="line"><span>Subtotal</span><span>{{.Totals.Subtotal}}</span></div>
      <div class="line"><span>{{.Totals.TaxLabel}}</span><span>{{.Totals.Tax}}</span></div>
      <div class="line grand"><span>{{.Totals.TotalLabel}}</span><span>{{.Totals.Total}}</span></div>
    </div>

    <div class="columns">
      <div class="column">
        <div class="label">Payment Information</div>
        <div>Paid: {{.Payment.Paid}}</div>
        <div>Balance: {{.Payment.Balance}}</div>
        <div>Status: {{.Payment.Status}}</div>
      </div>
      <div class="column terms">
        <div class="label">{{.Terms.Title}}</div>
        <ul>{{range .Terms.Lines}}<li>{{.}}</li>{{end}}</ul>
      </div>
    </div>

    <div class="footer">
      <div>{{.Footer.Message}}</div>
      <div>{{.Footer.ContactEmail}}</div>
    </div>
  </div>
</body>
</html>
`

// HTMLRenderer implementa ports.Renderer con html/template.
type HTMLRenderer struct {
	tpl *template.Template
}

// NewHTMLRenderer compila la plantilla de factura.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Parse(invoiceHTMLTemplate)),
	}
}

// Render produce la superficie HTML del documento. El Markup es determinista para un
// mismo documento.
func (r *HTMLRenderer) Render(doc *document.ComposedDocument) (*document.Surface, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: documento nil")
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render: ejecutar plantilla: %w", err)
	}
	return &document.Surface{
		Title:       "Invoice " + doc.Header.InvoiceNumber,
		Filename:    document.Filename(doc),
		ContentType: ContentTypeHTML,
		Markup:      buf.String(),
		Document:    doc,
	}, nil
}
