package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/format"
)

// Textos fijos del documento.
const (
	TitleInvoice       = "INVOICE"
	TaxLabel           = "Tax (15%)" // etiqueta de presentación; no se recalcula desde las líneas
	TotalLabel         = "Total"
	NoItemsPlaceholder = "No items found"
	FooterMessage      = "Thank you for choosing us for your vehicle service!"
)

// ItemColumns cabeceras de la tabla de líneas.
var ItemColumns = []string{"Description", "Qty", "Unit Price", "Total"}

// TermsLines términos de pago impresos en todas las facturas.
var TermsLines = []string{
	"Payment is due within 30 days of the invoice date.",
	"Parts carry the manufacturer's warranty; labor is warranted for 90 days.",
	"Vehicles not collected within 7 days of completion may incur storage fees.",
}

// reconcileTolerance diferencia máxima aceptada entre una cifra y su valor derivado.
var reconcileTolerance = decimal.RequireFromString("0.01")

var filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Compose arma el documento a partir de la factura, el cliente (puede ser nil) y el
// perfil del taller. Es una función pura y total: cualquier campo ausente o inválido
// cae en su valor por defecto en lugar de abortar.
func Compose(invoice entity.Invoice, customer *entity.Customer, company entity.CompanyProfile) *ComposedDocument {
	profile := company.Resolve()
	number := invoice.Number()
	date := format.Date(firstNonBlank(invoice.InvoiceDate, invoice.CreatedAt))
	status := resolveStatus(invoice.Status)

	return &ComposedDocument{
		Header: Header{
			CompanyName:    profile.Name,
			CompanyAddress: profile.Address,
			CompanyPhone:   profile.Phone,
			CompanyEmail:   profile.Email,
			Title:          TitleInvoice,
			InvoiceNumber:  number,
			Date:           date,
			Status:         status,
		},
		BillTo: billTo(customer),
		ServiceInfo: ServiceInfo{
			BookingReference: invoice.BookingID.String(),
			InvoiceDate:      date,
			Status:           status,
		},
		Items: itemTable(invoice.Items),
		Totals: Totals{
			Subtotal:   format.Currency(invoice.Subtotal),
			TaxLabel:   TaxLabel,
			Tax:        format.Currency(invoice.TaxAmount),
			TotalLabel: TotalLabel,
			Total:      format.Currency(invoice.TotalAmount),
		},
		Payment: Payment{
			Paid:    format.Currency(invoice.PaidAmount),
			Balance: format.Currency(balanceOf(invoice)),
			Status:  status,
		},
		Terms: Terms{
			Title: "Terms & Conditions",
			Lines: append([]string(nil), TermsLines...),
		},
		Footer: Footer{
			Message:      FooterMessage,
			ContactEmail: profile.Email,
		},
		Reconciliation: Reconcile(invoice),
	}
}

// Filename nombre de archivo PDF para el documento: "invoice-<número>.pdf".
func Filename(doc *ComposedDocument) string {
	number := ""
	if doc != nil {
		number = strings.Trim(filenameUnsafe.ReplaceAllString(doc.Header.InvoiceNumber, "-"), "-")
	}
	if number == "" {
		number = "draft"
	}
	return "invoice-" + number + ".pdf"
}

// balanceOf devuelve balance o, si falta, totalAmount (se asume que no hay nada pagado).
func balanceOf(invoice entity.Invoice) decimal.NullDecimal {
	if invoice.Balance.Valid {
		return invoice.Balance
	}
	return invoice.TotalAmount
}

func resolveStatus(raw string) string {
	if s := strings.ToUpper(strings.TrimSpace(raw)); s != "" {
		return s
	}
	return entity.InvoiceStatusUnpaid
}

func billTo(customer *entity.Customer) BillTo {
	if customer == nil {
		return BillTo{}
	}
	return BillTo{
		Name:    customer.FullName(),
		Email:   strings.TrimSpace(customer.Email),
		Phone:   strings.TrimSpace(customer.Phone),
		Address: strings.TrimSpace(customer.Address),
	}
}

func itemTable(lines []entity.InvoiceLine) ItemTable {
	table := ItemTable{
		Columns: append([]string(nil), ItemColumns...),
		Span:    len(ItemColumns),
	}
	if len(lines) == 0 {
		table.Placeholder = NoItemsPlaceholder
		return table
	}
	table.Rows = make([]ItemRow, 0, len(lines))
	for i, l := range lines {
		shade := ShadeEven
		if i%2 == 1 {
			shade = ShadeOdd
		}
		table.Rows = append(table.Rows, ItemRow{
			Index:       i,
			Shade:       shade,
			Description: firstNonBlank(l.Description, format.Placeholder),
			Quantity:    rawQuantity(l.Quantity),
			UnitPrice:   format.Currency(l.UnitPrice),
			LineTotal:   format.Currency(l.LineTotal),
		})
	}
	return table
}

// rawQuantity muestra la cantidad tal cual llega, sin formato de moneda ni redondeo.
func rawQuantity(q decimal.NullDecimal) string {
	if !q.Valid {
		return "0"
	}
	return q.Decimal.String()
}

// Reconcile verifica las relaciones entre las cifras de la factura y devuelve un aviso
// por cada una que no se cumple. Los campos ausentes no se verifican.
func Reconcile(invoice entity.Invoice) []string {
	var warnings []string
	if invoice.TotalAmount.Valid && invoice.Balance.Valid {
		paid := decimal.Zero
		if invoice.PaidAmount.Valid {
			paid = invoice.PaidAmount.Decimal
		}
		expected := invoice.TotalAmount.Decimal.Sub(paid)
		if !within(invoice.Balance.Decimal, expected) {
			warnings = append(warnings, fmt.Sprintf("balance %s does not match total minus paid (%s)",
				invoice.Balance.Decimal.StringFixed(2), expected.StringFixed(2)))
		}
	}
	sum := decimal.Zero
	allTotals := len(invoice.Items) > 0
	for i, l := range invoice.Items {
		if !l.LineTotal.Valid {
			allTotals = false
			continue
		}
		sum = sum.Add(l.LineTotal.Decimal)
		if l.Quantity.Valid && l.UnitPrice.Valid {
			expected := l.Quantity.Decimal.Mul(l.UnitPrice.Decimal)
			if !within(l.LineTotal.Decimal, expected) {
				warnings = append(warnings, fmt.Sprintf("line %d total %s does not match quantity x unit price (%s)",
					i+1, l.LineTotal.Decimal.StringFixed(2), expected.StringFixed(2)))
			}
		}
	}
	if allTotals && invoice.Subtotal.Valid && !within(invoice.Subtotal.Decimal, sum) {
		warnings = append(warnings, fmt.Sprintf("subtotal %s does not match sum of line totals (%s)",
			invoice.Subtotal.Decimal.StringFixed(2), sum.StringFixed(2)))
	}
	return warnings
}

func within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(reconcileTolerance)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
