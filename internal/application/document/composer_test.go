package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/format"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleInvoice() entity.Invoice {
	return entity.Invoice{
		ID:            "42",
		InvoiceNumber: "INV-2024-0042",
		CustomerID:    "9",
		BookingID:     "BK-77",
		Subtotal:      nd("150"),
		TaxAmount:     nd("22.5"),
		TotalAmount:   nd("172.5"),
		PaidAmount:    nd("72.5"),
		Balance:       nd("100"),
		Status:        "partial",
		InvoiceDate:   "2024-06-01T09:00:00",
		Items: []entity.InvoiceLine{
			{Description: "Oil change", Quantity: nd("1"), UnitPrice: nd("50"), LineTotal: nd("50")},
			{Description: "Brake pads", Quantity: nd("2"), UnitPrice: nd("40"), LineTotal: nd("80")},
			{Description: "Wiper blades", Quantity: nd("0.5"), UnitPrice: nd("40"), LineTotal: nd("20")},
		},
	}
}

func sampleCustomer() *entity.Customer {
	return &entity.Customer{ID: "9", FirstName: "Dana", LastName: "Ruiz", Email: "dana@example.com", Phone: "555-1234"}
}

func TestCompose_Completo(t *testing.T) {
	doc := document.Compose(sampleInvoice(), sampleCustomer(), entity.CompanyProfile{Name: "Taller Central"})

	assert.Equal(t, "Taller Central", doc.Header.CompanyName)
	assert.Equal(t, entity.DefaultCompany.Email, doc.Header.CompanyEmail, "campo vacío cae en el default")
	assert.Equal(t, "INV-2024-0042", doc.Header.InvoiceNumber)
	assert.Equal(t, "Jun 1, 2024", doc.Header.Date)
	assert.Equal(t, "PARTIAL", doc.Header.Status)

	assert.Equal(t, "Dana Ruiz", doc.BillTo.Name)
	assert.Equal(t, "", doc.BillTo.Address)
	assert.Equal(t, "BK-77", doc.ServiceInfo.BookingReference)

	require.Len(t, doc.Items.Rows, 3)
	assert.Empty(t, doc.Items.Placeholder)
	assert.Equal(t, document.ShadeEven, doc.Items.Rows[0].Shade)
	assert.Equal(t, document.ShadeOdd, doc.Items.Rows[1].Shade)
	assert.Equal(t, document.ShadeEven, doc.Items.Rows[2].Shade)
	assert.Equal(t, "2", doc.Items.Rows[1].Quantity)
	assert.Equal(t, "0.5", doc.Items.Rows[2].Quantity, "la cantidad se muestra tal cual")
	assert.Equal(t, "$40.00", doc.Items.Rows[1].UnitPrice)
	assert.Equal(t, "$80.00", doc.Items.Rows[1].LineTotal)

	assert.Equal(t, "$150.00", doc.Totals.Subtotal)
	assert.Equal(t, "Tax (15%)", doc.Totals.TaxLabel)
	assert.Equal(t, "$22.50", doc.Totals.Tax)
	assert.Equal(t, "$172.50", doc.Totals.Total)

	assert.Equal(t, "$72.50", doc.Payment.Paid)
	assert.Equal(t, "$100.00", doc.Payment.Balance)
	assert.NotEmpty(t, doc.Terms.Lines)
	assert.Equal(t, entity.DefaultCompany.Email, doc.Footer.ContactEmail)
	assert.Empty(t, doc.Reconciliation)
}

func TestCompose_SinLineas_UnaFilaPlaceholder(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = nil
	inv.Subtotal = decimal.NullDecimal{}

	doc := document.Compose(inv, nil, entity.CompanyProfile{})

	assert.Empty(t, doc.Items.Rows)
	assert.Equal(t, "No items found", doc.Items.Placeholder)
	assert.Equal(t, len(doc.Items.Columns), doc.Items.Span)
	assert.Equal(t, "$0.00", doc.Totals.Subtotal)
}

func TestCompose_BalanceAusenteUsaTotal(t *testing.T) {
	inv := entity.Invoice{ID: "7", TotalAmount: nd("1000"), PaidAmount: nd("400")}

	doc := document.Compose(inv, nil, entity.CompanyProfile{})

	assert.Equal(t, format.Currency(nd("1000")), doc.Payment.Balance, "sin balance se asume que no hay nada pagado")
	assert.NotEqual(t, "$600.00", doc.Payment.Balance)
	assert.Equal(t, "$400.00", doc.Payment.Paid)
}

func TestCompose_FallbacksDeMetadatos(t *testing.T) {
	inv := entity.Invoice{ID: "7", CreatedAt: "2024-01-15"}

	doc := document.Compose(inv, nil, entity.CompanyProfile{})

	assert.Equal(t, "7", doc.Header.InvoiceNumber, "sin invoiceNumber se usa el id")
	assert.Equal(t, "UNPAID", doc.Header.Status)
	assert.Equal(t, "Jan 15, 2024", doc.Header.Date, "sin invoiceDate se usa createdAt")
	assert.Equal(t, "$0.00", doc.Payment.Paid)
	assert.Equal(t, "$0.00", doc.Payment.Balance)
	assert.Equal(t, entity.DefaultCompany.Name, doc.Header.CompanyName)
	assert.Equal(t, document.BillTo{}, doc.BillTo)
}

func TestCompose_FechaInvalidaPasaTalCual(t *testing.T) {
	inv := entity.Invoice{ID: "1", InvoiceDate: "next tuesday"}
	doc := document.Compose(inv, nil, entity.CompanyProfile{})
	assert.Equal(t, "next tuesday", doc.Header.Date)

	doc = document.Compose(entity.Invoice{ID: "1"}, nil, entity.CompanyProfile{})
	assert.Equal(t, "-", doc.Header.Date)
}

func TestCompose_EsPura(t *testing.T) {
	inv := sampleInvoice()
	customer := sampleCustomer()
	company := entity.CompanyProfile{Name: "Taller Central", Email: "hola@taller.example"}

	first := document.Compose(inv, customer, company)
	second := document.Compose(inv, customer, company)

	assert.Equal(t, first, second)
	assert.Equal(t, sampleInvoice(), inv, "Compose no modifica la factura")
}

func TestReconcile_DetectaDescuadres(t *testing.T) {
	inv := sampleInvoice()
	inv.Balance = nd("90")
	inv.Items[1].LineTotal = nd("75")

	warnings := document.Reconcile(inv)

	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "balance 90.00")
	assert.Contains(t, warnings[1], "line 2")
	assert.Contains(t, warnings[2], "subtotal 150.00")
}

func TestReconcile_ToleranciaDeRedondeo(t *testing.T) {
	inv := entity.Invoice{
		ID:       "3",
		Subtotal: nd("10.00"),
		Items: []entity.InvoiceLine{
			{Quantity: nd("3"), UnitPrice: nd("3.333"), LineTotal: nd("10.00")},
		},
	}
	assert.Empty(t, document.Reconcile(inv))
}

func TestFilename(t *testing.T) {
	doc := document.Compose(entity.Invoice{ID: "5", InvoiceNumber: "INV 2024/05"}, nil, entity.CompanyProfile{})
	assert.Equal(t, "invoice-INV-2024-05.pdf", document.Filename(doc))
	assert.Equal(t, "invoice-draft.pdf", document.Filename(nil))
}
