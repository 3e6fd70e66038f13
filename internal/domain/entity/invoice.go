package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Estados de pago de una factura.
const (
	InvoiceStatusUnpaid  = "UNPAID"
	InvoiceStatusPartial = "PARTIAL"
	InvoiceStatusPaid    = "PAID"
)

// InvoiceStatuses estados aceptados por el filtro del listado (en orden de pantalla).
var InvoiceStatuses = []string{InvoiceStatusUnpaid, InvoiceStatusPartial, InvoiceStatusPaid}

// NormalizeStatus devuelve el estado en mayúsculas si es conocido; "" en otro caso.
func NormalizeStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, known := range InvoiceStatuses {
		if s == known {
			return s
		}
	}
	return ""
}

// Invoice snapshot inmutable de una factura tal como la devuelve la API.
// Los importes son NullDecimal: un campo ausente o null queda con Valid=false.
type Invoice struct {
	ID            ID                  `json:"id"`
	InvoiceNumber string              `json:"invoiceNumber"`
	CustomerID    ID                  `json:"customerId"`
	BookingID     ID                  `json:"bookingId"`
	Subtotal      decimal.NullDecimal `json:"subtotal"`
	TaxAmount     decimal.NullDecimal `json:"taxAmount"`
	TotalAmount   decimal.NullDecimal `json:"totalAmount"`
	PaidAmount    decimal.NullDecimal `json:"paidAmount"`
	Balance       decimal.NullDecimal `json:"balance"`
	Status        string              `json:"status"`
	InvoiceDate   string              `json:"invoiceDate"`
	CreatedAt     string              `json:"createdAt"`
	Items         []InvoiceLine       `json:"items"`
}

// InvoiceLine línea de detalle (servicio o repuesto) de la factura.
type InvoiceLine struct {
	Description string              `json:"description"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice"`
	LineTotal   decimal.NullDecimal `json:"lineTotal"`
}

// InvoicePage página del listado paginado.
type InvoicePage struct {
	Content    []Invoice `json:"content"`
	TotalPages int       `json:"totalPages"`
}

// Number devuelve invoiceNumber o, si falta, el id.
func (i Invoice) Number() string {
	if n := strings.TrimSpace(i.InvoiceNumber); n != "" {
		return n
	}
	return i.ID.String()
}
