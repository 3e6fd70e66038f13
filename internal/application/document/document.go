// Package document arma la representación de presentación de una factura.
//
// Estructura del documento compuesto:
//
//	┌─────────────────────────────────────────────────────┐
//	│  HEADER: Taller + contacto   │  INVOICE #, fecha     │
//	│  BILL TO: cliente            │  SERVICE INFO         │
//	│  ─────────────────────────────────────────────────  │
//	│  TABLA: Description | Qty | Unit Price | Total       │
//	│  ─────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Tax (15%) / TOTAL               │
//	│  PAGO: Paid / Balance        │  TERMS                │
//	│  FOOTER: agradecimiento + email                      │
//	└─────────────────────────────────────────────────────┘
//
// Después de Compose no quedan números crudos: todas las hojas son textos ya formateados.
package document

// RowShade clasificación del fondo alterno de la tabla.
type RowShade string

const (
	ShadeEven RowShade = "even"
	ShadeOdd  RowShade = "odd"
)

// ComposedDocument factura lista para renderizar.
type ComposedDocument struct {
	Header         Header
	BillTo         BillTo
	ServiceInfo    ServiceInfo
	Items          ItemTable
	Totals         Totals
	Payment        Payment
	Terms          Terms
	Footer         Footer
	Reconciliation []string // avisos informativos; no alteran las cifras mostradas
}

// Header encabezado con los datos del taller y de la factura.
type Header struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	Title          string
	InvoiceNumber  string
	Date           string
	Status         string
}

// BillTo datos del cliente; los ausentes quedan en blanco.
type BillTo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// ServiceInfo referencia de la reserva que originó la factura.
type ServiceInfo struct {
	BookingReference string
	InvoiceDate      string
	Status           string
}

// ItemTable tabla de líneas. Si Rows está vacío se muestra Placeholder ocupando Span columnas.
type ItemTable struct {
	Columns     []string
	Rows        []ItemRow
	Placeholder string
	Span        int
}

// ItemRow fila ya formateada.
type ItemRow struct {
	Index       int
	Shade       RowShade
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// Totals bloque de totales.
type Totals struct {
	Subtotal   string
	TaxLabel   string
	Tax        string
	TotalLabel string
	Total      string
}

// Payment información de pago.
type Payment struct {
	Paid    string
	Balance string
	Status  string
}

// Terms términos y condiciones estáticos.
type Terms struct {
	Title string
	Lines []string
}

// Footer pie del documento.
type Footer struct {
	Message      string
	ContactEmail string
}

// Surface representación renderizada de un documento, lista para entregarse a un Printer.
// Conserva el documento para motores que maquetan desde la estructura (maroto).
type Surface struct {
	Title       string
	Filename    string
	ContentType string
	Markup      string
	Document    *ComposedDocument
}
