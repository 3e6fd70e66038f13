package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de exportación registrados en la bitácora.
const (
	ExportKindInvoicePDF = "invoice_pdf"
	ExportKindReportCSV  = "report_csv"
)

// ExportRecord entrada de la bitácora de exportaciones.
type ExportRecord struct {
	ID          string
	Kind        string
	Reference   string          // número de factura o nombre del bucket
	Filename    string
	Engine      string          // chrome | maroto | api | local
	TotalAmount decimal.Decimal // cero para reportes
	Bytes       int64
	CreatedAt   time.Time
}
