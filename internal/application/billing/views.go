package billing

import (
	"strings"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/format"
)

// BoardView estado del tablero listo para pintar.
type BoardView struct {
	Page       int
	PageSize   int
	TotalPages int
	Status     string
	Query      string
	Mode       Mode
	Loading    bool
	// Paginated indica si se muestran los controles de página (solo en modo listado).
	Paginated bool

	Invoices []entity.Invoice
	Rows     []InvoiceRow
	Summary  *SummaryView

	ListError    string
	SummaryError string
	DeleteError  string
}

// InvoiceRow fila formateada de la tabla de facturas.
type InvoiceRow struct {
	ID      entity.ID
	Number  string
	Date    string
	Total   string
	Paid    string
	Balance string
	Status  string
}

// SummaryView tarjetas del resumen de facturación.
type SummaryView struct {
	TotalInvoices    int64
	PaidInvoices     int64
	UnpaidInvoices   int64
	PartialInvoices  int64
	TotalRevenue     string
	TotalOutstanding string
}

func invoiceRows(invoices []entity.Invoice) []InvoiceRow {
	rows := make([]InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		date := inv.InvoiceDate
		if strings.TrimSpace(date) == "" {
			date = inv.CreatedAt
		}
		balance := inv.Balance
		if !balance.Valid {
			balance = inv.TotalAmount
		}
		status := strings.ToUpper(strings.TrimSpace(inv.Status))
		if status == "" {
			status = entity.InvoiceStatusUnpaid
		}
		rows = append(rows, InvoiceRow{
			ID:      inv.ID,
			Number:  inv.Number(),
			Date:    format.Date(date),
			Total:   format.Currency(inv.TotalAmount),
			Paid:    format.Currency(inv.PaidAmount),
			Balance: format.Currency(balance),
			Status:  status,
		})
	}
	return rows
}

func summaryView(s entity.BillingSummary) SummaryView {
	return SummaryView{
		TotalInvoices:    s.TotalInvoices,
		PaidInvoices:     s.PaidInvoices,
		UnpaidInvoices:   s.UnpaidInvoices,
		PartialInvoices:  s.PartialInvoices,
		TotalRevenue:     format.Currency(s.TotalRevenue),
		TotalOutstanding: format.Currency(s.TotalOutstanding),
	}
}
