package ports

import (
	"context"
	"io"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

// InvoiceAPI puerto de salida hacia los endpoints de facturación de la API REST.
type InvoiceAPI interface {
	// ListInvoices GET /api/billing/invoices?page&size&status. status vacío = todos.
	ListInvoices(ctx context.Context, page, size int, status string) (entity.InvoicePage, error)
	// SearchInvoices GET /api/billing/invoices/search?q= (resultado plano, sin paginar).
	SearchInvoices(ctx context.Context, query string) ([]entity.Invoice, error)
	GetInvoice(ctx context.Context, id entity.ID) (entity.Invoice, error)
	DeleteInvoice(ctx context.Context, id entity.ID) error
	GetBillingSummary(ctx context.Context) (entity.BillingSummary, error)
}

// CustomerAPI consulta de clientes.
type CustomerAPI interface {
	GetCustomer(ctx context.Context, id entity.ID) (entity.Customer, error)
}

// ReportAPI endpoints de reportes.
type ReportAPI interface {
	GetReport(ctx context.Context, bucket entity.ReportBucket) ([]entity.ReportRow, error)
	GetRevenueSummary(ctx context.Context) (entity.RevenueSummary, error)
	// FetchCSV devuelve el stream crudo del endpoint; el llamador debe cerrarlo.
	FetchCSV(ctx context.Context, endpoint string) (io.ReadCloser, error)
}
