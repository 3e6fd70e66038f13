package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

func newSession(customers *fakeCustomers, printer *capturePrinter, log *memoryLog) *export.Session {
	deps := export.SessionDeps{
		Customers: customers,
		Renderer:  fakeRenderer{},
		Printer:   printer,
		Company:   entity.CompanyProfile{Name: "Taller Central"},
		Log:       logger.Nop(),
		Now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	if log != nil {
		deps.ExportLog = log
	}
	return export.NewSession(deps)
}

func invoiceWithCustomer() entity.Invoice {
	return entity.Invoice{
		ID:            "12",
		InvoiceNumber: "INV-12",
		CustomerID:    "9",
		TotalAmount:   decimal.NewNullDecimal(decimal.NewFromInt(250)),
	}
}

func TestSession_FlujoCompleto(t *testing.T) {
	customers := &fakeCustomers{customer: entity.Customer{ID: "9", FirstName: "Dana", LastName: "Ruiz"}}
	printer := &capturePrinter{}
	log := &memoryLog{}
	s := newSession(customers, printer, log)

	assert.Equal(t, export.StateIdle, s.State())

	ticket := s.Select(invoiceWithCustomer())
	assert.Equal(t, export.StateCustomerLoading, s.State())
	_, err := s.Preview()
	assert.ErrorIs(t, err, export.ErrNotReady, "el modal no se muestra hasta que la carga termine")

	require.NoError(t, s.LoadCustomer(context.Background(), ticket))
	assert.Equal(t, export.StateReady, s.State())
	require.NotNil(t, s.Customer())
	assert.Equal(t, "Dana Ruiz", s.Customer().FullName())

	preview, err := s.Preview()
	require.NoError(t, err)
	assert.Contains(t, preview.Markup, "Dana Ruiz")

	var out bytes.Buffer
	surface, err := s.Print(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV-12.pdf", surface.Filename)
	assert.Equal(t, export.StateReady, s.State(), "tras imprimir se vuelve a Ready")
	assert.Contains(t, out.String(), "%PDF-fake")

	captured := printer.captured()
	require.Len(t, captured, 1)
	assert.Equal(t, preview.Markup, captured[0].Markup)

	require.Len(t, log.records, 1)
	assert.Equal(t, entity.ExportKindInvoicePDF, log.records[0].Kind)
	assert.Equal(t, "INV-12", log.records[0].Reference)
	assert.Equal(t, int64(out.Len()), log.records[0].Bytes)
	assert.NotEmpty(t, log.records[0].ID)

	s.Close()
	assert.Equal(t, export.StateIdle, s.State())
	assert.Nil(t, s.Invoice())
	assert.Nil(t, s.Customer())
}

func TestSession_FalloDeClienteNoBloquea(t *testing.T) {
	customers := &fakeCustomers{err: errors.New("HTTP 500")}
	s := newSession(customers, &capturePrinter{}, nil)

	require.NoError(t, s.Open(context.Background(), invoiceWithCustomer()))

	assert.Equal(t, export.StateReady, s.State())
	assert.Nil(t, s.Customer())
	doc, err := s.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.BillTo.Name)
}

func TestSession_SinClienteNoConsulta(t *testing.T) {
	customers := &fakeCustomers{}
	s := newSession(customers, &capturePrinter{}, nil)

	inv := invoiceWithCustomer()
	inv.CustomerID = ""
	require.NoError(t, s.Open(context.Background(), inv))

	assert.Equal(t, 0, customers.callCount())
	assert.Equal(t, export.StateReady, s.State())
}

func TestSession_CerrarDescartaRespuestaTardia(t *testing.T) {
	customers := &fakeCustomers{customer: entity.Customer{FirstName: "Tarde"}, gate: make(chan struct{})}
	s := newSession(customers, &capturePrinter{}, nil)

	ticket := s.Select(invoiceWithCustomer())
	done := make(chan error, 1)
	go func() { done <- s.LoadCustomer(context.Background(), ticket) }()

	s.Close()
	close(customers.gate)

	assert.ErrorIs(t, <-done, export.ErrStaleTicket)
	assert.Equal(t, export.StateIdle, s.State())
	assert.Nil(t, s.Customer())
}

func TestSession_NuevaSeleccionInvalidaTicketAnterior(t *testing.T) {
	customers := &fakeCustomers{customer: entity.Customer{FirstName: "Dana"}}
	s := newSession(customers, &capturePrinter{}, nil)

	old := s.Select(invoiceWithCustomer())
	second := invoiceWithCustomer()
	second.ID, second.InvoiceNumber = "13", "INV-13"
	current := s.Select(second)

	assert.ErrorIs(t, s.LoadCustomer(context.Background(), old), export.ErrStaleTicket)
	require.NoError(t, s.LoadCustomer(context.Background(), current))
	assert.Equal(t, entity.ID("13"), s.Invoice().ID)
}

func TestSession_ImprimirSinSeleccion(t *testing.T) {
	s := newSession(&fakeCustomers{}, &capturePrinter{}, nil)
	_, err := s.Print(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestSession_ImpresionNoReentrante(t *testing.T) {
	printer := &capturePrinter{gate: make(chan struct{}), started: make(chan struct{})}
	s := newSession(&fakeCustomers{}, printer, nil)
	require.NoError(t, s.Open(context.Background(), invoiceWithCustomer()))

	done := make(chan error, 1)
	go func() {
		_, err := s.Print(context.Background(), &bytes.Buffer{})
		done <- err
	}()
	<-printer.started
	assert.Equal(t, export.StateExporting, s.State())

	_, err := s.Print(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, export.ErrExportInProgress)

	close(printer.gate)
	require.NoError(t, <-done)
	assert.Equal(t, export.StateReady, s.State())
}

func TestSession_CerrarDuranteImpresionTerminaEnIdle(t *testing.T) {
	printer := &capturePrinter{gate: make(chan struct{}), started: make(chan struct{})}
	s := newSession(&fakeCustomers{}, printer, nil)
	require.NoError(t, s.Open(context.Background(), invoiceWithCustomer()))

	done := make(chan error, 1)
	go func() {
		_, err := s.Print(context.Background(), &bytes.Buffer{})
		done <- err
	}()
	<-printer.started
	s.Close()
	close(printer.gate)

	require.NoError(t, <-done)
	assert.Equal(t, export.StateIdle, s.State())
}

func TestSession_FalloDeImpresionVuelveAReady(t *testing.T) {
	printer := &capturePrinter{err: errors.New("chromium no disponible")}
	log := &memoryLog{}
	s := newSession(&fakeCustomers{}, printer, log)
	require.NoError(t, s.Open(context.Background(), invoiceWithCustomer()))

	_, err := s.Print(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium no disponible")
	assert.Equal(t, export.StateReady, s.State())
	assert.Empty(t, log.records)
}

func TestSession_FalloDeBitacoraNoAfectaExportacion(t *testing.T) {
	log := &memoryLog{err: errors.New("db caída")}
	s := newSession(&fakeCustomers{}, &capturePrinter{}, log)
	require.NoError(t, s.Open(context.Background(), invoiceWithCustomer()))

	_, err := s.Print(context.Background(), &bytes.Buffer{})
	assert.NoError(t, err)
}
