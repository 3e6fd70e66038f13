// Package export contiene el pipeline de exportación: la sesión que prepara e imprime
// una factura (PDF) y la descarga de reportes en CSV.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// State estado de la sesión de exportación.
type State int

const (
	StateIdle State = iota
	StateCustomerLoading
	StateReady
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCustomerLoading:
		return "customer_loading"
	case StateReady:
		return "ready"
	case StateExporting:
		return "exporting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrStaleTicket la sesión se cerró o cambió de factura antes de que terminara la carga.
	ErrStaleTicket = errors.New("export: la selección cambió antes de completar la carga")
	// ErrExportInProgress ya hay una impresión en curso en esta sesión.
	ErrExportInProgress = errors.New("export: ya hay una impresión en curso")
	// ErrNotReady la vista previa aún no está disponible.
	ErrNotReady = errors.New("export: la vista previa no está lista")
)

// Ticket identifica una selección concreta. Un resultado que llega con un ticket
// viejo se descarta.
type Ticket struct {
	gen     uint64
	invoice entity.Invoice
}

// Invoice factura asociada al ticket.
func (t Ticket) Invoice() entity.Invoice { return t.invoice }

// SessionDeps dependencias de la sesión.
type SessionDeps struct {
	Customers ports.CustomerAPI
	Renderer  ports.Renderer
	Printer   ports.Printer
	Company   entity.CompanyProfile
	ExportLog repository.ExportLogRepository // opcional
	Log       *logger.Logger
	Now       func() time.Time // opcional; time.Now por defecto
}

// Session máquina de estados Idle → CustomerLoading → Ready → Exporting → Ready|Idle
// de una exportación de factura. Segura para uso concurrente; la impresión no es reentrante.
type Session struct {
	deps SessionDeps
	log  *logger.Logger

	mu       sync.Mutex
	state    State
	gen      uint64
	invoice  *entity.Invoice
	customer *entity.Customer
}

// NewSession construye la sesión en estado Idle.
func NewSession(deps SessionDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Session{deps: deps, log: deps.Log.Component("export.session")}
}

// State estado actual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Invoice factura seleccionada (nil en Idle).
func (s *Session) Invoice() *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoice == nil {
		return nil
	}
	inv := *s.invoice
	return &inv
}

// Customer cliente cargado (nil si no hay o si la consulta falló).
func (s *Session) Customer() *entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return nil
	}
	c := *s.customer
	return &c
}

// Select inicia una exportación para invoice: descarta cualquier estado anterior y pasa a
// CustomerLoading. El ticket devuelto debe pasarse a LoadCustomer.
func (s *Session) Select(invoice entity.Invoice) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	inv := invoice
	s.invoice = &inv
	s.customer = nil
	s.state = StateCustomerLoading
	return Ticket{gen: s.gen, invoice: invoice}
}

// LoadCustomer consulta el cliente de la factura del ticket (si la referencia) y pasa a
// Ready. Un fallo de la consulta no bloquea la exportación: el cliente queda vacío.
// Si la sesión se cerró o cambió de selección mientras tanto, el resultado se descarta
// y se devuelve ErrStaleTicket. La petición en curso no se cancela al cerrar.
func (s *Session) LoadCustomer(ctx context.Context, t Ticket) error {
	var customer *entity.Customer
	if id := t.invoice.CustomerID; !id.IsZero() && s.deps.Customers != nil {
		c, err := s.deps.Customers.GetCustomer(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).
				Str("invoice_id", t.invoice.ID.String()).
				Str("customer_id", id.String()).
				Msg("no se pudo cargar el cliente; se exporta con datos en blanco")
		} else {
			customer = &c
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen || s.state != StateCustomerLoading {
		return ErrStaleTicket
	}
	s.customer = customer
	s.state = StateReady
	return nil
}

// Open Select + LoadCustomer en una sola llamada bloqueante.
func (s *Session) Open(ctx context.Context, invoice entity.Invoice) error {
	return s.LoadCustomer(ctx, s.Select(invoice))
}

// Close vuelve a Idle y limpia la selección. Cualquier carga pendiente queda obsoleta.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.invoice = nil
	s.customer = nil
	s.state = StateIdle
}

// Document compone el documento de la selección actual (Ready o Exporting).
func (s *Session) Document() (*document.ComposedDocument, error) {
	inv, customer, _, err := s.current(false)
	if err != nil {
		return nil, err
	}
	return document.Compose(inv, customer, s.deps.Company), nil
}

// Preview renderiza la superficie visible del modal.
func (s *Session) Preview() (*document.Surface, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	surface, err := s.deps.Renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("export: renderizar vista previa: %w", err)
	}
	return surface, nil
}

// Print Ready → Exporting: renderiza la superficie actual y la entrega al Printer, que
// escribe el PDF en w. Al terminar la sesión vuelve a Ready, salvo que se haya cerrado
// durante la impresión.
func (s *Session) Print(ctx context.Context, w io.Writer) (*document.Surface, error) {
	inv, customer, gen, err := s.current(true)
	if err != nil {
		return nil, err
	}
	defer s.finishExport(gen)

	doc := document.Compose(inv, customer, s.deps.Company)
	surface, err := s.deps.Renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("export: renderizar superficie: %w", err)
	}

	cw := &countingWriter{w: w}
	if err := s.deps.Printer.Print(ctx, surface, cw); err != nil {
		return nil, fmt.Errorf("export: imprimir %s: %w", surface.Filename, err)
	}

	s.log.Info().
		Str("invoice", doc.Header.InvoiceNumber).
		Str("engine", s.deps.Printer.Engine()).
		Int64("bytes", cw.n).
		Msg("factura exportada")
	s.record(ctx, &entity.ExportRecord{
		Kind:        entity.ExportKindInvoicePDF,
		Reference:   doc.Header.InvoiceNumber,
		Filename:    surface.Filename,
		Engine:      s.deps.Printer.Engine(),
		TotalAmount: inv.TotalAmount.Decimal,
		Bytes:       cw.n,
	})
	return surface, nil
}

// current devuelve la selección si la sesión está lista. Con export=true además reserva
// la transición a Exporting.
func (s *Session) current(export bool) (entity.Invoice, *entity.Customer, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle:
		return entity.Invoice{}, nil, 0, domain.ErrNoSelection
	case StateCustomerLoading:
		return entity.Invoice{}, nil, 0, ErrNotReady
	case StateExporting:
		if export {
			return entity.Invoice{}, nil, 0, ErrExportInProgress
		}
	}
	if export {
		s.state = StateExporting
	}
	var customer *entity.Customer
	if s.customer != nil {
		c := *s.customer
		customer = &c
	}
	return *s.invoice, customer, s.gen, nil
}

func (s *Session) finishExport(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.state == StateExporting {
		s.state = StateReady
	}
}

func (s *Session) record(ctx context.Context, rec *entity.ExportRecord) {
	if s.deps.ExportLog == nil {
		return
	}
	rec.ID = uuid.New().String()
	rec.CreatedAt = s.deps.Now().UTC()
	if err := s.deps.ExportLog.Record(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("reference", rec.Reference).Msg("no se pudo registrar la exportación")
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
