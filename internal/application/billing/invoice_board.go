package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// DefaultPageSize tamaño de página cuando la configuración no define uno.
const DefaultPageSize = 10

// ErrSuperseded otra carga más reciente reemplazó a esta; su resultado se descartó.
var ErrSuperseded = errors.New("billing: carga reemplazada por una más reciente")

// Mode modo del listado.
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "list"
}

// Confirmer pide confirmación al usuario antes de una acción destructiva.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed Confirmer que siempre acepta; útil cuando la confirmación ya ocurrió en la UI.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// InvoiceBoard estado del listado de facturas (página, filtro, búsqueda) y del resumen
// de facturación. Cada carga cancela la anterior y solo la más reciente escribe estado.
type InvoiceBoard struct {
	api      ports.InvoiceAPI
	log      *logger.Logger
	pageSize int

	mu         sync.Mutex
	page       int
	status     string
	query      string
	mode       Mode
	invoices   []entity.Invoice
	totalPages int
	summary    *entity.BillingSummary
	loading    bool

	listErr    string
	summaryErr string
	deleteErr  string

	listSeq       uint64
	listCancel    context.CancelFunc
	summarySeq    uint64
	summaryCancel context.CancelFunc
}

// NewInvoiceBoard construye el tablero. pageSize <= 0 usa DefaultPageSize.
func NewInvoiceBoard(api ports.InvoiceAPI, pageSize int, log *logger.Logger) *InvoiceBoard {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &InvoiceBoard{api: api, pageSize: pageSize, log: log.Component("billing.board")}
}

// Load refresca el listado (según el modo actual) y, de forma independiente, el resumen.
// Devuelve el error del listado; el del resumen queda en el snapshot.
func (b *InvoiceBoard) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.refreshSummary(ctx)
	}()
	err := b.refreshList(ctx)
	wg.Wait()
	return err
}

// SetStatus cambia el filtro de estado. La página vuelve a 0 antes de consultar.
// Un estado desconocido equivale a "todos".
func (b *InvoiceBoard) SetStatus(ctx context.Context, status string) error {
	b.mu.Lock()
	b.status = entity.NormalizeStatus(status)
	b.page = 0
	b.mode = ModeList
	b.query = ""
	b.mu.Unlock()
	return b.Load(ctx)
}

// SetPage cambia la página (mínimo 0) y recarga.
func (b *InvoiceBoard) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	b.mu.Lock()
	b.page = page
	b.mu.Unlock()
	return b.Load(ctx)
}

// NextPage avanza una página si existe.
func (b *InvoiceBoard) NextPage(ctx context.Context) error {
	b.mu.Lock()
	page, total, mode := b.page, b.totalPages, b.mode
	b.mu.Unlock()
	if mode != ModeList || page+1 >= total {
		return nil
	}
	return b.SetPage(ctx, page+1)
}

// PrevPage retrocede una página si no está en la primera.
func (b *InvoiceBoard) PrevPage(ctx context.Context) error {
	b.mu.Lock()
	page, mode := b.page, b.mode
	b.mu.Unlock()
	if mode != ModeList || page == 0 {
		return nil
	}
	return b.SetPage(ctx, page-1)
}

// Search busca por texto libre. Una consulta vacía (tras recortar espacios) vuelve al
// listado paginado sin filtro de texto; no llama al endpoint de búsqueda.
func (b *InvoiceBoard) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	b.mu.Lock()
	b.query = query
	if query == "" {
		b.mode = ModeList
		b.page = 0
	} else {
		b.mode = ModeSearch
	}
	b.mu.Unlock()
	return b.Load(ctx)
}

// Delete elimina la factura id si confirm lo acepta. En éxito recarga todo; en fallo
// guarda el mensaje de la API para mostrarlo y deja el listado como estaba.
func (b *InvoiceBoard) Delete(ctx context.Context, id entity.ID, confirm Confirmer) error {
	if id.IsZero() {
		return fmt.Errorf("%w: id de factura vacío", domain.ErrInvalidInput)
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("¿Eliminar la factura %s?", id)) {
		return nil
	}
	if err := b.api.DeleteInvoice(ctx, id); err != nil {
		msg := domain.Message(err)
		b.mu.Lock()
		b.deleteErr = msg
		b.mu.Unlock()
		b.log.Warn().Err(err).Str("invoice_id", id.String()).Msg("no se pudo eliminar la factura")
		return fmt.Errorf("billing: eliminar factura %s: %w", id, err)
	}
	b.mu.Lock()
	b.deleteErr = ""
	b.mu.Unlock()
	b.log.Info().Str("invoice_id", id.String()).Msg("factura eliminada")
	return b.Load(ctx)
}

// ClearDeleteError descarta el aviso de eliminación fallida.
func (b *InvoiceBoard) ClearDeleteError() {
	b.mu.Lock()
	b.deleteErr = ""
	b.mu.Unlock()
}

// Snapshot copia inmutable del estado para pintar.
func (b *InvoiceBoard) Snapshot() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	invoices := make([]entity.Invoice, len(b.invoices))
	copy(invoices, b.invoices)
	view := BoardView{
		Page:         b.page,
		PageSize:     b.pageSize,
		TotalPages:   b.totalPages,
		Status:       b.status,
		Query:        b.query,
		Mode:         b.mode,
		Loading:      b.loading,
		Invoices:     invoices,
		Rows:         invoiceRows(invoices),
		Paginated:    b.mode == ModeList && b.totalPages > 0,
		ListError:    b.listErr,
		SummaryError: b.summaryErr,
		DeleteError:  b.deleteErr,
	}
	if b.summary != nil {
		s := summaryView(*b.summary)
		view.Summary = &s
	}
	return view
}

func (b *InvoiceBoard) refreshList(parent context.Context) error {
	b.mu.Lock()
	b.listSeq++
	seq := b.listSeq
	if b.listCancel != nil {
		b.listCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	b.listCancel = cancel
	mode, page, status, query := b.mode, b.page, b.status, b.query
	b.loading = true
	b.mu.Unlock()
	defer cancel()

	var (
		invoices   []entity.Invoice
		totalPages int
		err        error
	)
	if mode == ModeSearch {
		invoices, err = b.api.SearchInvoices(ctx, query)
	} else {
		var p entity.InvoicePage
		p, err = b.api.ListInvoices(ctx, page, b.pageSize, status)
		invoices, totalPages = p.Content, p.TotalPages
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.listSeq {
		return ErrSuperseded
	}
	b.loading = false
	b.listCancel = nil
	if err != nil {
		b.listErr = domain.Message(err)
		b.log.Error().Err(err).Str("mode", mode.String()).Int("page", page).Msg("no se pudo cargar el listado de facturas")
		return fmt.Errorf("billing: cargar facturas: %w", err)
	}
	b.listErr = ""
	b.invoices = invoices
	b.totalPages = totalPages
	return nil
}

func (b *InvoiceBoard) refreshSummary(parent context.Context) error {
	b.mu.Lock()
	b.summarySeq++
	seq := b.summarySeq
	if b.summaryCancel != nil {
		b.summaryCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	b.summaryCancel = cancel
	b.mu.Unlock()
	defer cancel()

	summary, err := b.api.GetBillingSummary(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.summarySeq {
		return ErrSuperseded
	}
	b.summaryCancel = nil
	if err != nil {
		b.summaryErr = domain.Message(err)
		b.log.Warn().Err(err).Msg("no se pudo cargar el resumen de facturación")
		return fmt.Errorf("billing: cargar resumen: %w", err)
	}
	b.summaryErr = ""
	b.summary = &summary
	return nil
}
