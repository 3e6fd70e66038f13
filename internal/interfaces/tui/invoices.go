package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/taller-dashboard/internal/application/billing"
	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

var invoiceColumns = []table.Column{
	{Title: "Invoice #", Width: 14},
	{Title: "Date", Width: 14},
	{Title: "Total", Width: 12},
	{Title: "Paid", Width: 12},
	{Title: "Balance", Width: 12},
	{Title: "Status", Width: 9},
}

// exportModal estado del modal de exportación de una factura.
type exportModal struct {
	open            bool
	loadingCustomer bool
	printing        bool
	err             string
	savedPath       string
}

// invoicesScreen listado de facturas, resumen y modal de exportación.
type invoicesScreen struct {
	board   *billing.InvoiceBoard
	session *export.Session
	saver   ports.Saver
	timeout time.Duration
	keys    KeyMap
	log     *logger.Logger

	view    billing.BoardView
	loading bool
	table   table.Model
	search  textinput.Model

	searching  bool
	confirming bool
	confirmID  entity.ID
	confirmNum string
	notice     string

	modal exportModal
}

func newInvoicesScreen(deps Deps, keys KeyMap) *invoicesScreen {
	ti := textinput.New()
	ti.Placeholder = "número, cliente o reserva"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	t := table.New(
		table.WithColumns(invoiceColumns),
		table.WithFocused(true),
		table.WithHeight(deps.PageSize+1),
	)
	return &invoicesScreen{
		board:   deps.Invoices,
		session: deps.Session,
		saver:   deps.Saver,
		timeout: deps.Timeout,
		keys:    keys,
		log:     deps.Log.Component("tui.invoices"),
		table:   t,
		search:  ti,
		loading: true,
	}
}

// capturing indica si las teclas van a un control (búsqueda, confirmación o modal).
func (s *invoicesScreen) capturing() bool {
	return s.searching || s.confirming || s.modal.open
}

// ── Comandos ──────────────────────────────────────────────────────────────────

func (s *invoicesScreen) run(op func(ctx context.Context) error) tea.Cmd {
	s.loading = true
	board, timeout := s.board, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := op(ctx)
		return invoicesMsg{view: board.Snapshot(), err: err}
	}
}

func (s *invoicesScreen) load() tea.Cmd { return s.run(s.board.Load) }

func (s *invoicesScreen) deleteInvoice(id entity.ID) tea.Cmd {
	board, timeout := s.board, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := board.Delete(ctx, id, billing.Confirmed)
		return deleteMsg{view: board.Snapshot(), err: err}
	}
}

func (s *invoicesScreen) loadCustomer(t export.Ticket) tea.Cmd {
	session, timeout := s.session, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return customerMsg{ticket: t, err: session.LoadCustomer(ctx, t)}
	}
}

func (s *invoicesScreen) print() tea.Cmd {
	session, saver, timeout := s.session, s.saver, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var buf bytes.Buffer
		surface, err := session.Print(ctx, &buf)
		if err != nil {
			return printMsg{err: err}
		}
		path, err := saver.Save(ctx, surface.Filename, &buf)
		if err != nil {
			return printMsg{err: fmt.Errorf("guardar %s: %w", surface.Filename, err)}
		}
		return printMsg{path: path}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (s *invoicesScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case invoicesMsg:
		if errors.Is(msg.err, billing.ErrSuperseded) {
			return nil
		}
		s.apply(msg.view)
		return nil

	case deleteMsg:
		s.apply(msg.view)
		if msg.err == nil {
			s.notice = "Factura " + s.confirmNum + " eliminada"
		}
		s.confirmID, s.confirmNum = "", ""
		return nil

	case customerMsg:
		if errors.Is(msg.err, export.ErrStaleTicket) {
			s.log.Debug().Str("invoice", msg.ticket.Invoice().Number()).Msg("resultado de cliente descartado")
			return nil
		}
		s.modal.loadingCustomer = false
		if msg.err != nil {
			s.modal.err = domain.Message(msg.err)
		}
		return nil

	case printMsg:
		s.modal.printing = false
		if msg.err != nil {
			s.modal.err = domain.Message(msg.err)
			return nil
		}
		s.modal.err = ""
		s.modal.savedPath = msg.path
		return nil

	case tea.KeyMsg:
		switch {
		case s.modal.open:
			return s.updateModal(msg)
		case s.confirming:
			return s.updateConfirm(msg)
		case s.searching:
			return s.updateSearch(msg)
		default:
			return s.updateList(msg)
		}
	}
	return nil
}

func (s *invoicesScreen) apply(view billing.BoardView) {
	s.view = view
	s.loading = view.Loading
	rows := make([]table.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, table.Row{r.Number, r.Date, r.Total, r.Paid, r.Balance, r.Status})
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *invoicesScreen) selected() (entity.Invoice, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.view.Invoices) {
		return entity.Invoice{}, false
	}
	return s.view.Invoices[i], true
}

func (s *invoicesScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	s.notice = ""
	switch {
	case key.Matches(msg, s.keys.Status):
		status := statusForKey[msg.String()]
		return s.run(func(ctx context.Context) error { return s.board.SetStatus(ctx, status) })
	case key.Matches(msg, s.keys.Prev):
		return s.run(s.board.PrevPage)
	case key.Matches(msg, s.keys.Next):
		return s.run(s.board.NextPage)
	case key.Matches(msg, s.keys.Refresh):
		return s.load()
	case key.Matches(msg, s.keys.Search):
		s.searching = true
		s.search.SetValue(s.view.Query)
		return s.search.Focus()
	case key.Matches(msg, s.keys.Delete):
		inv, ok := s.selected()
		if !ok {
			return nil
		}
		s.board.ClearDeleteError()
		s.view.DeleteError = ""
		s.confirming = true
		s.confirmID, s.confirmNum = inv.ID, inv.Number()
		return nil
	case key.Matches(msg, s.keys.Select):
		inv, ok := s.selected()
		if !ok {
			return nil
		}
		s.modal = exportModal{open: true, loadingCustomer: true}
		return s.loadCustomer(s.session.Select(inv))
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *invoicesScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		s.searching = false
		s.search.Blur()
		query := s.search.Value()
		return s.run(func(ctx context.Context) error { return s.board.Search(ctx, query) })
	case tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return cmd
}

func (s *invoicesScreen) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Yes):
		s.confirming = false
		return s.deleteInvoice(s.confirmID)
	case key.Matches(msg, s.keys.No):
		s.confirming = false
		s.confirmID, s.confirmNum = "", ""
	}
	return nil
}

func (s *invoicesScreen) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Back):
		s.session.Close()
		s.modal = exportModal{}
		return nil
	case key.Matches(msg, s.keys.Print):
		if s.modal.loadingCustomer || s.modal.printing {
			return nil
		}
		s.modal.printing = true
		s.modal.err, s.modal.savedPath = "", ""
		return s.print()
	}
	return nil
}

// ── View ──────────────────────────────────────────────────────────────────────

func (s *invoicesScreen) render(spin string) string {
	if s.modal.open {
		return s.renderModal(spin)
	}
	var b strings.Builder

	b.WriteString(s.renderSummary())
	b.WriteString("\n")

	filter := "All"
	if s.view.Status != "" {
		filter = s.view.Status
	}
	line := "Filter: " + filter
	if s.view.Mode == billing.ModeSearch {
		line = fmt.Sprintf("Search: %q", s.view.Query)
	}
	if s.loading {
		line += "  " + spin + " cargando..."
	}
	b.WriteString(subtitleStyle.Render(line) + "\n")

	if s.searching {
		b.WriteString("Buscar: " + s.search.View() + "\n")
	}

	if s.view.ListError != "" {
		b.WriteString(errorStyle.Render("Error: "+s.view.ListError) + "\n")
	}
	if s.view.DeleteError != "" {
		b.WriteString(errorStyle.Render("No se pudo eliminar: "+s.view.DeleteError) + "\n")
	}
	if s.notice != "" {
		b.WriteString(successStyle.Render(s.notice) + "\n")
	}

	if len(s.view.Rows) == 0 && !s.loading && s.view.ListError == "" {
		b.WriteString(subtitleStyle.Render("No invoices found") + "\n")
	} else {
		b.WriteString(s.table.View() + "\n")
	}

	if s.view.Paginated {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Page %d of %d", s.view.Page+1, s.view.TotalPages)) + "\n")
	}

	if s.confirming {
		b.WriteString(warningStyle.Render(fmt.Sprintf("¿Eliminar la factura %s? (y/n)", s.confirmNum)) + "\n")
	}
	b.WriteString(helpStyle.Render("1-4: estado  ←/→: página  /: buscar  d: eliminar  enter: exportar  r: recargar"))
	return b.String()
}

func (s *invoicesScreen) renderSummary() string {
	if s.view.SummaryError != "" {
		return errorStyle.Render("Resumen no disponible: " + s.view.SummaryError)
	}
	sum := s.view.Summary
	if sum == nil {
		return subtitleStyle.Render("Resumen: -")
	}
	cards := []string{
		cardStyle.Render(fmt.Sprintf("Total\n%d", sum.TotalInvoices)),
		cardStyle.Render(fmt.Sprintf("Paid\n%d", sum.PaidInvoices)),
		cardStyle.Render(fmt.Sprintf("Unpaid\n%d", sum.UnpaidInvoices)),
		cardStyle.Render(fmt.Sprintf("Partial\n%d", sum.PartialInvoices)),
		cardStyle.Render("Revenue\n" + sum.TotalRevenue),
		cardStyle.Render("Outstanding\n" + sum.TotalOutstanding),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (s *invoicesScreen) renderModal(spin string) string {
	if s.modal.loadingCustomer {
		return modalStyle.Render(spin + " Cargando cliente...\n\n" + helpStyle.Render("esc: cerrar"))
	}
	doc, err := s.session.Document()
	if err != nil {
		return modalStyle.Render(errorStyle.Render(domain.Message(err)) + "\n\n" + helpStyle.Render("esc: cerrar"))
	}

	var b strings.Builder
	b.WriteString(renderDocument(doc))
	b.WriteString("\n")
	switch {
	case s.modal.printing:
		b.WriteString(spin + " Generando PDF...\n")
	case s.modal.err != "":
		b.WriteString(errorStyle.Render("Error: "+s.modal.err) + "\n")
	case s.modal.savedPath != "":
		b.WriteString(successStyle.Render("PDF guardado en "+s.modal.savedPath) + "\n")
	}
	b.WriteString(helpStyle.Render("p: imprimir PDF  esc: cerrar"))
	return modalStyle.Render(b.String())
}

// renderDocument versión de terminal de la factura compuesta.
func renderDocument(doc *document.ComposedDocument) string {
	var b strings.Builder
	h := doc.Header
	b.WriteString(titleStyle.Render(h.CompanyName) + "\n")
	b.WriteString(subtitleStyle.Render(h.CompanyAddress+"  "+h.CompanyPhone+"  "+h.CompanyEmail) + "\n\n")
	b.WriteString(fmt.Sprintf("%s #%s   %s   %s\n\n", h.Title, h.InvoiceNumber, h.Date, statusBadge(h.Status)))

	b.WriteString("Bill To: " + doc.BillTo.Name + "\n")
	for _, v := range []string{doc.BillTo.Email, doc.BillTo.Phone, doc.BillTo.Address} {
		if v != "" {
			b.WriteString("         " + v + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("Booking: %s   Date: %s\n\n", doc.ServiceInfo.BookingReference, doc.ServiceInfo.InvoiceDate))

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%-30s %6s %12s %12s", doc.Items.Columns[0], doc.Items.Columns[1], doc.Items.Columns[2], doc.Items.Columns[3])) + "\n")
	if len(doc.Items.Rows) == 0 {
		b.WriteString(subtitleStyle.Render(doc.Items.Placeholder) + "\n")
	}
	for _, r := range doc.Items.Rows {
		b.WriteString(fmt.Sprintf("%-30s %6s %12s %12s\n", truncate(r.Description, 30), r.Quantity, r.UnitPrice, r.LineTotal))
	}
	t := doc.Totals
	b.WriteString(fmt.Sprintf("\n%50s %12s\n", "Subtotal:", t.Subtotal))
	b.WriteString(fmt.Sprintf("%50s %12s\n", t.TaxLabel+":", t.Tax))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%50s %12s", t.TotalLabel+":", t.Total)) + "\n")
	b.WriteString(fmt.Sprintf("%50s %12s\n", "Paid:", doc.Payment.Paid))
	b.WriteString(fmt.Sprintf("%50s %12s\n", "Balance Due:", doc.Payment.Balance))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
