package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/taller-dashboard/internal/application/reports"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

// reportsScreen buckets de reservas, resumen de ingresos y exportación CSV.
type reportsScreen struct {
	board   *reports.ReportBoard
	timeout time.Duration
	keys    KeyMap

	view    reports.BoardView
	loading bool
	active  int
	table   table.Model
}

func newReportsScreen(deps Deps, keys KeyMap) *reportsScreen {
	return &reportsScreen{
		board:   deps.Reports,
		timeout: deps.Timeout,
		keys:    keys,
		loading: true,
		table:   table.New(table.WithFocused(true), table.WithHeight(12)),
	}
}

func (s *reportsScreen) bucket() entity.ReportBucket {
	return entity.ReportBuckets[s.active]
}

func (s *reportsScreen) load() tea.Cmd {
	s.loading = true
	board, timeout := s.board, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := board.Load(ctx)
		return reportsMsg{view: board.Snapshot(), err: err}
	}
}

func (s *reportsScreen) export(offline bool) tea.Cmd {
	board, timeout, bucket := s.board, s.timeout, s.bucket()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			path string
			err  error
		)
		if offline {
			path, err = board.ExportLoadedCSV(ctx, bucket)
		} else {
			path, err = board.ExportCSV(ctx, bucket)
		}
		return csvMsg{view: board.Snapshot(), path: path, err: err}
	}
}

func (s *reportsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case reportsMsg:
		// Los errores de cada bucket quedan en su ranura del snapshot.
		s.loading = false
		s.apply(msg.view)
		return nil

	case csvMsg:
		s.apply(msg.view)
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Prev):
			s.active = (s.active + len(entity.ReportBuckets) - 1) % len(entity.ReportBuckets)
			s.apply(s.view)
			return nil
		case key.Matches(msg, s.keys.Next):
			s.active = (s.active + 1) % len(entity.ReportBuckets)
			s.apply(s.view)
			return nil
		case key.Matches(msg, s.keys.CSV):
			return s.export(false)
		case key.Matches(msg, s.keys.Offline):
			return s.export(true)
		case key.Matches(msg, s.keys.Refresh):
			return s.load()
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return cmd
	}
	return nil
}

func (s *reportsScreen) apply(view reports.BoardView) {
	s.view = view
	if s.active >= len(view.Buckets) {
		return
	}
	bv := view.Buckets[s.active]
	cols := []table.Column{{Title: "Label", Width: 24}, {Title: "Count", Width: 8}}
	if bv.HasRevenue {
		cols = append(cols, table.Column{Title: "Revenue", Width: 14})
	}
	rows := make([]table.Row, 0, len(bv.Rows))
	for _, r := range bv.Rows {
		row := table.Row{r.Label, r.Count}
		if bv.HasRevenue {
			row = append(row, r.Revenue)
		}
		rows = append(rows, row)
	}
	// Las filas deben vaciarse antes de cambiar a menos columnas.
	s.table.SetRows(nil)
	s.table.SetColumns(cols)
	s.table.SetRows(rows)
	s.table.SetCursor(0)
}

func (s *reportsScreen) render(spin string) string {
	var b strings.Builder

	if rv := s.view.Revenue; rv != nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Render("Total Revenue\n"+rv.TotalRevenue),
			cardStyle.Render(fmt.Sprintf("Total Bookings\n%d", rv.TotalBookings)),
			cardStyle.Render("Avg / Booking\n"+rv.AverageRevenuePerBooking),
		) + "\n")
	} else if s.view.RevenueError != "" {
		b.WriteString(errorStyle.Render("Ingresos no disponibles: "+s.view.RevenueError) + "\n")
	}

	tabs := make([]string, 0, len(entity.ReportBuckets))
	for i, bucket := range entity.ReportBuckets {
		if i == s.active {
			tabs = append(tabs, activeTabStyle.Render(bucket.Title()))
		} else {
			tabs = append(tabs, tabStyle.Render(bucket.Title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n")

	if s.loading {
		b.WriteString(spin + " cargando reportes...\n")
	} else if s.active < len(s.view.Buckets) {
		bv := s.view.Buckets[s.active]
		switch {
		case bv.Error != "":
			b.WriteString(errorStyle.Render("Error: "+bv.Error) + "\n")
		case len(bv.Rows) == 0:
			b.WriteString(subtitleStyle.Render("No data") + "\n")
		default:
			b.WriteString(s.table.View() + "\n")
		}
	}

	if s.view.ExportError != "" {
		b.WriteString(errorStyle.Render("Exportación fallida: "+s.view.ExportError) + "\n")
	} else if s.view.LastExport != "" {
		b.WriteString(successStyle.Render("CSV guardado en "+s.view.LastExport) + "\n")
	}
	b.WriteString(helpStyle.Render("←/→: reporte  c: CSV  o: CSV de lo cargado  r: recargar"))
	return b.String()
}
