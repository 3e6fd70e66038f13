// Package tui dashboard de terminal (bubbletea) sobre los tableros de facturación y
// reportes. Toda la E/S corre en tea.Cmd; Update solo aplica snapshots.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/taller-dashboard/internal/application/billing"
	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/application/reports"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// DefaultTimeout tiempo máximo de cada operación lanzada desde la interfaz.
const DefaultTimeout = 30 * time.Second

// Deps dependencias del dashboard.
type Deps struct {
	Invoices *billing.InvoiceBoard
	Reports  *reports.ReportBoard
	Session  *export.Session
	Saver    ports.Saver // destino de los PDF
	PageSize int
	Timeout  time.Duration
	Log      *logger.Logger
}

type screen int

const (
	screenInvoices screen = iota
	screenReports
)

// Model modelo raíz: pestañas, spinner y las dos pantallas.
type Model struct {
	keys    KeyMap
	screen  screen
	width   int
	spinner spinner.Model

	invoices *invoicesScreen
	reports  *reportsScreen
}

// New construye el dashboard.
func New(deps Deps) *Model {
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	if deps.PageSize <= 0 {
		deps.PageSize = billing.DefaultPageSize
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return &Model{
		keys:     DefaultKeyMap,
		spinner:  sp,
		invoices: newInvoicesScreen(deps, DefaultKeyMap),
		reports:  newReportsScreen(deps, DefaultKeyMap),
	}
}

// Init carga ambas pantallas.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.invoices.load(), m.reports.load())
}

// Update enruta resultados a su pantalla y teclas a la pantalla activa.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case invoicesMsg, deleteMsg, customerMsg, printMsg:
		return m, m.invoices.update(msg)

	case reportsMsg, csvMsg:
		return m, m.reports.update(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.capturing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab):
				if m.screen == screenInvoices {
					m.screen = screenReports
				} else {
					m.screen = screenInvoices
				}
				return m, nil
			}
		}
		if m.screen == screenReports {
			return m, m.reports.update(msg)
		}
		return m, m.invoices.update(msg)
	}
	return m, nil
}

func (m *Model) capturing() bool {
	return m.screen == screenInvoices && m.invoices.capturing()
}

// View pinta la pestaña activa.
func (m *Model) View() string {
	var b strings.Builder
	inv, rep := tabStyle, tabStyle
	if m.screen == screenInvoices {
		inv = activeTabStyle
	} else {
		rep = activeTabStyle
	}
	b.WriteString(titleStyle.Render("Service Dashboard") + "  ")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, inv.Render("Invoices"), rep.Render("Reports")))
	b.WriteString("\n\n")

	spin := m.spinner.View()
	if m.screen == screenReports {
		b.WriteString(m.reports.render(spin))
	} else {
		b.WriteString(m.invoices.render(spin))
	}
	b.WriteString("\n" + helpStyle.Render("tab: cambiar pantalla  q: salir"))
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}
