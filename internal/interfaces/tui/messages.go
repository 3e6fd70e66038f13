package tui

import (
	"github.com/jhoicas/taller-dashboard/internal/application/billing"
	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/reports"
)

// Resultados de los tea.Cmd. Cada uno trae el snapshot tomado al terminar la operación.

type invoicesMsg struct {
	view billing.BoardView
	err  error
}

type deleteMsg struct {
	view billing.BoardView
	err  error
}

type customerMsg struct {
	ticket export.Ticket
	err    error
}

type printMsg struct {
	path string
	err  error
}

type reportsMsg struct {
	view reports.BoardView
	err  error
}

type csvMsg struct {
	view reports.BoardView
	path string
	err  error
}
