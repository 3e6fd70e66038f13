package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

// KeyMap atajos del dashboard.
type KeyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Select  key.Binding
	Back    key.Binding
	Search  key.Binding
	Delete  key.Binding
	Print   key.Binding
	Refresh key.Binding
	Yes     key.Binding
	No      key.Binding
	CSV     key.Binding
	Offline key.Binding
	Status  key.Binding
}

// DefaultKeyMap atajos por defecto.
var DefaultKeyMap = KeyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cambiar pantalla")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "subir")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "bajar")),
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "página anterior")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "página siguiente")),
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "exportar")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cerrar")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "buscar")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "eliminar")),
	Print:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "imprimir PDF")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	Yes:     key.NewBinding(key.WithKeys("y", "Y")),
	No:      key.NewBinding(key.WithKeys("n", "N", "esc")),
	CSV:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "CSV desde la API")),
	Offline: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "CSV de lo cargado")),
	Status:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "filtrar estado")),
}

// statusForKey filtro asociado a las teclas 1-4 ("" = todos).
var statusForKey = map[string]string{
	"1": "",
	"2": entity.InvoiceStatusUnpaid,
	"3": entity.InvoiceStatusPartial,
	"4": entity.InvoiceStatusPaid,
}
