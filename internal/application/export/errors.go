package export

import "github.com/jhoicas/taller-dashboard/internal/domain"

// UIError error recuperable de una exportación. Message es el texto a mostrar en pantalla.
type UIError struct {
	Op      string
	Message string
	Err     error
}

// NewUIError envuelve err con el texto mostrable que extrae domain.Message.
func NewUIError(op string, err error) *UIError {
	return &UIError{Op: op, Message: domain.Message(err), Err: err}
}

func (e *UIError) Error() string {
	return "export: " + e.Op + ": " + e.Message
}

// Unwrap permite errors.Is/As sobre la causa original.
func (e *UIError) Unwrap() error { return e.Err }

// UserMessage implementa domain.Messager.
func (e *UIError) UserMessage() string { return e.Message }
