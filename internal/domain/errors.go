package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUpstream     = errors.New("la API remota respondió con error")
	ErrNoSelection  = errors.New("no hay factura seleccionada")
)

// Messager lo implementan los errores que tienen un texto apto para mostrarse al usuario
// (ej. el campo "message" devuelto por la API).
type Messager interface {
	UserMessage() string
}

// Message devuelve el texto a mostrar para err. Si algún error de la cadena implementa
// Messager se usa su mensaje; si no, err.Error(). nil devuelve "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var m Messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return err.Error()
}
