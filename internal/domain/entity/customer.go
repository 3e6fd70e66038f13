package entity

import "strings"

// Customer cliente del taller. Todos los campos de contacto son opcionales.
type Customer struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// FullName une nombre y apellido ignorando las partes vacías.
func (c Customer) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.FirstName, c.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
