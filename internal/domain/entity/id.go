package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID identificador de un recurso remoto. La API lo envía a veces como número
// (ej. 7) y a veces como string; se normaliza siempre a string.
type ID string

// UnmarshalJSON acepta números, strings y null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String implementa fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsZero indica si el identificador está vacío.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }
