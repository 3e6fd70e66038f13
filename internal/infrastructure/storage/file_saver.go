// Package storage guarda las exportaciones como archivos visibles para el usuario.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
)

var _ ports.Saver = (*FileSaver)(nil)

// FileSaver escribe en un directorio de descargas. El archivo se escribe primero como
// temporal en el mismo directorio y se renombra al final, así nunca queda a medias.
type FileSaver struct {
	dir string
}

// NewFileSaver crea el directorio si no existe.
func NewFileSaver(dir string) (*FileSaver, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	return &FileSaver{dir: dir}, nil
}

// Dir directorio de destino.
func (s *FileSaver) Dir() string { return s.dir }

// Save copia r en <dir>/<filename> y devuelve la ruta final. Un archivo existente con el
// mismo nombre se reemplaza.
func (s *FileSaver) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("storage: crear temporal: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar %s: %w", name, err)
	}
	dest := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		committed = true
		return "", fmt.Errorf("storage: mover %s: %w", name, err)
	}
	committed = true
	return dest, nil
}

// cleanName reduce filename a un nombre base sin separadores de ruta.
func cleanName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/")))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("%w: nombre de archivo inválido %q", domain.ErrInvalidInput, filename)
	}
	return name, nil
}
