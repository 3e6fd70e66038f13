package ports

import (
	"context"
	"io"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
)

// Renderer convierte un documento compuesto en una superficie renderizada (markup).
type Renderer interface {
	Render(doc *document.ComposedDocument) (*document.Surface, error)
}

// Printer entrega una superficie renderizada como artefacto imprimible (PDF) escrito en w.
// Las implementaciones no deben conservar la superficie después de volver.
type Printer interface {
	Print(ctx context.Context, surface *document.Surface, w io.Writer) error
	// Engine nombre del motor ("chrome", "maroto", ...), usado en la bitácora.
	Engine() string
}

// Saver confirma un stream de bytes como archivo visible para el usuario
// (carpeta de descargas) y devuelve la ruta final.
type Saver interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}
