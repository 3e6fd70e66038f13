package http

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// InvoiceFetcher lectura de una factura por id.
type InvoiceFetcher interface {
	GetInvoice(ctx context.Context, id entity.ID) (entity.Invoice, error)
}

// ExportHandlerDeps dependencias del handler de facturas.
type ExportHandlerDeps struct {
	Invoices  InvoiceFetcher
	Customers ports.CustomerAPI
	Renderer  ports.Renderer
	Printer   ports.Printer
	Company   entity.CompanyProfile
	ExportLog repository.ExportLogRepository
	Log       *logger.Logger
}

// ExportHandler vista previa e impresión de facturas (protegido).
type ExportHandler struct {
	deps ExportHandlerDeps
	log  *logger.Logger
}

// NewExportHandler construye el handler.
func NewExportHandler(deps ExportHandlerDeps) *ExportHandler {
	return &ExportHandler{deps: deps, log: deps.Log.Component("http.export")}
}

// Preview devuelve la superficie HTML de la factura.
// GET /api/exports/invoices/:id/preview
func (h *ExportHandler) Preview(c *fiber.Ctx) error {
	session, err := h.open(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer session.Close()

	surface, err := session.Preview()
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, surface.ContentType)
	return c.SendString(surface.Markup)
}

// PDF imprime la factura y la devuelve como adjunto invoice-<número>.pdf.
// GET /api/exports/invoices/:id/pdf
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	session, err := h.open(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer session.Close()

	var buf bytes.Buffer
	surface, err := session.Print(h.requestContext(c), &buf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", surface.Filename))
	return c.Send(buf.Bytes())
}

// open carga la factura y su cliente en una sesión nueva por petición.
func (h *ExportHandler) open(c *fiber.Ctx) (*export.Session, error) {
	id := entity.ID(strings.TrimSpace(c.Params("id")))
	if id.IsZero() {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	ctx := h.requestContext(c)
	invoice, err := h.deps.Invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	session := export.NewSession(export.SessionDeps{
		Customers: h.deps.Customers,
		Renderer:  h.deps.Renderer,
		Printer:   h.deps.Printer,
		Company:   h.deps.Company,
		ExportLog: h.deps.ExportLog,
		Log:       h.deps.Log,
	})
	if err := session.Open(ctx, invoice); err != nil {
		return nil, err
	}
	return session, nil
}

// requestContext reenvía el bearer token del llamador a la API REST.
func (h *ExportHandler) requestContext(c *fiber.Ctx) context.Context {
	return apiclient.WithToken(c.UserContext(), GetToken(c))
}
