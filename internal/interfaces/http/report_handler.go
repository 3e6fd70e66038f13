package http

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-dashboard/internal/application/dto"
	"github.com/jhoicas/taller-dashboard/internal/application/export"
	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/application/reports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// ReportHandler CSV de reportes, resumen de ingresos y bitácora (protegido).
type ReportHandler struct {
	reports   ports.ReportAPI
	exportLog repository.ExportLogRepository
	log       *logger.Logger
	baseLog   *logger.Logger
}

// NewReportHandler construye el handler. exportLog puede ser nil.
func NewReportHandler(api ports.ReportAPI, exportLog repository.ExportLogRepository, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: api, exportLog: exportLog, log: log.Component("http.reports"), baseLog: log}
}

// CSV descarga el bucket y lo devuelve como adjunto <bucket>.csv.
// GET /api/exports/reports/:bucket/csv
func (h *ReportHandler) CSV(c *fiber.Ctx) error {
	bucket, ok := entity.ParseReportBucket(c.Params("bucket"))
	if !ok {
		return writeError(c, h.log, fmt.Errorf("%w: bucket desconocido %q", domain.ErrInvalidInput, c.Params("bucket")))
	}
	saver := &bufferSaver{}
	exporter := export.NewCSVExporter(export.CSVDeps{
		Reports:   h.reports,
		Saver:     saver,
		ExportLog: h.exportLog,
		Log:       h.baseLog,
	})
	if _, err := exporter.DownloadCSV(h.requestContext(c), bucket.CSVEndpoint(), bucket.Filename()); err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", saver.name))
	return c.Send(saver.buf.Bytes())
}

// RevenueSummary resumen de ingresos con montos formateados.
// GET /api/exports/reports/revenue-summary
func (h *ReportHandler) RevenueSummary(c *fiber.Ctx) error {
	summary, err := h.reports.GetRevenueSummary(h.requestContext(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(reports.NewRevenueView(summary))
}

// History últimas entradas de la bitácora de exportaciones.
// GET /api/exports/history?limit=
func (h *ReportHandler) History(c *fiber.Ctx) error {
	var in dto.HistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit inválido"})
	}
	in.DefaultLimit()
	out := dto.ExportHistoryResponse{Items: []dto.ExportRecordResponse{}, Limit: in.Limit}
	if h.exportLog == nil {
		return c.JSON(out)
	}
	records, err := h.exportLog.ListRecent(c.UserContext(), in.Limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	for _, rec := range records {
		out.Items = append(out.Items, dto.NewExportRecordResponse(rec))
	}
	return c.JSON(out)
}

func (h *ReportHandler) requestContext(c *fiber.Ctx) context.Context {
	return apiclient.WithToken(c.UserContext(), GetToken(c))
}

// bufferSaver Saver en memoria: el CSV se devuelve en la respuesta en lugar de escribirse a disco.
type bufferSaver struct {
	name string
	buf  bytes.Buffer
}

func (s *bufferSaver) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	s.buf.Reset()
	if _, err := io.Copy(&s.buf, r); err != nil {
		return "", err
	}
	s.name = filename
	return filename, nil
}
