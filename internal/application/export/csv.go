package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// CSVDeps dependencias del exportador CSV.
type CSVDeps struct {
	Reports   ports.ReportAPI
	Saver     ports.Saver
	ExportLog repository.ExportLogRepository // opcional
	Log       *logger.Logger
	TempDir   string           // "" = os.TempDir()
	Now       func() time.Time // opcional
}

// CSVExporter descarga reportes CSV y los guarda con el nombre indicado.
type CSVExporter struct {
	deps CSVDeps
	log  *logger.Logger
}

// NewCSVExporter construye el exportador.
func NewCSVExporter(deps CSVDeps) *CSVExporter {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CSVExporter{deps: deps, log: deps.Log.Component("export.csv")}
}

// DownloadCSV obtiene el stream CSV de endpoint, lo materializa en un archivo temporal,
// lo entrega al Saver con filename y libera el temporal. Cualquier fallo se devuelve
// como *UIError con el mensaje a mostrar.
func (e *CSVExporter) DownloadCSV(ctx context.Context, endpoint, filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.TrimSpace(endpoint) == "" {
		return "", NewUIError("csv", fmt.Errorf("%w: endpoint y nombre de archivo son obligatorios", domain.ErrInvalidInput))
	}

	body, err := e.deps.Reports.FetchCSV(ctx, endpoint)
	if err != nil {
		return "", NewUIError("csv", err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(e.deps.TempDir, "export-*.csv")
	if err != nil {
		return "", NewUIError("csv", fmt.Errorf("crear temporal: %w", err))
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	n, err := io.Copy(tmp, body)
	if err != nil {
		return "", NewUIError("csv", fmt.Errorf("leer CSV de %s: %w", endpoint, err))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", NewUIError("csv", fmt.Errorf("rebobinar temporal: %w", err))
	}

	path, err := e.deps.Saver.Save(ctx, filename, tmp)
	if err != nil {
		return "", NewUIError("csv", fmt.Errorf("guardar %s: %w", filename, err))
	}

	e.log.Info().Str("endpoint", endpoint).Str("path", path).Int64("bytes", n).Msg("CSV descargado")
	e.record(ctx, strings.TrimSuffix(filename, ".csv"), filename, "api", n)
	return path, nil
}

// ExportRows serializa filas ya cargadas (sin pasar por la API) y las guarda como filename.
func (e *CSVExporter) ExportRows(ctx context.Context, filename string, rows []entity.ReportRow) (string, error) {
	var buf bytes.Buffer
	if err := WriteRowsCSV(&buf, rows); err != nil {
		return "", NewUIError("csv", fmt.Errorf("serializar filas: %w", err))
	}
	n := int64(buf.Len())
	path, err := e.deps.Saver.Save(ctx, filename, &buf)
	if err != nil {
		return "", NewUIError("csv", fmt.Errorf("guardar %s: %w", filename, err))
	}
	e.log.Info().Str("path", path).Int("rows", len(rows)).Msg("CSV local exportado")
	e.record(ctx, strings.TrimSuffix(filename, ".csv"), filename, "local", n)
	return path, nil
}

// WriteRowsCSV escribe Label,Count y, si alguna fila lo trae, Revenue (2 decimales).
func WriteRowsCSV(w io.Writer, rows []entity.ReportRow) error {
	withRevenue := false
	for _, r := range rows {
		if r.Revenue.Valid {
			withRevenue = true
			break
		}
	}

	writer := csv.NewWriter(w)
	header := []string{"Label", "Count"}
	if withRevenue {
		header = append(header, "Revenue")
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Label, strconv.FormatInt(r.Count, 10)}
		if withRevenue {
			revenue := "0.00"
			if r.Revenue.Valid {
				revenue = r.Revenue.Decimal.StringFixed(2)
			}
			record = append(record, revenue)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *CSVExporter) record(ctx context.Context, reference, filename, engine string, n int64) {
	if e.deps.ExportLog == nil {
		return
	}
	rec := &entity.ExportRecord{
		ID:        uuid.New().String(),
		Kind:      entity.ExportKindReportCSV,
		Reference: reference,
		Filename:  filename,
		Engine:    engine,
		Bytes:     n,
		CreatedAt: e.deps.Now().UTC(),
	}
	if err := e.deps.ExportLog.Record(ctx, rec); err != nil {
		e.log.Warn().Err(err).Str("reference", reference).Msg("no se pudo registrar la exportación")
	}
}
