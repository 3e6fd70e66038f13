// Package reports orquesta los reportes de reservas e ingresos del dashboard.
package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// Exporter guarda reportes en CSV (implementado por export.CSVExporter).
type Exporter interface {
	DownloadCSV(ctx context.Context, endpoint, filename string) (string, error)
	ExportRows(ctx context.Context, filename string, rows []entity.ReportRow) (string, error)
}

type slot struct {
	rows   []entity.ReportRow
	loaded bool
	err    string
}

// ReportBoard estado de la pantalla de reportes: una ranura por bucket más el resumen
// de ingresos. Cada ranura guarda su propio error.
type ReportBoard struct {
	api      ports.ReportAPI
	exporter Exporter
	log      *logger.Logger

	mu         sync.Mutex
	slots      map[entity.ReportBucket]*slot
	revenue    *entity.RevenueSummary
	revenueErr string
	exportErr  string
	lastExport string
	loading    bool
}

// NewReportBoard construye el tablero.
func NewReportBoard(api ports.ReportAPI, exporter Exporter, log *logger.Logger) *ReportBoard {
	slots := make(map[entity.ReportBucket]*slot, len(entity.ReportBuckets))
	for _, b := range entity.ReportBuckets {
		slots[b] = &slot{}
	}
	return &ReportBoard{api: api, exporter: exporter, log: log.Component("reports.board"), slots: slots}
}

// Load consulta en paralelo los tres buckets y el resumen de ingresos. Cada resultado
// se escribe en su ranura aunque otros fallen; el error devuelto los agrupa.
func (b *ReportBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	// ── Goroutines: una por bucket + resumen ──────────────────────────────────
	type bucketResult struct {
		bucket entity.ReportBucket
		rows   []entity.ReportRow
		err    error
	}
	type revenueResult struct {
		summary entity.RevenueSummary
		err     error
	}

	bucketCh := make(chan bucketResult, len(entity.ReportBuckets))
	revenueCh := make(chan revenueResult, 1)

	for _, bucket := range entity.ReportBuckets {
		go func(bucket entity.ReportBucket) {
			rows, err := b.api.GetReport(ctx, bucket)
			bucketCh <- bucketResult{bucket, rows, err}
		}(bucket)
	}
	go func() {
		s, err := b.api.GetRevenueSummary(ctx)
		revenueCh <- revenueResult{s, err}
	}()

	var errs []error
	for range entity.ReportBuckets {
		res := <-bucketCh
		b.mu.Lock()
		s := b.slots[res.bucket]
		if res.err != nil {
			s.err = domain.Message(res.err)
			errs = append(errs, fmt.Errorf("reports: cargar %s: %w", res.bucket, res.err))
			b.log.Warn().Err(res.err).Str("bucket", string(res.bucket)).Msg("no se pudo cargar el reporte")
		} else {
			s.err = ""
			s.rows = res.rows
			s.loaded = true
		}
		b.mu.Unlock()
	}

	rev := <-revenueCh
	b.mu.Lock()
	if rev.err != nil {
		b.revenueErr = domain.Message(rev.err)
		errs = append(errs, fmt.Errorf("reports: cargar resumen de ingresos: %w", rev.err))
		b.log.Warn().Err(rev.err).Msg("no se pudo cargar el resumen de ingresos")
	} else {
		b.revenueErr = ""
		summary := rev.summary
		b.revenue = &summary
	}
	b.loading = false
	b.mu.Unlock()

	return errors.Join(errs...)
}

// Revenue vista formateada del resumen de ingresos (ceros si aún no se cargó).
func (b *ReportBoard) Revenue() RevenueView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.revenue == nil {
		return NewRevenueView(entity.RevenueSummary{})
	}
	return NewRevenueView(*b.revenue)
}

// Rows filas cargadas del bucket.
func (b *ReportBoard) Rows(bucket entity.ReportBucket) []entity.ReportRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[bucket]
	if !ok {
		return nil
	}
	return append([]entity.ReportRow(nil), s.rows...)
}

// ExportCSV descarga el CSV del bucket desde la API como <bucket>.csv.
func (b *ReportBoard) ExportCSV(ctx context.Context, bucket entity.ReportBucket) (string, error) {
	if _, ok := entity.ParseReportBucket(string(bucket)); !ok {
		return "", b.exportFailed(fmt.Errorf("%w: bucket desconocido %q", domain.ErrInvalidInput, bucket))
	}
	path, err := b.exporter.DownloadCSV(ctx, bucket.CSVEndpoint(), bucket.Filename())
	if err != nil {
		return "", b.exportFailed(err)
	}
	b.exportDone(path)
	return path, nil
}

// ExportLoadedCSV guarda como CSV las filas ya cargadas del bucket, sin llamar a la API.
func (b *ReportBoard) ExportLoadedCSV(ctx context.Context, bucket entity.ReportBucket) (string, error) {
	b.mu.Lock()
	s, ok := b.slots[bucket]
	var rows []entity.ReportRow
	loaded := false
	if ok {
		rows = append(rows, s.rows...)
		loaded = s.loaded
	}
	b.mu.Unlock()
	if !ok {
		return "", b.exportFailed(fmt.Errorf("%w: bucket desconocido %q", domain.ErrInvalidInput, bucket))
	}
	if !loaded {
		return "", b.exportFailed(fmt.Errorf("%w: el reporte %s no está cargado", domain.ErrInvalidInput, bucket))
	}
	path, err := b.exporter.ExportRows(ctx, bucket.Filename(), rows)
	if err != nil {
		return "", b.exportFailed(err)
	}
	b.exportDone(path)
	return path, nil
}

// Snapshot copia del estado para pintar.
func (b *ReportBoard) Snapshot() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	view := BoardView{
		Loading:      b.loading,
		RevenueError: b.revenueErr,
		ExportError:  b.exportErr,
		LastExport:   b.lastExport,
	}
	for _, bucket := range entity.ReportBuckets {
		s := b.slots[bucket]
		view.Buckets = append(view.Buckets, newBucketView(bucket, s.rows, s.loaded, s.err))
	}
	if b.revenue != nil {
		r := NewRevenueView(*b.revenue)
		view.Revenue = &r
	}
	return view
}

func (b *ReportBoard) exportFailed(err error) error {
	b.mu.Lock()
	b.exportErr = domain.Message(err)
	b.mu.Unlock()
	return err
}

func (b *ReportBoard) exportDone(path string) {
	b.mu.Lock()
	b.exportErr = ""
	b.lastExport = path
	b.mu.Unlock()
}
