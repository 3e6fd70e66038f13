package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

type fakeCustomers struct {
	mu       sync.Mutex
	customer entity.Customer
	err      error
	gate     chan struct{} // si no es nil, GetCustomer espera a que se cierre
	calls    []entity.ID
}

func (f *fakeCustomers) GetCustomer(_ context.Context, id entity.ID) (entity.Customer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.customer, f.err
}

func (f *fakeCustomers) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(doc *document.ComposedDocument) (*document.Surface, error) {
	return &document.Surface{
		Title:       "Invoice " + doc.Header.InvoiceNumber,
		Filename:    document.Filename(doc),
		ContentType: "text/html",
		Markup:      "<h1>" + doc.Header.InvoiceNumber + "</h1><p>" + doc.BillTo.Name + "</p>",
		Document:    doc,
	}, nil
}

// capturePrinter guarda la superficie recibida en lugar de abrir un diálogo de impresión.
type capturePrinter struct {
	mu       sync.Mutex
	surfaces []*document.Surface
	err      error
	gate     chan struct{}
	started  chan struct{}
}

func (p *capturePrinter) Print(_ context.Context, surface *document.Surface, w io.Writer) error {
	if p.started != nil {
		close(p.started)
	}
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	p.surfaces = append(p.surfaces, surface)
	p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	_, err := io.WriteString(w, "%PDF-fake "+surface.Markup)
	return err
}

func (p *capturePrinter) Engine() string { return "fake" }

func (p *capturePrinter) captured() []*document.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*document.Surface(nil), p.surfaces...)
}

type memoryLog struct {
	mu      sync.Mutex
	records []*entity.ExportRecord
	err     error
}

func (m *memoryLog) Record(_ context.Context, rec *entity.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryLog) ListRecent(_ context.Context, limit int) ([]*entity.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records, nil
}

type fakeReports struct {
	csv      string
	err      error
	endpoint string
	closed   bool
}

func (f *fakeReports) GetReport(context.Context, entity.ReportBucket) ([]entity.ReportRow, error) {
	return nil, errors.New("no usado")
}

func (f *fakeReports) GetRevenueSummary(context.Context) (entity.RevenueSummary, error) {
	return entity.RevenueSummary{}, errors.New("no usado")
}

func (f *fakeReports) FetchCSV(_ context.Context, endpoint string) (io.ReadCloser, error) {
	f.endpoint = endpoint
	if f.err != nil {
		return nil, f.err
	}
	return &trackingBody{Reader: strings.NewReader(f.csv), onClose: func() { f.closed = true }}, nil
}

type trackingBody struct {
	io.Reader
	onClose func()
}

func (b *trackingBody) Close() error {
	b.onClose()
	return nil
}

type memorySaver struct {
	files map[string]string
	err   error
}

func (s *memorySaver) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if s.files == nil {
		s.files = map[string]string{}
	}
	s.files[filename] = buf.String()
	return "/downloads/" + filename, nil
}
