package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-dashboard/internal/application/document"
	"github.com/jhoicas/taller-dashboard/internal/application/dto"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/render"
	apphttp "github.com/jhoicas/taller-dashboard/internal/interfaces/http"
	"github.com/jhoicas/taller-dashboard/pkg/logger"
)

// ── API REST simulada ─────────────────────────────────────────────────────────

type restAPI struct {
	mu     sync.Mutex
	tokens []string
}

func (a *restAPI) lastToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.tokens) == 0 {
		return ""
	}
	return a.tokens[len(a.tokens)-1]
}

func (a *restAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.tokens = append(a.tokens, r.Header.Get("Authorization"))
	a.mu.Unlock()

	switch r.URL.Path {
	case "/api/billing/invoices/7":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"invoiceNumber":"INV-0007","customerId":3,"subtotal":100,"taxAmount":15,"totalAmount":115,
			"paidAmount":0,"status":"UNPAID","invoiceDate":"2024-03-05","items":[{"description":"Oil change","quantity":1,"unitPrice":100,"lineTotal":100}]}`)
	case "/api/customers/3":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":3,"firstName":"Ana","lastName":"Ruiz","email":"ana@example.com"}`)
	case "/api/reports/bookings-by-location/csv":
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "location,count\nDowntown,4\n")
	case "/api/reports/revenue-summary":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"totalRevenue":1000,"totalBookings":8}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"factura no encontrada"}`)
	}
}

type stubPrinter struct{}

func (stubPrinter) Engine() string { return "stub" }

func (stubPrinter) Print(_ context.Context, s *document.Surface, w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-stub "+s.Title)
	return err
}

type exportApp struct {
	app  *fiber.App
	rest *restAPI
	log  *memory.ExportLog
}

func newExportApp(t *testing.T, secret string) exportApp {
	t.Helper()
	rest := &restAPI{}
	srv := httptest.NewServer(rest)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	exportLog := memory.NewExportLog(0)
	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Export: apphttp.NewExportHandler(apphttp.ExportHandlerDeps{
			Invoices:  client,
			Customers: client,
			Renderer:  render.NewHTMLRenderer(),
			Printer:   stubPrinter{},
			Company:   entity.DefaultCompany,
			ExportLog: exportLog,
			Log:       log,
		}),
		Reports:   apphttp.NewReportHandler(client, exportLog, log),
		JWTSecret: secret,
		JWTIssuer: testIssuer,
		Service:   "taller-dashboard",
		Engine:    "stub",
	})
	return exportApp{app: app, rest: rest, log: exportLog}
}

func (e exportApp) get(t *testing.T, path, auth string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	var out dto.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "stub", out.Engine)
}

func TestRouter_ExportsRequierenToken(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/invoices/7/preview", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_TOKEN")
}

func TestExportHandler_Preview(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/invoices/7/preview", "Bearer user-token")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, body, "INV-0007")
	assert.Contains(t, body, "Ana Ruiz")
	assert.Equal(t, "Bearer user-token", e.rest.lastToken(), "el token del usuario se reenvía a la API")
}

func TestExportHandler_PDF(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/invoices/7/pdf", "Bearer user-token")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="invoice-INV-0007.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(body, "%PDF-stub"))

	records, err := e.log.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entity.ExportKindInvoicePDF, records[0].Kind)
	assert.Equal(t, "INV-0007", records[0].Reference)
	assert.Equal(t, "stub", records[0].Engine)
}

func TestExportHandler_FacturaInexistente(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/invoices/99/pdf", "Bearer user-token")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
	assert.Equal(t, "factura no encontrada", out.Message)
}

func TestReportHandler_CSV(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/reports/bookings-by-location/csv", "Bearer user-token")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="bookings-by-location.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, "location,count\nDowntown,4\n", body)
}

func TestReportHandler_BucketDesconocido(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/reports/bookings-by-planet/csv", "Bearer user-token")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "VALIDATION")
}

func TestReportHandler_RevenueSummary(t *testing.T) {
	e := newExportApp(t, "")
	resp, body := e.get(t, "/api/exports/reports/revenue-summary", "Bearer user-token")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "$1,000.00", out["totalRevenue"])
	assert.Equal(t, float64(8), out["totalBookings"])
	assert.Equal(t, "$125.00", out["averageRevenuePerBooking"])
}

func TestReportHandler_History(t *testing.T) {
	e := newExportApp(t, "")
	e.get(t, "/api/exports/invoices/7/pdf", "Bearer user-token")
	e.get(t, "/api/exports/reports/bookings-by-location/csv", "Bearer user-token")

	resp, body := e.get(t, "/api/exports/history?limit=5", "Bearer user-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ExportHistoryResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 5, out.Limit)
	require.Len(t, out.Items, 2)
	assert.Equal(t, entity.ExportKindReportCSV, out.Items[0].Kind)
	assert.Equal(t, entity.ExportKindInvoicePDF, out.Items[1].Kind)
	assert.Equal(t, "$115.00", out.Items[1].TotalAmount)
}

func TestReportHandler_HistoryConRol(t *testing.T) {
	e := newExportApp(t, testJWTSecret)

	resp, _ := e.get(t, "/api/exports/history", tokenForRole(t, "mechanic"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = e.get(t, "/api/exports/history", tokenForRole(t, "staff"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
