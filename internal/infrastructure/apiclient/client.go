// Package apiclient adaptador HTTP hacia la API REST del taller (facturas, clientes y
// reportes). Implementa los puertos InvoiceAPI, CustomerAPI y ReportAPI.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/taller-dashboard/internal/application/ports"
	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.InvoiceAPI  = (*Client)(nil)
	_ ports.CustomerAPI = (*Client)(nil)
	_ ports.ReportAPI   = (*Client)(nil)
)

const (
	// DefaultTimeout timeout de red por petición.
	DefaultTimeout = 15 * time.Second
	// maxJSONBody tope de lectura de cuerpos JSON.
	maxJSONBody = 1 << 20
)

// TokenSource devuelve el bearer token a enviar ("" = sin Authorization).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken TokenSource con un token fijo (API_TOKEN).
type StaticToken string

// Token implementa TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

type tokenKey struct{}

// WithToken devuelve un ctx cuyo token reemplaza al del TokenSource en las peticiones
// hechas con él. El servicio HTTP lo usa para reenviar el token del usuario.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Client cliente de la API REST. La URL base se resuelve una vez al arrancar.
type Client struct {
	baseURL    *url.URL
	tokens     TokenSource
	httpClient *http.Client
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, transporte propio).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout cambia el timeout de red.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenSource define de dónde sale el bearer token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New construye el cliente contra baseURL (ej. http://localhost:8080).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: URL base inválida %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: URL base inválida %q: %w", baseURL, domain.ErrInvalidInput)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HTTPError respuesta no-2xx de la API.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// UserMessage implementa domain.Messager con el "message" de la API.
func (e *HTTPError) UserMessage() string { return e.Message }

// Unwrap traduce el status a errores de dominio.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrUpstream
	}
}

// ── Facturación ───────────────────────────────────────────────────────────────

// ListInvoices GET /api/billing/invoices?page&size&status.
func (c *Client) ListInvoices(ctx context.Context, page, size int, status string) (entity.InvoicePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if status != "" {
		q.Set("status", status)
	}
	var out entity.InvoicePage
	if err := c.getJSON(ctx, "/api/billing/invoices", q, &out); err != nil {
		return entity.InvoicePage{}, err
	}
	return out, nil
}

// SearchInvoices GET /api/billing/invoices/search?q=.
func (c *Client) SearchInvoices(ctx context.Context, query string) ([]entity.Invoice, error) {
	var out []entity.Invoice
	if err := c.getJSON(ctx, "/api/billing/invoices/search", url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInvoice GET /api/billing/invoices/{id}.
func (c *Client) GetInvoice(ctx context.Context, id entity.ID) (entity.Invoice, error) {
	var out entity.Invoice
	if err := c.getJSON(ctx, "/api/billing/invoices/"+url.PathEscape(id.String()), nil, &out); err != nil {
		return entity.Invoice{}, err
	}
	return out, nil
}

// DeleteInvoice DELETE /api/billing/invoices/{id}.
func (c *Client) DeleteInvoice(ctx context.Context, id entity.ID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/billing/invoices/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxJSONBody))
	return nil
}

// GetBillingSummary GET /api/billing/summary.
func (c *Client) GetBillingSummary(ctx context.Context) (entity.BillingSummary, error) {
	var out entity.BillingSummary
	if err := c.getJSON(ctx, "/api/billing/summary", nil, &out); err != nil {
		return entity.BillingSummary{}, err
	}
	return out, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// GetCustomer GET /api/customers/{id}.
func (c *Client) GetCustomer(ctx context.Context, id entity.ID) (entity.Customer, error) {
	var out entity.Customer
	if err := c.getJSON(ctx, "/api/customers/"+url.PathEscape(id.String()), nil, &out); err != nil {
		return entity.Customer{}, err
	}
	return out, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

// GetReport GET /api/reports/{bucket}.
func (c *Client) GetReport(ctx context.Context, bucket entity.ReportBucket) ([]entity.ReportRow, error) {
	var out []entity.ReportRow
	if err := c.getJSON(ctx, bucket.Endpoint(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRevenueSummary GET /api/reports/revenue-summary.
func (c *Client) GetRevenueSummary(ctx context.Context) (entity.RevenueSummary, error) {
	var out entity.RevenueSummary
	if err := c.getJSON(ctx, "/api/reports/revenue-summary", nil, &out); err != nil {
		return entity.RevenueSummary{}, err
	}
	return out, nil
}

// FetchCSV GET endpoint y devuelve el cuerpo sin leer. El llamador debe cerrarlo.
func (c *Client) FetchCSV(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ── Internos ──────────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	if err != nil {
		return fmt.Errorf("apiclient: leer respuesta de %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: deserializar respuesta de %s: %w", path, err)
	}
	return nil
}

// do ejecuta la petición. Una respuesta no-2xx se consume y se devuelve como *HTTPError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("apiclient: ruta inválida %q: %w", path, err)
	}
	target := c.baseURL.JoinPath(ref.Path)
	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("apiclient: obtener token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("apiclient: %s %s: timeout o cancelación: %w", method, ref.Path, ctx.Err())
		}
		return nil, fmt.Errorf("apiclient: %s %s: llamada HTTP fallida: %w", method, ref.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
		return nil, &HTTPError{
			Method:  method,
			Path:    ref.Path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, raw),
		}
	}
	return resp, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if t, ok := ctx.Value(tokenKey{}).(string); ok {
		return t, nil
	}
	if c.tokens == nil {
		return "", nil
	}
	return c.tokens.Token(ctx)
}

// errorMessage extrae "message" o "error" del cuerpo JSON; si no hay, usa el texto del status.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(body.Error); m != "" {
			return m
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "HTTP " + strconv.Itoa(status)
}
