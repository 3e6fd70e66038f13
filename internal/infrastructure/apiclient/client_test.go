package apiclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/apiclient"
)

func newClient(t *testing.T, h http.HandlerFunc, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := apiclient.New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNew_URLInvalida(t *testing.T) {
	_, err := apiclient.New("localhost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListInvoices(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAuth = r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"content":[{"id":7,"invoiceNumber":"INV-7","totalAmount":1000,"paidAmount":400,"customerId":"3"}],"totalPages":4}`)
	}, apiclient.WithTokenSource(apiclient.StaticToken("secreto")))

	page, err := c.ListInvoices(context.Background(), 1, 10, "PAID")
	require.NoError(t, err)

	assert.Equal(t, "/api/billing/invoices", gotPath)
	assert.Equal(t, "page=1&size=10&status=PAID", gotQuery)
	assert.Equal(t, "Bearer secreto", gotAuth)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Content, 1)
	inv := page.Content[0]
	assert.Equal(t, entity.ID("7"), inv.ID)
	assert.Equal(t, entity.ID("3"), inv.CustomerID)
	assert.True(t, inv.TotalAmount.Valid)
	assert.Equal(t, "1000", inv.TotalAmount.Decimal.String())
	assert.False(t, inv.Balance.Valid, "campo ausente queda como nulo")
}

func TestListInvoices_SinStatusNoEnviaParametro(t *testing.T) {
	var gotQuery string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"content":[],"totalPages":0}`)
	})
	_, err := c.ListInvoices(context.Background(), 0, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "page=0&size=10", gotQuery)
}

func TestSearchInvoices(t *testing.T) {
	var gotQ string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/billing/invoices/search", r.URL.Path)
		gotQ = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, `[{"id":"a1"},{"id":"a2"}]`)
	})
	out, err := c.SearchInvoices(context.Background(), "brake & pads")
	require.NoError(t, err)
	assert.Equal(t, "brake & pads", gotQ)
	assert.Len(t, out, 2)
}

func TestDeleteInvoice_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/billing/invoices/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	})

	err := c.DeleteInvoice(context.Background(), "42")
	require.Error(t, err)

	var httpErr *apiclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "not found", httpErr.Message)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "not found", domain.Message(err))
}

func TestDeleteInvoice_OK(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteInvoice(context.Background(), "42"))
}

func TestErrorSinCuerpoUsaStatusText(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := c.GetBillingSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Forbidden", domain.Message(err))
}

func TestErrorCampoError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"database unavailable"}`)
	})
	_, err := c.GetRevenueSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, "database unavailable", domain.Message(err))
}

func TestGetCustomer(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers/9", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":9,"firstName":"Dana","lastName":"Ruiz","email":"dana@example.com"}`)
	})
	cust, err := c.GetCustomer(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "Dana Ruiz", cust.FullName())
}

func TestGetReportYRevenue(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports/bookings-by-location":
			_, _ = io.WriteString(w, `[{"locationName":"Downtown","bookings":5,"totalRevenue":"1250.50"}]`)
		case "/api/reports/revenue-summary":
			_, _ = io.WriteString(w, `{"totalRevenue":900,"totalBookings":0}`)
		default:
			http.NotFound(w, r)
		}
	})

	rows, err := c.GetReport(context.Background(), entity.BucketBookingsByLocation)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Downtown", rows[0].Label)
	assert.Equal(t, int64(5), rows[0].Count)
	assert.Equal(t, "1250.5", rows[0].Revenue.Decimal.String())

	sum, err := c.GetRevenueSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.TotalBookings)
	assert.True(t, sum.AverageRevenuePerBooking().IsZero())
}

func TestFetchCSV(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reports/bookings-by-day/csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "date,count\n2024-06-01,3\n")
	})
	body, err := c.FetchCSV(context.Background(), entity.BucketBookingsByDay.CSVEndpoint())
	require.NoError(t, err)
	defer body.Close()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "date,count\n2024-06-01,3\n", string(raw))
}

func TestFetchCSV_ErrorHTTP(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"message":"Report service unavailable"}`)
	})
	body, err := c.FetchCSV(context.Background(), "/api/reports/bookings-by-day/csv")
	assert.Nil(t, body)
	assert.Equal(t, "Report service unavailable", domain.Message(err))
}

func TestWithTokenReemplazaTokenSource(t *testing.T) {
	var gotAuth string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}, apiclient.WithTokenSource(apiclient.StaticToken("servicio")))

	ctx := apiclient.WithToken(context.Background(), "usuario")
	_, err := c.GetBillingSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer usuario", gotAuth)
}

func TestCancelacion(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetBillingSummary(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
