package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ReportBucket agrupación nombrada de reportes.
type ReportBucket string

// Buckets disponibles en la API de reportes.
const (
	BucketBookingsByDay      ReportBucket = "bookings-by-day"
	BucketBookingsByLocation ReportBucket = "bookings-by-location"
	BucketBookingsByService  ReportBucket = "bookings-by-service"
)

// ReportBuckets en el orden en que se muestran.
var ReportBuckets = []ReportBucket{BucketBookingsByDay, BucketBookingsByLocation, BucketBookingsByService}

// ParseReportBucket valida el nombre de bucket.
func ParseReportBucket(s string) (ReportBucket, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, b := range ReportBuckets {
		if string(b) == s {
			return b, true
		}
	}
	return "", false
}

// Endpoint ruta JSON del bucket.
func (b ReportBucket) Endpoint() string { return "/api/reports/" + string(b) }

// CSVEndpoint ruta del stream CSV del bucket.
func (b ReportBucket) CSVEndpoint() string { return b.Endpoint() + "/csv" }

// Filename nombre de archivo sugerido para la descarga CSV.
func (b ReportBucket) Filename() string { return string(b) + ".csv" }

// Title etiqueta legible del bucket.
func (b ReportBucket) Title() string {
	switch b {
	case BucketBookingsByDay:
		return "Bookings by day"
	case BucketBookingsByLocation:
		return "Bookings by location"
	case BucketBookingsByService:
		return "Bookings by service"
	default:
		return string(b)
	}
}

// ReportRow par etiqueta/conteo con ingreso opcional.
type ReportRow struct {
	Label   string
	Count   int64
	Revenue decimal.NullDecimal
}

// Claves que distintos buckets usan para la etiqueta y el conteo.
var (
	reportLabelKeys = []string{"label", "date", "day", "location", "locationName", "serviceName", "serviceType", "service", "name"}
	reportCountKeys = []string{"count", "bookings", "totalBookings", "bookingCount"}
	reportMoneyKeys = []string{"revenue", "totalRevenue", "amount"}
)

// UnmarshalJSON tolera las distintas formas de fila que devuelve cada bucket.
func (r *ReportRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ReportRow{}
	for _, k := range reportLabelKeys {
		if v, ok := raw[k]; ok {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
				r.Label = s
				break
			}
			var n json.Number
			if err := json.Unmarshal(v, &n); err == nil {
				r.Label = n.String()
				break
			}
		}
	}
	for _, k := range reportCountKeys {
		if v, ok := raw[k]; ok {
			var d decimal.Decimal
			if err := json.Unmarshal(v, &d); err == nil {
				r.Count = d.IntPart()
				break
			}
		}
	}
	for _, k := range reportMoneyKeys {
		if v, ok := raw[k]; ok {
			var d decimal.NullDecimal
			if err := json.Unmarshal(v, &d); err == nil && d.Valid {
				r.Revenue = d
				break
			}
		}
	}
	return nil
}

// MarshalJSON emite la forma canónica label/count/revenue.
func (r ReportRow) MarshalJSON() ([]byte, error) {
	out := struct {
		Label   string           `json:"label"`
		Count   int64            `json:"count"`
		Revenue *decimal.Decimal `json:"revenue,omitempty"`
	}{Label: r.Label, Count: r.Count}
	if r.Revenue.Valid {
		out.Revenue = &r.Revenue.Decimal
	}
	return json.Marshal(out)
}

// RevenueSummary agregado de ingresos del período.
type RevenueSummary struct {
	TotalRevenue  decimal.NullDecimal `json:"totalRevenue"`
	TotalBookings int64               `json:"totalBookings"`
}

// AverageRevenuePerBooking totalRevenue / totalBookings (2 decimales) o 0 sin reservas.
func (s RevenueSummary) AverageRevenuePerBooking() decimal.Decimal {
	if s.TotalBookings <= 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	if s.TotalRevenue.Valid {
		total = s.TotalRevenue.Decimal
	}
	return total.DivRound(decimal.NewFromInt(s.TotalBookings), 2)
}

// BillingSummary contadores y totales del módulo de facturación.
type BillingSummary struct {
	TotalInvoices    int64               `json:"totalInvoices"`
	PaidInvoices     int64               `json:"paidInvoices"`
	UnpaidInvoices   int64               `json:"unpaidInvoices"`
	PartialInvoices  int64               `json:"partialInvoices"`
	TotalRevenue     decimal.NullDecimal `json:"totalRevenue"`
	TotalOutstanding decimal.NullDecimal `json:"totalOutstanding"`
}
