package reports

import (
	"strconv"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/format"
)

// RevenueView resumen de ingresos formateado.
type RevenueView struct {
	TotalRevenue             string `json:"totalRevenue"`
	TotalBookings            int64  `json:"totalBookings"`
	AverageRevenuePerBooking string `json:"averageRevenuePerBooking"`
}

// NewRevenueView formatea s. Sin reservas el promedio es $0.00.
func NewRevenueView(s entity.RevenueSummary) RevenueView {
	return RevenueView{
		TotalRevenue:             format.Currency(s.TotalRevenue),
		TotalBookings:            s.TotalBookings,
		AverageRevenuePerBooking: format.Amount(s.AverageRevenuePerBooking()),
	}
}

// BoardView estado de la pantalla de reportes.
type BoardView struct {
	Loading      bool
	Buckets      []BucketView
	Revenue      *RevenueView
	RevenueError string
	ExportError  string
	LastExport   string
}

// BucketView tabla de un bucket.
type BucketView struct {
	Bucket     entity.ReportBucket
	Title      string
	Loaded     bool
	HasRevenue bool
	Rows       []RowView
	Error      string
}

// RowView fila formateada.
type RowView struct {
	Label   string
	Count   string
	Revenue string
}

func newBucketView(bucket entity.ReportBucket, rows []entity.ReportRow, loaded bool, errMsg string) BucketView {
	v := BucketView{Bucket: bucket, Title: bucket.Title(), Loaded: loaded, Error: errMsg}
	for _, r := range rows {
		if r.Revenue.Valid {
			v.HasRevenue = true
			break
		}
	}
	for _, r := range rows {
		label := r.Label
		if bucket == entity.BucketBookingsByDay {
			label = format.Date(label)
		}
		row := RowView{Label: label, Count: strconv.FormatInt(r.Count, 10)}
		if v.HasRevenue {
			row.Revenue = format.Currency(r.Revenue)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
