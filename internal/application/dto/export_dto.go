package dto

import (
	"time"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/pkg/format"
)

// HistoryRequest query de GET /api/exports/history.
type HistoryRequest struct {
	Limit int `query:"limit"`
}

// DefaultLimit aplica el límite por defecto (20) y el máximo (100).
func (r *HistoryRequest) DefaultLimit() {
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// ExportRecordResponse entrada de la bitácora.
type ExportRecordResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Reference   string    `json:"reference"`
	Filename    string    `json:"filename"`
	Engine      string    `json:"engine"`
	TotalAmount string    `json:"total_amount,omitempty"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportHistoryResponse listado de la bitácora.
type ExportHistoryResponse struct {
	Items []ExportRecordResponse `json:"items"`
	Limit int                    `json:"limit"`
}

// NewExportRecordResponse formatea rec (el total solo aplica a facturas).
func NewExportRecordResponse(rec *entity.ExportRecord) ExportRecordResponse {
	out := ExportRecordResponse{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Reference: rec.Reference,
		Filename:  rec.Filename,
		Engine:    rec.Engine,
		Bytes:     rec.Bytes,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Kind == entity.ExportKindInvoicePDF {
		out.TotalAmount = format.Amount(rec.TotalAmount)
	}
	return out
}
