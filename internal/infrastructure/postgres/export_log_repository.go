package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
)

var _ repository.ExportLogRepository = (*ExportLogRepo)(nil)

// ExportLogRepo implementación de ExportLogRepository sobre la tabla export_log.
type ExportLogRepo struct {
	q Querier
}

// NewExportLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExportLogRepository(q Querier) *ExportLogRepo {
	return &ExportLogRepo{q: q}
}

// Record inserta una entrada.
func (r *ExportLogRepo) Record(ctx context.Context, rec *entity.ExportRecord) error {
	query := `
		INSERT INTO export_log (id, kind, reference, filename, engine, total_amount, bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Kind, rec.Reference, rec.Filename, rec.Engine, rec.TotalAmount, rec.Bytes, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert export_log %s: duplicado: %w", rec.ID, err)
		}
		return fmt.Errorf("insert export_log: %w", err)
	}
	return nil
}

// ListRecent últimas limit entradas, la más reciente primero.
func (r *ExportLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, kind, reference, filename, engine, total_amount, bytes, created_at
		FROM export_log
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list export_log: %w", err)
	}
	defer rows.Close()

	var list []*entity.ExportRecord
	for rows.Next() {
		var rec entity.ExportRecord
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.Reference, &rec.Filename, &rec.Engine,
			&rec.TotalAmount, &rec.Bytes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan export_log: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list export_log: %w", err)
	}
	return list, nil
}
