package repository

import (
	"context"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
)

// ExportLogRepository puerto de persistencia de la bitácora de exportaciones.
type ExportLogRepository interface {
	Record(ctx context.Context, rec *entity.ExportRecord) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ExportRecord, error)
}
