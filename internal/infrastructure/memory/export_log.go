// Package memory implementaciones en memoria de los repositorios, usadas cuando no hay
// base de datos configurada.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taller-dashboard/internal/domain/entity"
	"github.com/jhoicas/taller-dashboard/internal/domain/repository"
)

var _ repository.ExportLogRepository = (*ExportLog)(nil)

// defaultCapacity entradas que se conservan; las más viejas se descartan.
const defaultCapacity = 500

// ExportLog bitácora acotada de exportaciones.
type ExportLog struct {
	mu       sync.Mutex
	capacity int
	records  []entity.ExportRecord
}

// NewExportLog crea la bitácora. capacity <= 0 usa el valor por defecto.
func NewExportLog(capacity int) *ExportLog {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &ExportLog{capacity: capacity}
}

// Record guarda una copia de rec.
func (l *ExportLog) Record(_ context.Context, rec *entity.ExportRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, *rec)
	if over := len(l.records) - l.capacity; over > 0 {
		l.records = append([]entity.ExportRecord(nil), l.records[over:]...)
	}
	return nil
}

// ListRecent devuelve hasta limit entradas, la más reciente primero.
func (l *ExportLog) ListRecent(_ context.Context, limit int) ([]*entity.ExportRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.records) {
		limit = len(l.records)
	}
	out := make([]*entity.ExportRecord, 0, limit)
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := l.records[i]
		out = append(out, &rec)
	}
	return out, nil
}
