package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-dashboard/internal/domain"
	"github.com/jhoicas/taller-dashboard/internal/infrastructure/storage"
)

func TestFileSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	s, err := storage.NewFileSaver(dir)
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "bookings-by-day.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bookings-by-day.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no quedan temporales")
}

func TestFileSaver_ReemplazaExistente(t *testing.T) {
	s, err := storage.NewFileSaver(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "x.csv", strings.NewReader("viejo"))
	require.NoError(t, err)
	path, err := s.Save(context.Background(), "x.csv", strings.NewReader("nuevo"))
	require.NoError(t, err)

	raw, _ := os.ReadFile(path)
	assert.Equal(t, "nuevo", string(raw))
}

func TestFileSaver_NombreSinRuta(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileSaver(dir)
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "../../etc/invoice-1.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice-1.pdf"), path)

	_, err = s.Save(context.Background(), "  ", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("conexión cortada") }

func TestFileSaver_FalloDeLecturaNoDejaArchivo(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileSaver(dir)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "x.csv", failingReader{})
	require.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
