package repo

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB открывает SQLite-файл во временном каталоге (modernc.org/sqlite) и прогоняет миграции.
// Отдельный файл на тест — чтобы записи не утекали между тестами.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "lendit.db"))
	require.NoError(t, err, "failed to init sqlite (modernc)")
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// fixedClock возвращает управляемые часы для репозитория.
func fixedClock(start time.Time) (func() time.Time, func(time.Time)) {
	cur := start
	return func() time.Time { return cur }, func(t time.Time) { cur = t }
}

func TestIsPostgresDSN(t *testing.T) {
	require.True(t, IsPostgresDSN("postgres://u:p@localhost:5432/lendit"))
	require.True(t, IsPostgresDSN("postgresql://localhost/lendit"))
	require.False(t, IsPostgresDSN("/tmp/lendit.db"))
	require.False(t, IsPostgresDSN("file::memory:"))
}

func TestInitDB_EmptyDSN(t *testing.T) {
	_, err := InitDB("")
	require.Error(t, err)
}
