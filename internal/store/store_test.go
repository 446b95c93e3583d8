package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotStore interface {
	Load() ([]byte, error)
	Save([]byte) error
}

func exerciseStore(t *testing.T, s snapshotStore) {
	t.Helper()

	data, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, data, "empty store should load nothing")

	require.NoError(t, s.Save([]byte(`{"hunger":80}`)))
	require.NoError(t, s.Save([]byte(`{"hunger":42}`)))

	data, err = s.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"hunger":42}`, string(data), "last write wins")
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pet.json")
	f, err := NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, f)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileUnreadable(t *testing.T) {
	dir := t.TempDir()
	f := &File{Path: dir}
	_, err := f.Load()
	assert.Error(t, err, "a directory is not a snapshot")
}

func TestSQLite(t *testing.T) {
	db, err := NewSQLite(":memory:", "")
	require.NoError(t, err)
	defer db.Close()
	exerciseStore(t, db)

	var updated int64
	require.NoError(t, db.db.QueryRow(`SELECT updated_at FROM snapshots WHERE slot = ?`, db.slot).Scan(&updated))
	assert.Positive(t, updated)
}

func TestSQLiteSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pets.db")
	a, err := NewSQLite(path, "alice")
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Save([]byte(`{"coins":1}`)))

	b, err := NewSQLite(path, "bob")
	require.NoError(t, err)
	defer b.Close()
	data, err := b.Load()
	require.NoError(t, err)
	assert.Nil(t, data, "slots are independent")

	// Migrations are safe to repeat.
	require.NoError(t, b.Migrate())
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
}
