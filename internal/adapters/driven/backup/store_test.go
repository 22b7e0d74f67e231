package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 9, 14, 5, 7, 0, time.Local)
}

func TestBackup_CopiesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"a":1}]`), 0640))

	name, err := NewWithClock(fixedClock).Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak-20260309-140507", name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(data))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm()&0640)

	// Source untouched.
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(data))
}

func TestBackup_NameCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.vsx")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0600))

	store := NewWithClock(fixedClock)
	first, err := store.Backup(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0600))
	second, err := store.Backup(path)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first+"-1", second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestBackup_MissingSource(t *testing.T) {
	_, err := New().Backup(filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackupFailure)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackup_Directory(t *testing.T) {
	_, err := New().Backup(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrBackupFailure)
}
