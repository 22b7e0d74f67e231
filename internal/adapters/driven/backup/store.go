// Package backup copies store files aside before they are rewritten.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BackupStore = (*Store)(nil)

// timestampLayout is appended to backup names as <path>.bak-<timestamp>.
const timestampLayout = "20060102-150405"

// maxAttempts bounds the -N suffixes tried when a name is taken.
const maxAttempts = 1000

// Store writes timestamped sibling copies.
type Store struct {
	now func() time.Time
}

// New creates a backup store using the local wall clock.
func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock creates a backup store with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Backup copies path to a new sibling and returns the backup path.
// An existing backup is never overwritten.
func (s *Store) Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w: %s", domain.ErrBackupFailure, domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: opening %s: %w", domain.ErrBackupFailure, path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", domain.ErrBackupFailure, path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrBackupFailure, path)
	}

	base := path + ".bak-" + s.now().Format(timestampLayout)
	dst, name, err := createUnique(base, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBackupFailure, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("%w: copying %s: %w", domain.ErrBackupFailure, path, err)
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("%w: syncing %s: %w", domain.ErrBackupFailure, name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("%w: closing %s: %w", domain.ErrBackupFailure, name, err)
	}
	return name, nil
}

// createUnique creates base, or base-1, base-2, ... if taken.
func createUnique(base string, perm fs.FileMode) (*os.File, string, error) {
	for i := 0; i < maxAttempts; i++ {
		name := base
		if i > 0 {
			name = base + "-" + strconv.Itoa(i)
		}
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil, "", fmt.Errorf("no free backup name for %s", base)
}
