package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalArchive persists issued transcript documents on disk under a
// base directory, one subdirectory per registration number.
type LocalArchive struct {
	baseDir string
}

// NewLocalArchive ensures the base directory exists and returns a handle.
func NewLocalArchive(baseDir string) (*LocalArchive, error) {
	if baseDir == "" {
		baseDir = "./archive"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &LocalArchive{baseDir: baseDir}, nil
}

// Save writes an issued document for the given registration number and
// returns the relative archive path.
func (a *LocalArchive) Save(regNo string, issuedAt time.Time, data []byte) (string, error) {
	rel := filepath.Join(regNo, fmt.Sprintf("transcript-%s.pdf", issuedAt.Format("20060102T150405")))
	path := filepath.Join(a.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return rel, nil
}

// List returns the relative paths of every archived document for the
// registration number, oldest first.
func (a *LocalArchive) List(regNo string) ([]string, error) {
	dir := filepath.Join(a.baseDir, regNo)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, filepath.Join(regNo, entry.Name()))
	}
	return names, nil
}

// CleanupOlderThan removes archived documents past the retention window
// and returns the deleted relative paths.
func (a *LocalArchive) CleanupOlderThan(retention time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-retention)
	deleted := make([]string, 0)
	err := filepath.WalkDir(a.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(a.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup archive: %w", err)
	}
	return deleted, nil
}

// Path resolves a relative archive path to its absolute location.
func (a *LocalArchive) Path(rel string) string {
	return filepath.Join(a.baseDir, rel)
}
