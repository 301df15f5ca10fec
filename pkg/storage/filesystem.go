package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for names that would escape the directory.
var ErrInvalidName = errors.New("invalid file name")

// Dir writes export files under a base directory.
type Dir struct {
	base string
}

// NewDir ensures base exists. An empty base means the working directory.
func NewDir(base string) (*Dir, error) {
	if base == "" {
		base = "."
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Dir{base: base}, nil
}

// Save writes data to name atomically: readers never observe a partial file.
// It returns the final path.
func (d *Dir) Save(name string, data []byte) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	target := filepath.Join(d.base, clean)

	tmp, err := os.CreateTemp(d.base, "."+clean+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("write %s: %w", clean, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close() //nolint:errcheck
		return "", fmt.Errorf("chmod %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", clean, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move %s into place: %w", clean, err)
	}
	return target, nil
}

// Path resolves name inside the directory.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.base, name)
}

// SaveFile splits path into directory and name and saves there.
func SaveFile(path string, data []byte) (string, error) {
	dir, err := NewDir(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return dir.Save(filepath.Base(path), data)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}
