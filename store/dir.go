package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ext is the extension of the files holding a value.
const ext = ".json"

// Dir is a Storage where each key is a file "<key>.json" in a directory.
type Dir struct {
	path string
}

// NewDir returns a Dir storage in path, the directory is created if needed.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("storage directory is missing")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("could not create storage directory %q: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory of the storage.
func (d *Dir) Path() string { return d.path }

func (d *Dir) file(key string) string { return filepath.Join(d.path, key+ext) }

func (d *Dir) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("could not read %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the value to a temporary file first, so that a failed write
// never leaves a truncated value behind.
func (d *Dir) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.path, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), d.file(key)); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	return nil
}

func (d *Dir) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.Remove(d.file(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every value file of the directory, other files are left untouched.
func (d *Dir) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("could not list storage directory %q: %w", d.path, err)
	}
	var errs error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) || strings.HasPrefix(name, ".") {
			continue
		}
		if err := os.Remove(filepath.Join(d.path, name)); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
