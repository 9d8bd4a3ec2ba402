package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Disk is a Store over a single flat directory. Filenames are the keys;
// only files with an allowed extension are visible through List.
type Disk struct {
	dir     string
	allowed map[string]struct{}

	// mu serializes writes so a replace cannot interleave with a delete
	// of the same name. Reads are unguarded: a filter racing a delete
	// sees at worst a transient read failure, which callers tolerate.
	mu sync.Mutex
}

// NewDisk creates the directory if needed and returns a Disk store.
// allowedExts are extensions with leading dots (e.g. ".pdf"); matching is
// case-insensitive.
func NewDisk(dir string, allowedExts []string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Disk{dir: dir, allowed: allowed}, nil
}

// Dir returns the directory backing the store.
func (d *Disk) Dir() string {
	return d.dir
}

// Allowed reports whether the extension of name is accepted by the store.
func (d *Disk) Allowed(name string) bool {
	_, ok := d.allowed[strings.ToLower(filepath.Ext(name))]
	return ok
}

// List returns stored filenames with allowed extensions, sorted ascending.
// The sorted order is what makes filter tie-breaking deterministic.
func (d *Disk) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !d.Allowed(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	// os.ReadDir returns entries sorted by filename already.
	return names, nil
}

// Read returns the raw bytes of the named resume.
func (d *Disk) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := d.sanitize(name)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}

// Save stores the contents of r under name, replacing any existing file.
// The write goes to a uniquely named temp file first and is renamed into
// place, so a concurrent reader never sees a partially written resume.
func (d *Disk) Save(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := d.sanitize(name)
	if err != nil {
		return err
	}
	if !d.Allowed(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, filepath.Ext(name))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp := filepath.Join(d.dir, ".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(d.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Delete removes the named resume.
func (d *Disk) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := d.sanitize(name)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(filepath.Join(d.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Count returns the number of stored resumes.
func (d *Disk) Count(ctx context.Context) (int, error) {
	names, err := d.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// sanitize rejects names that are empty, hidden, or contain path elements,
// so store keys can never escape the upload directory.
func (d *Disk) sanitize(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}
