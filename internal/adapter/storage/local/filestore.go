// Package local stores uploaded assets on the local filesystem and serves
// them from a public /uploads URL.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/pkg/apperror"
)

var baseNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileStore implements ports.FileStore on a local directory.
type FileStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewFileStore creates the upload directory if needed and returns the store.
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}, nil
}

// Save writes the reader to disk under a timestamped, sanitized name:
// [prefix]<millis>-<base><ext>.
func (s *FileStore) Save(ctx context.Context, originalName, prefix string, r io.Reader) (*ports.StoredFile, error) {
	ext := filepath.Ext(originalName)
	base := baseNameSanitizer.ReplaceAllString(strings.TrimSuffix(filepath.Base(originalName), ext), "")
	name := fmt.Sprintf("%s%d-%s%s", prefix, s.now().UnixMilli(), base, ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("create upload %s: %w", name, err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return nil, fmt.Errorf("write upload %s: %w", name, err)
	}

	return &ports.StoredFile{
		Filename: name,
		URL:      s.URL(name),
		Size:     size,
	}, nil
}

// Path resolves a stored filename to its on-disk path. Fails with FileNotFound
// for absent files and for names that try to escape the upload directory.
func (s *FileStore) Path(filename string) (string, error) {
	if filename != filepath.Base(filename) || filename == "." || filename == "" {
		return "", apperror.ErrFileNotFound()
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", apperror.ErrFileNotFound()
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// Open opens a stored file for reading.
func (s *FileStore) Open(filename string) (io.ReadCloser, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Stat returns basic metadata for a stored file.
func (s *FileStore) Stat(filename string) (*ports.FileInfo, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &ports.FileInfo{
		Filename:  filename,
		Size:      info.Size(),
		URL:       s.URL(filename),
		CreatedAt: info.ModTime(),
	}, nil
}

// URL returns the public URL for a stored filename.
func (s *FileStore) URL(filename string) string {
	return s.baseURL + "/uploads/" + filename
}

// Dir returns the upload directory, for static file serving.
func (s *FileStore) Dir() string {
	return s.dir
}
