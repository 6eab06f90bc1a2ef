// Package jsonstore persists named collections as human-readable JSON files,
// one file per collection, rewritten wholesale on every mutation. A
// per-collection mutex makes each load-mutate-save sequence atomic with
// respect to other mutations on the same collection.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Collection is a JSON array file holding records of type T.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// NewCollection opens (or will create on first save) dir/name.json.
func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{path: filepath.Join(dir, name+".json")}
}

// Load reads the full collection. A missing file is an empty collection.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Save rewrites the full collection.
func (c *Collection[T]) Save(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(items)
}

// Mutate loads the collection, applies fn and saves the result, all under the
// collection lock. Returning an error from fn aborts without saving.
func (c *Collection[T]) Mutate(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(updated)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	return writeFileAtomic(c.path, data)
}

// Document is a JSON object file holding a map of type M.
type Document[M ~map[string]V, V any] struct {
	path string
	mu   sync.Mutex
}

// NewDocument opens (or will create on first save) dir/name.json.
func NewDocument[M ~map[string]V, V any](dir, name string) *Document[M, V] {
	return &Document[M, V]{path: filepath.Join(dir, name+".json")}
}

// Load reads the document. A missing file is an empty (non-nil) map.
func (d *Document[M, V]) Load() (M, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

// Mutate loads the document, applies fn and saves the result under the lock.
func (d *Document[M, V]) Mutate(fn func(m M) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.load()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}
	return writeFileAtomic(d.path, data)
}

func (d *Document[M, V]) load() (M, error) {
	m := make(M)
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return m, nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated collection behind.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
