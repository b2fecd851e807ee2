// SPDX-License-Identifier: GPL-2.0-or-later

// Package library shares loaded geometry between everything placed from
// it. Entries are reference counted and dropped with the last release.
package library

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"ozphys/bsp"
	"ozphys/filesystem"
	"ozphys/terra"
)

type Entry[T any] struct {
	ID    uuid.UUID
	Name  string
	Value T
	refs  int
}

// Refs returns the number of holders of e.
func (e *Entry[T]) Refs() int {
	return e.refs
}

// Loader reads the resource called name.
type Loader[T any] func(name string) (T, error)

// Cache must only be used from the simulation goroutine.
type Cache[T any] struct {
	load    Loader[T]
	ext     string
	entries map[string]*Entry[T]
}

func New[T any](load Loader[T]) *Cache[T] {
	return &Cache[T]{
		load:    load,
		entries: make(map[string]*Entry[T]),
	}
}

// WithExt sets the extension added to names that have none.
func (c *Cache[T]) WithExt(ext string) *Cache[T] {
	c.ext = ext
	return c
}

// NewBSPCache returns a cache of structures loaded through the filesystem.
func NewBSPCache() *Cache[*bsp.BSP] {
	return New(bsp.LoadFile).WithExt(".ozBSP")
}

// NewTerraCache returns a cache of terrains loaded through the filesystem.
func NewTerraCache() *Cache[*terra.Terrain] {
	return New(terra.LoadFile).WithExt(".ozTerra")
}

func (c *Cache[T]) key(name string) string {
	if c.ext != "" && filesystem.Ext(name) == "" {
		return name + c.ext
	}
	return name
}

// Acquire returns the entry for name, loading it on first use. A name
// without extension gets the default extension of the cache.
func (c *Cache[T]) Acquire(name string) (*Entry[T], error) {
	name = c.key(name)
	if e, ok := c.entries[name]; ok {
		e.refs++
		return e, nil
	}
	v, err := c.load(name)
	if err != nil {
		return nil, errors.WithMessagef(err, "library: acquire %s", name)
	}
	e := &Entry[T]{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  name,
		Value: v,
		refs:  1,
	}
	c.entries[name] = e
	slog.Debug("Library entry loaded", slog.String("name", name), slog.String("id", e.ID.String()))
	return e, nil
}

// Release gives up one reference to e.
func (c *Cache[T]) Release(e *Entry[T]) {
	if e.refs <= 0 {
		slog.Error("Library entry released too often", slog.String("name", e.Name))
		return
	}
	e.refs--
	if e.refs == 0 && c.entries[e.Name] == e {
		delete(c.entries, e.Name)
		slog.Debug("Library entry dropped", slog.String("name", e.Name))
	}
}

// Lookup finds a loaded entry by id.
func (c *Cache[T]) Lookup(id uuid.UUID) (*Entry[T], bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (c *Cache[T]) Len() int {
	return len(c.entries)
}
