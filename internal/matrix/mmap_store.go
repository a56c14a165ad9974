package matrix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/isgasho/cleora/internal/conv"
	"github.com/isgasho/cleora/internal/fs"
	"github.com/isgasho/cleora/internal/mmap"
)

// MmapStore backs each generation with its own memory-mapped file.
//
// At most two generations exist at once: the one being read and the one
// being written. The older file is deleted only after the newer one has
// been flushed.
type MmapStore struct {
	fs        fs.FileSystem
	dir       string
	id        string
	entities  int
	dimension int
	size      int
}

// NewMmapStore creates a file-backed store writing into dir.
// id prefixes every generation file name.
func NewMmapStore(fsys fs.FileSystem, dir, id string, entities, dimension int) (*MmapStore, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	size, err := conv.MulInt(entities, dimension, 4)
	if err != nil {
		return nil, fmt.Errorf("matrix: generation size: %w", err)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("matrix: create work dir: %w", err)
	}
	return &MmapStore{
		fs:        fsys,
		dir:       dir,
		id:        id,
		entities:  entities,
		dimension: dimension,
		size:      size,
	}, nil
}

func (s *MmapStore) Strategy() string { return "mmap" }

// Path returns the file that holds the given generation.
func (s *MmapStore) Path(iteration int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_matrix_%d", s.id, iteration))
}

// Size returns the byte length of every generation file.
func (s *MmapStore) Size() int { return s.size }

func (s *MmapStore) Allocate(iteration int) (g *Generation, err error) {
	path := s.Path(iteration)
	fail := func(op string, cause error) error {
		return &GenerationError{Iteration: iteration, Op: op, Path: path, Err: cause}
	}

	// O_TRUNC discards leftovers of an aborted run; the file starts zeroed.
	f, err := s.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fail("create", err)
	}
	defer func() {
		if err != nil {
			if g != nil && g.mapping != nil {
				_ = g.mapping.Close()
			}
			g = nil
			_ = f.Close()
			_ = s.fs.Remove(path)
		}
	}()

	if err := s.fs.Truncate(path, conv.IntToInt64(s.size)); err != nil {
		return nil, fail("resize", err)
	}

	m, err := mmap.Map(f, s.size)
	if err != nil {
		return nil, fail("map", err)
	}
	g = &Generation{
		iteration: iteration,
		entities:  s.entities,
		dimension: s.dimension,
		mapping:   m,
		file:      f,
		path:      path,
	}

	if err := m.Advise(mmap.AccessRandom); err != nil {
		return g, fail("advise", err)
	}
	data, err := m.Float32s()
	if err != nil {
		return g, fail("map", err)
	}
	g.data = data
	return g, nil
}

// Commit writes next's dirty pages and syncs its file, makes its mapping
// read-only and then releases prev.
func (s *MmapStore) Commit(prev, next *Generation) error {
	fail := func(op string, cause error) error {
		return &GenerationError{Iteration: next.iteration, Op: op, Path: next.path, Err: cause}
	}
	if next.mapping != nil {
		if err := next.mapping.Flush(); err != nil {
			return fail("flush", err)
		}
	}
	if next.file != nil {
		if err := next.file.Sync(); err != nil {
			return fail("flush", err)
		}
	}
	if next.mapping != nil {
		if err := next.mapping.ReadOnly(); err != nil {
			return fail("protect", err)
		}
	}
	if prev != nil {
		return s.Release(prev)
	}
	return nil
}

// Release unmaps g, closes and deletes its file.
func (s *MmapStore) Release(g *Generation) error {
	g.data = nil
	var errs []error
	if g.mapping != nil {
		if err := g.mapping.Close(); err != nil {
			errs = append(errs, &GenerationError{Iteration: g.iteration, Op: "unmap", Path: g.path, Err: err})
		}
	}
	if g.file != nil {
		if err := g.file.Close(); err != nil {
			errs = append(errs, &GenerationError{Iteration: g.iteration, Op: "close", Path: g.path, Err: err})
		}
		g.file = nil
	}
	if err := s.fs.Remove(g.path); err != nil {
		errs = append(errs, &GenerationError{Iteration: g.iteration, Op: "delete", Path: g.path, Err: err})
	}
	return errors.Join(errs...)
}
