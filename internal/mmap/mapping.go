package mmap

import (
	"sync/atomic"
	"unsafe"
)

// Mapping represents a read-write, shared memory-mapped file.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool

	// Platform-specific release and flush functions.
	unmap func([]byte) error
	flush func([]byte) error
}

// Map maps the first size bytes of f read-write and shared.
// The file must already be at least size bytes long. The descriptor may
// be closed once Map returns; the mapping keeps its own reference.
func Map(f Descriptor, size int) (*Mapping, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmapFunc, flushFunc, err := osMap(f.Fd(), size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
		flush: flushFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	data := m.data
	m.data = nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Float32s returns a float32 view over the whole mapping.
// Mappings are page aligned, so the view is always 4-byte aligned.
func (m *Mapping) Float32s() ([]float32, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if m.size%4 != 0 {
		return nil, ErrMisaligned
	}
	if m.size == 0 {
		return nil, nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&m.data[0])), m.size/4), nil //nolint:gosec // mapped region is page aligned
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Flush synchronously writes dirty pages back to the file.
func (m *Mapping) Flush() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil || m.flush == nil {
		return nil
	}
	return m.flush(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadOnly drops write access to the mapped pages. Later writes fault.
func (m *Mapping) ReadOnly() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osReadOnly(m.data)
}
