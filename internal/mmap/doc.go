// Package mmap provides read-write, shared memory-mapped files.
//
// # Overview
//
// A Mapping exposes the bytes of a file directly in the address space.
// Writes through the mapping land in the page cache and reach the file
// on Flush (msync) or when the kernel writes the pages back.
//
// # Usage
//
//	m, err := mmap.Map(f, size)
//	if err != nil { ... }
//	defer m.Close()
//
//	vals, _ := m.Float32s() // typed, bounds-checked view
//	vals[42] = 1.5
//	_ = m.Flush()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), msync(2), madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile, FlushViewOfFile (madvise is a no-op)
//
// # Thread Safety
//
// Disjoint index ranges of Bytes() and Float32s() may be written by
// different goroutines. Close is idempotent; callers must ensure no
// goroutine touches the slices after Close returns.
package mmap
