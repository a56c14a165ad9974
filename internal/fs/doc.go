// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: An open file that can be synced, closed and memory mapped
//   - [FileSystem]: Abstracts filesystem operations (open, remove, truncate, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate failures of the generation-file
// lifecycle:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("_matrix_2", fs.Fault{FailOnTruncate: true})
//	// inject ffs into component under test
//
// Filesystem operations are not interruptible at the syscall level, so
// the interfaces carry no context.Context.
package fs
