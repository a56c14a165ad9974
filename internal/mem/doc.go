// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// In-memory generations are allocated 64-byte aligned so each dimension
// column starts on a cache line when the entity count is a multiple of 16.
package mem
