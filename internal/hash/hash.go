package hash

import (
	"github.com/cespare/xxhash/v2"
)

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// Sentinel marks an unused entity slot.
const Sentinel int64 = -1

// Stable returns the FNV-1a hash of v's little-endian bytes.
func Stable(v int64) uint64 {
	u := uint64(v)
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= u & 0xff
		h *= fnvPrime64
		u >>= 8
	}
	return h
}

// Entity returns the identity hash of an entity name.
func Entity(name string) int64 {
	h := int64(xxhash.Sum64String(name))
	if h == Sentinel {
		return Sentinel - 1
	}
	return h
}
