// Package hash provides the hash functions the embedding pipeline depends on.
//
// # Stable
//
// [Stable] is 64-bit FNV-1a over the raw 8-byte little-endian encoding of a
// signed integer. The initializer derives every starting matrix value from
// it, so the function is part of the output contract: changing it changes
// every embedding.
//
// # Entity
//
// [Entity] maps entity names to their 64-bit identity using xxhash64.
// A hash of -1 (all bits set) is reserved as the empty-slot sentinel and
// is remapped to -2.
package hash
