// Package matrix holds the dense embedding matrix of one propagation round
// (a generation) and the two strategies that back it.
//
// Every generation is entities x dimension float32 values laid out column
// major: dimension i occupies indices [i*entities, (i+1)*entities) of the
// flat buffer. [MemoryStore] keeps that buffer on the heap; [MmapStore]
// keeps it in a memory-mapped file named "{id}_matrix_{iteration}" that is
// created fresh per round and deleted once superseded.
package matrix
