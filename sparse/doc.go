// Package sparse provides the weighted relationship matrix the embedding
// engine propagates over.
//
// A [Source] exposes entities interned to dense indices (each carrying a
// stable 64-bit hash, or -1 for an unused slot), how often each hash was
// seen, and a stream of (row, col, value) entries. [Matrix] is the
// in-memory implementation; [Builder] fills one from named relationships
// and [ReadEdges] from a tab-separated edge list.
package sparse
