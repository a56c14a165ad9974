// Package engine computes entity embeddings by power iteration over a
// row-normalized sparse weight matrix.
//
// A run is a fixed sequence of phases separated by barriers:
//
//	normalize source
//	initialize generation 0, normalize it, commit
//	repeat MaxIterations times:
//	    accumulate generation k+1 from k, normalize it, commit (k is released)
//	persist the final generation, release it
//
// Accumulation and initialization fan out one task per dimension column;
// each task owns its output column exclusively for the phase, so no locks
// are needed. Normalization fans out over disjoint entity ranges. The
// algorithm is written once against matrix.Store; the storage strategy
// (heap or memory-mapped files) is a parameter of the run.
//
// Entities whose vector sums to zero (nothing propagated into them) are
// left as zero vectors instead of being divided by zero.
package engine
