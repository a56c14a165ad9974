// Package cleora computes graph entity embeddings by iterated propagation
// over a normalized sparse weight matrix.
//
// Every entity starts from a deterministic pseudo-random vector derived
// from its hash. Each iteration replaces an entity's vector with the
// weighted sum of its neighbours' vectors and renormalizes it to unit L2
// length, so structurally similar entities converge to similar vectors.
//
// # Quick Start
//
//	b := sparse.NewBuilder("graph")
//	_ = b.AddPair("alice", "bob", 1)
//	_ = b.AddPair("bob", "carol", 1)
//
//	w, _ := output.NewTextWriter(f, output.CompressionNone)
//	res, err := cleora.Embed(ctx, b.Matrix(), b.Names(), w,
//	    cleora.WithDimension(128),
//	    cleora.WithMaxIterations(4),
//	)
//
// # Storage Strategies
//
// InMemory keeps the whole entities x dimension matrix on the heap.
// Mmap keeps it in a memory-mapped file per iteration inside the work
// directory ("{id}_matrix_{iteration}"); the previous file is deleted once
// the next one is flushed and the last one once embeddings are written.
// Use Mmap when entities x dimension x 4 bytes does not comfortably fit in
// memory. Both strategies produce the same embeddings.
//
// # Failure Model
//
// Runs are single-process batch jobs. Any error aborts the whole run; there
// is no retry and no resumption. Entities whose hash cannot be resolved to
// a name are silently left out of the output. Entities that receive no
// contribution keep a zero vector.
package cleora
