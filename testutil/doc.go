// Package testutil provides testing utilities for cleora.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random graphs and a slow dense
// reference embedder used as ground truth.
//
// # Random Graphs
//
//	rng := testutil.NewRNG(seed)
//	b := rng.Graph("g", 100, 400) // 100 candidate nodes, 400 weighted edges
//
// # Ground Truth
//
//	want := testutil.Reference(b.Matrix(), dimension, iterations)
//	testutil.Norm(want[j]) // 1 for every entity with a contribution
package testutil
