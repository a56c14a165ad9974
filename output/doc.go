// Package output receives finished embeddings.
//
// The engine calls [Writer.PutMetadata] once, then [Writer.PutData] once
// per retained entity in unspecified order, then [Writer.Finish] once.
//
// [TextWriter] writes the line format
//
//	<entities> <dimension>
//	<name> <occurrence> <v1> ... <vd>
//
// optionally wrapped in a zstd or lz4 frame stream. [Collector] keeps the
// records in memory.
package output
