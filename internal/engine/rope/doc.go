// Package rope provides a mutable rope for efficient storage and editing of
// large texts.
//
// A rope is a binary tree where leaf nodes hold bounded text chunks and
// internal nodes cache the aggregated length, newline count and height of
// their subtree. Nodes are immutable once built: edits copy the path from the
// root to the modified leaf, so a Clone is O(1) and stays valid while the
// original keeps changing.
//
// Key features:
//   - O(log n) insertion, deletion and random access
//   - Local AVL rotations after every structural change, with a full rebuild
//     as an escape hatch for pathological skew
//   - Lazily rebuilt line index for line/offset translation
//   - Permissive raw-offset operations, strict line-index operations
//
// Basic usage:
//
//	r := rope.New("hello world")
//	r.Insert(5, ",")          // "hello, world"
//	r.Delete(0, 7)            // "world"
//	text := r.String()        // "world"
//
// A Rope is not safe for concurrent mutation; callers serialize writes
// (the buffer package does this with a reader/writer lock).
package rope
