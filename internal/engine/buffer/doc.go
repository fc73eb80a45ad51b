// Package buffer provides a thread-safe text buffer built on top of the rope
// data structure. It is the document model consumed by editing, rendering
// and cursor code.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Raw-offset operations that clamp out-of-range input
//   - Line-index operations that reject out-of-range lines
//   - Change notification after every content-changing edit
//   - Read-only snapshots for undo and concurrent readers
//
// Basic usage:
//
//	buf, _ := buffer.New("Hello, World!")
//	buf.Subscribe(func(c buffer.TextChange) {
//	    // invalidate views, record undo state...
//	})
//	buf.InsertText(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.DeleteText(0, 7)             // "Beautiful World!"
//
// Thread Safety:
//
// Read operations acquire a read lock and never block each other; mutations
// acquire the write lock. Change handlers run after the write lock has been
// released, so they may query the buffer. Callbacks passed to Iterate run
// under the read lock and must not mutate the buffer.
package buffer
