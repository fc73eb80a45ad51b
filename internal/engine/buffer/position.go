package buffer

import (
	"sync/atomic"

	"github.com/dshills/textengine/internal/engine/rope"
)

// Position is a 0-indexed line/column location; Column counts bytes.
type Position = rope.Position

// RevisionID uniquely identifies a buffer revision.
// Each content-changing edit creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
