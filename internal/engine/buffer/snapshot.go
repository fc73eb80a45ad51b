package buffer

import (
	"io"

	"github.com/dshills/textengine/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	rope       *rope.Rope
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// GetText returns up to length bytes starting at start.
func (s *Snapshot) GetText(start, length int) string {
	return s.rope.Text(start, length)
}

// Length returns the total byte length of the snapshot.
func (s *Snapshot) Length() int {
	return s.rope.Len()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.rope.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line int) (string, error) {
	return s.rope.LineText(line)
}

// At returns the byte at the given offset.
func (s *Snapshot) At(offset int) (byte, error) {
	return s.rope.At(offset)
}

// OffsetToPosition converts a byte offset to line/column.
func (s *Snapshot) OffsetToPosition(offset int) Position {
	return s.rope.OffsetToPosition(offset)
}

// PositionToOffset converts line/column to a byte offset.
func (s *Snapshot) PositionToOffset(p Position) int {
	return s.rope.PositionToOffset(p)
}

// WriteTo writes the snapshot content to w.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	return s.rope.WriteTo(w)
}

// RevisionID returns the revision ID at the time of the snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
