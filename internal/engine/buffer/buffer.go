package buffer

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/textengine/internal/engine/lru"
	"github.com/dshills/textengine/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrNilRope   = errors.New("nil rope")
	ErrNilLogger = errors.New("nil logger")

	ErrIndexOutOfRange = rope.ErrIndexOutOfRange
	ErrLineOutOfRange  = rope.ErrLineOutOfRange
)

// lineKey identifies a memoised line text. Keys from older revisions are
// never looked up again and age out of the cache.
type lineKey struct {
	revision RevisionID
	line     int
}

// Buffer wraps a Rope with locking, change notification and a line cache.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       *rope.Rope
	revisionID RevisionID

	cacheMu   sync.Mutex
	lineCache *lru.Cache[lineKey, string]

	subsMu sync.RWMutex
	subs   []subscriber

	logger    *zap.Logger
	cacheSize int
	ropeOpts  []rope.Option
	initErr   error
}

// New creates a buffer holding text.
func New(text string, opts ...Option) (*Buffer, error) {
	b, err := newBuffer(opts)
	if err != nil {
		return nil, err
	}
	b.rope = rope.New(text, b.ropeOptions()...)
	return b, nil
}

// NewFromRope creates a buffer that takes ownership of r.
// The caller must not edit r afterwards.
func NewFromRope(r *rope.Rope, opts ...Option) (*Buffer, error) {
	if r == nil {
		return nil, ErrNilRope
	}
	b, err := newBuffer(opts)
	if err != nil {
		return nil, err
	}
	r.SetTracer(newZapTracer(b.logger))
	b.rope = r
	return b, nil
}

// NewFromReader creates a buffer from everything readable from rd.
func NewFromReader(rd io.Reader, opts ...Option) (*Buffer, error) {
	b, err := newBuffer(opts)
	if err != nil {
		return nil, err
	}
	r, err := rope.FromReader(rd, b.ropeOptions()...)
	if err != nil {
		return nil, err
	}
	b.rope = r
	return b, nil
}

func newBuffer(opts []Option) (*Buffer, error) {
	b := &Buffer{
		revisionID: NewRevisionID(),
		logger:     zap.NewNop(),
		cacheSize:  DefaultLineCacheSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.initErr != nil {
		return nil, b.initErr
	}

	cache, err := lru.New[lineKey, string](b.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("line cache: %w", err)
	}
	b.lineCache = cache
	return b, nil
}

func (b *Buffer) ropeOptions() []rope.Option {
	opts := append([]rope.Option(nil), b.ropeOpts...)
	return append(opts, rope.WithTracer(newZapTracer(b.logger)))
}

// InsertText inserts text at pos. pos is clamped to [0, Length];
// an empty text changes nothing and notifies no one.
func (b *Buffer) InsertText(pos int, text string) {
	if text == "" {
		return
	}

	b.mu.Lock()
	pos = min(max(pos, 0), b.rope.Len())
	b.rope.Insert(pos, text)
	b.revisionID = NewRevisionID()
	change := TextChange{Position: pos, Inserted: text, Revision: b.revisionID}
	b.mu.Unlock()

	b.notify(change)
}

// DeleteText removes up to length bytes starting at start. The window is
// clipped to the buffer; an empty window changes nothing and notifies no one.
func (b *Buffer) DeleteText(start, length int) {
	b.mu.Lock()
	start, end := b.clip(start, length)
	if start >= end {
		b.mu.Unlock()
		return
	}

	deleted := b.rope.Text(start, end-start)
	b.rope.Delete(start, end-start)
	b.revisionID = NewRevisionID()
	change := TextChange{
		Position:      start,
		DeletedLength: end - start,
		Deleted:       deleted,
		Revision:      b.revisionID,
	}
	b.mu.Unlock()

	b.notify(change)
}

// Replace deletes up to length bytes at start and inserts text there,
// as a single revision with a single notification.
func (b *Buffer) Replace(start, length int, text string) {
	b.mu.Lock()
	start, end := b.clip(start, length)
	if start == end && text == "" {
		b.mu.Unlock()
		return
	}

	deleted := b.rope.Text(start, end-start)
	b.rope.Delete(start, end-start)
	b.rope.Insert(start, text)
	b.revisionID = NewRevisionID()
	change := TextChange{
		Position:      start,
		Inserted:      text,
		DeletedLength: end - start,
		Deleted:       deleted,
		Revision:      b.revisionID,
	}
	b.mu.Unlock()

	b.notify(change)
}

// Restore replaces the buffer content with a snapshot's content.
func (b *Buffer) Restore(s *Snapshot) {
	if s == nil {
		return
	}

	b.mu.Lock()
	old := b.rope.String()
	r := s.rope.Clone()
	r.SetTracer(newZapTracer(b.logger))
	b.rope = r
	b.revisionID = NewRevisionID()
	change := TextChange{
		Inserted:      r.String(),
		DeletedLength: len(old),
		Deleted:       old,
		Revision:      b.revisionID,
	}
	b.mu.Unlock()

	b.logger.Debug("restored snapshot", zap.Uint64("snapshot", uint64(s.revisionID)))
	b.notify(change)
}

// clip intersects the window [start, start+length) with the buffer.
// The returned start is always a valid insertion point.
// Must be called with the lock held.
func (b *Buffer) clip(start, length int) (int, int) {
	n := b.rope.Len()
	length = max(length, 0)
	if start < 0 {
		length = max(length+start, 0)
		start = 0
	}
	start = min(start, n)
	return start, start + min(length, n-start)
}

// Length returns the total byte length.
func (b *Buffer) Length() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// LineCount returns the number of lines. Always >= 1.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// At returns the byte at offset i.
func (b *Buffer) At(i int) (byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.At(i)
}

// GetText returns up to length bytes starting at start.
// An out-of-range start yields "".
func (b *Buffer) GetText(start, length int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Text(start, length)
}

// Text returns the full content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// ReadAt implements io.ReaderAt.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.ReadAt(p, off)
}

// WriteTo implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.WriteTo(w)
}

// Iterate calls fn for each byte in order until fn returns false.
// fn runs under the read lock and must not modify the buffer.
func (b *Buffer) Iterate(fn func(c byte) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.rope.Iterate(fn)
}

// IndexOf returns the offset of the first c at or after start, or -1.
func (b *Buffer) IndexOf(c byte, start int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IndexOf(c, start)
}

// LastIndexOf returns the offset of the last c at or before start, or -1.
// A start of -1 searches from the end.
func (b *Buffer) LastIndexOf(c byte, start int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LastIndexOf(c, start)
}

// GetLineStarts returns the start offset of every line.
func (b *Buffer) GetLineStarts() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStarts()
}

// LineStart returns the offset of the first byte of line.
func (b *Buffer) LineStart(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStart(line)
}

// LineEnd returns the offset just past the last byte of line, excluding '\n'.
func (b *Buffer) LineEnd(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineEnd(line)
}

// LineLength returns the length of line in bytes, excluding '\n'.
func (b *Buffer) LineLength(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLength(line)
}

// LineText returns the text of line without its '\n'.
// Results are memoised per revision.
func (b *Buffer) LineText(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key := lineKey{revision: b.revisionID, line: line}
	b.cacheMu.Lock()
	text, ok := b.lineCache.Get(key)
	b.cacheMu.Unlock()
	if ok {
		return text, nil
	}

	text, err := b.rope.LineText(line)
	if err != nil {
		return "", err
	}

	b.cacheMu.Lock()
	b.lineCache.Add(key, text)
	b.cacheMu.Unlock()
	return text, nil
}

// LineIndexFromPosition returns the line containing offset pos.
func (b *Buffer) LineIndexFromPosition(pos int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineIndexFromPosition(pos)
}

// OffsetToPosition converts a byte offset to line/column.
func (b *Buffer) OffsetToPosition(offset int) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.OffsetToPosition(offset)
}

// PositionToOffset converts line/column to a byte offset.
func (b *Buffer) PositionToOffset(p Position) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PositionToOffset(p)
}

// Snapshot returns a read-only view of the current content.
// Taking a snapshot is O(1).
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		rope:       b.rope.Clone(),
		revisionID: b.revisionID,
	}
}

// CacheStats returns statistics for the line text cache.
func (b *Buffer) CacheStats() lru.Stats {
	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	return b.lineCache.Stats()
}
