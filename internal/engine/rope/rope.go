package rope

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/textengine/internal/engine/lineindex"
)

// Rope is a mutable text sequence backed by a balanced binary tree.
// Insert and Delete replace the root; the nodes themselves are immutable.
// Use New to create a Rope; the zero value is not usable.
type Rope struct {
	root      *Node
	lineCount int

	chunkSize     int
	threshold     int
	rebuildFactor float64
	indexChunk    int
	tracer        Tracer

	index *lineindex.Index
}

// Option configures a Rope.
type Option func(*Rope)

// WithChunkSize sets the maximum bytes per leaf.
func WithChunkSize(size int) Option {
	return func(r *Rope) {
		if size > 0 {
			r.chunkSize = size
		}
	}
}

// WithRebalanceThreshold sets the tolerated height difference between siblings.
func WithRebalanceThreshold(threshold int) Option {
	return func(r *Rope) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// WithRebuildFactor sets the factor used to decide on a full rebuild.
func WithRebuildFactor(factor float64) Option {
	return func(r *Rope) {
		if factor > 0 {
			r.rebuildFactor = factor
		}
	}
}

// WithLineIndexChunk sets the number of line starts stored per index chunk.
func WithLineIndexChunk(lines int) Option {
	return func(r *Rope) {
		if lines > 0 {
			r.indexChunk = lines
		}
	}
}

// WithTracer installs a tracer for structural operations.
func WithTracer(t Tracer) Option {
	return func(r *Rope) {
		if t != nil {
			r.tracer = t
		}
	}
}

// New creates a rope holding text. An empty text yields an empty rope.
func New(text string, opts ...Option) *Rope {
	r := newRope(opts)
	r.setRoot(buildTree(text, r.chunkSize))
	return r
}

// FromReader creates a rope from everything readable from rd.
func FromReader(rd io.Reader, opts ...Option) (*Rope, error) {
	b := NewBuilder(opts...)
	if _, err := b.ReadFrom(rd); err != nil {
		return nil, fmt.Errorf("reading rope content: %w", err)
	}
	return b.Build(), nil
}

// newRope returns a rope with options applied and no content.
func newRope(opts []Option) *Rope {
	r := &Rope{
		chunkSize:     DefaultChunkSize,
		threshold:     DefaultRebalanceThreshold,
		rebuildFactor: DefaultRebuildFactor,
		indexChunk:    lineindex.DefaultChunkLines,
		tracer:        nopTracer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// setRoot installs a freshly built tree and a fresh line index.
func (r *Rope) setRoot(root *Node) {
	r.root = root
	r.lineCount = root.newlines() + 1
	r.index = lineindex.New(r, r.indexChunk)
}

// Clone returns an independent rope sharing this rope's immutable nodes.
// Later edits to either rope are not visible in the other.
func (r *Rope) Clone() *Rope {
	c := *r
	c.index = lineindex.New(&c, c.indexChunk)
	return &c
}

// SetTracer replaces the rope's tracer. A nil tracer disables tracing.
func (r *Rope) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	r.tracer = t
}

// Len returns the total length in bytes.
func (r *Rope) Len() int {
	return r.root.Len()
}

// LineCount returns the number of lines ('\n' count + 1). Always >= 1.
func (r *Rope) LineCount() int {
	return r.lineCount
}

// IsEmpty returns true if the rope holds no text.
func (r *Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Height returns the height of the tree (0 when empty).
// Useful for debugging and testing balance.
func (r *Rope) Height() int {
	return r.root.Height()
}

// LeafCount returns the number of leaves in the tree.
func (r *Rope) LeafCount() int {
	return r.root.leafCount()
}

// String returns the full text.
// Use sparingly for large ropes.
func (r *Rope) String() string {
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendTo(&sb)
	return sb.String()
}

// Text returns up to length bytes starting at start.
// A start outside [0, Len) or a non-positive length yields "";
// a length running past the end is clipped.
func (r *Rope) Text(start, length int) string {
	if start < 0 || start >= r.Len() || length <= 0 {
		return ""
	}
	end := start + min(length, r.Len()-start)

	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// At returns the byte at index i.
func (r *Rope) At(i int) (byte, error) {
	if i < 0 || i >= r.Len() {
		return 0, fmt.Errorf("byte %d of %d: %w", i, r.Len(), ErrIndexOutOfRange)
	}
	return r.root.byteAt(i), nil
}

// ReadAt copies text starting at off into p, implementing io.ReaderAt.
func (r *Rope) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("read at %d: %w", off, ErrIndexOutOfRange)
	}
	if off >= int64(r.Len()) {
		return 0, io.EOF
	}

	n := r.root.copyRange(p, int(off))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo writes the full text to w, implementing io.WriterTo.
func (r *Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Iterate calls fn for each byte in order until fn returns false.
func (r *Rope) Iterate(fn func(c byte) bool) {
	it := r.Chunks()
	for it.Next() {
		chunk := it.Chunk()
		for i := 0; i < len(chunk); i++ {
			if !fn(chunk[i]) {
				return
			}
		}
	}
}

// IndexOf returns the offset of the first c at or after start, or -1.
// A negative start searches from the beginning.
func (r *Rope) IndexOf(c byte, start int) int {
	return r.root.indexByte(c, max(start, 0))
}

// LastIndexOf returns the offset of the last c at or before start, or -1.
// A start of -1 or past the end searches from the last byte; any other
// negative start finds nothing.
func (r *Rope) LastIndexOf(c byte, start int) int {
	if start == -1 || start >= r.Len() {
		start = r.Len() - 1
	}
	return r.root.lastIndexByte(c, start)
}

// Equal returns true if both ropes hold the same text.
// Chunk boundaries may differ; only content is compared.
func (r *Rope) Equal(other *Rope) bool {
	if other == nil {
		return false
	}
	if r.Len() != other.Len() {
		return false
	}

	a, b := r.Chunks(), other.Chunks()
	var sa, sb string
	for {
		if len(sa) == 0 {
			if !a.Next() {
				return len(sb) == 0 && !b.Next()
			}
			sa = a.Chunk()
		}
		if len(sb) == 0 {
			if !b.Next() {
				return false
			}
			sb = b.Chunk()
		}

		n := min(len(sa), len(sb))
		if sa[:n] != sb[:n] {
			return false
		}
		sa, sb = sa[n:], sb[n:]
	}
}

// Insert inserts text at index. An index outside [0, Len] is clamped;
// an empty text is a no-op. The text is inserted one line segment at a time
// so the cached line count only moves by the number of '\n' inserted.
func (r *Rope) Insert(index int, text string) {
	if len(text) == 0 {
		return
	}
	index = min(max(index, 0), r.Len())

	pos := index
	for _, segment := range splitLines(text) {
		r.root = r.insert(r.root, pos, segment)
		pos += len(segment)
		if endsWithNewline(segment) {
			r.lineCount++
		}
	}

	r.index.Invalidate(index)
	r.maybeRebuild()
	r.tracer.OnInsert(index, len(text))
}

// Delete removes up to length bytes starting at start. The window is
// clipped to the rope; a non-positive length is a no-op.
func (r *Rope) Delete(start, length int) {
	if length <= 0 {
		return
	}
	if start < 0 {
		if length+start <= 0 {
			return
		}
		length += start
		start = 0
	}
	n := r.Len()
	if start >= n {
		return
	}
	end := n
	if length < n-start {
		end = start + length
	}

	r.lineCount -= r.root.countNewlines(start, end)
	r.root = r.delete(r.root, start, end)

	r.index.Invalidate(start)
	r.maybeRebuild()
	r.tracer.OnDelete(start, end-start)
}

// insert returns a new subtree with s inserted at i.
func (r *Rope) insert(n *Node, i int, s string) *Node {
	if n == nil {
		return buildTree(s, r.chunkSize)
	}

	if n.IsLeaf() {
		if n.length+len(s) <= r.chunkSize {
			return newLeaf(n.chunk[:i] + s + n.chunk[i:])
		}
		return r.join(r.join(r.leaf(n.chunk[:i]), buildTree(s, r.chunkSize)), r.leaf(n.chunk[i:]))
	}

	if i <= n.left.length {
		return r.balance(newInternal(r.insert(n.left, i, s), n.right))
	}
	return r.balance(newInternal(n.left, r.insert(n.right, i-n.left.length, s)))
}

// delete returns a new subtree without [start, end), or nil if nothing is left.
func (r *Rope) delete(n *Node, start, end int) *Node {
	if n == nil {
		return nil
	}
	if start <= 0 && end >= n.length {
		return nil
	}

	if n.IsLeaf() {
		return r.leaf(n.chunk[:start] + n.chunk[end:])
	}

	leftLen := n.left.length
	left, right := n.left, n.right
	if start < leftLen {
		left = r.delete(n.left, start, min(end, leftLen))
	}
	if end > leftLen {
		right = r.delete(n.right, max(start-leftLen, 0), end-leftLen)
	}
	return r.join(left, right)
}

// leaf returns a leaf for s, or nil when s is empty.
func (r *Rope) leaf(s string) *Node {
	if len(s) == 0 {
		return nil
	}
	return newLeaf(s)
}

// join concatenates two possibly-nil subtrees. A node with a single
// surviving child collapses to that child, and adjacent leaves that fit
// in one chunk are merged.
func (r *Rope) join(left, right *Node) *Node {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}

	if left.IsLeaf() && right.IsLeaf() && left.length+right.length <= r.chunkSize {
		return newLeaf(left.chunk + right.chunk)
	}
	return r.balance(newInternal(left, right))
}
