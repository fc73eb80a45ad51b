package rope

// ChunkIterator iterates over the leaf chunks of a rope in order.
type ChunkIterator struct {
	stack  []*Node
	chunk  string
	offset int
	next   int
}

// Chunks returns an iterator over all chunks in the rope.
// The iterator reads the tree as of this call; later edits do not affect it.
func (r *Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]*Node, 0, 16)}
	if r.root != nil {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next advances to the next chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		// Descend to the leftmost leaf, deferring right subtrees
		for !n.IsLeaf() {
			it.stack = append(it.stack, n.right)
			n = n.left
		}
		if n.length == 0 {
			continue
		}

		it.chunk = n.chunk
		it.offset = it.next
		it.next += n.length
		return true
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() string {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() int {
	return it.offset
}

// LineIterator iterates over lines in a rope.
type LineIterator struct {
	rope *Rope
	line int
	text string
}

// Lines returns an iterator over all lines (without their '\n').
// An empty rope yields a single empty line.
func (r *Rope) Lines() *LineIterator {
	return &LineIterator{rope: r, line: -1}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.line+1 >= it.rope.LineCount() {
		return false
	}
	it.line++

	text, err := it.rope.LineText(it.line)
	if err != nil {
		return false
	}
	it.text = text
	return true
}

// Text returns the text of the current line.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the current line number (0-indexed).
func (it *LineIterator) Line() int {
	return it.line
}
