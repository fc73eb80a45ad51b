package rope

import "strings"

// Node is a node in the rope's binary tree.
// A leaf (left == nil && right == nil) holds a chunk of text.
// An internal node always has two children and only aggregates them.
// Nodes are never modified after construction, so subtrees may be shared
// between ropes.
type Node struct {
	left, right *Node

	chunk string // leaf only

	length int // bytes in subtree
	lines  int // '\n' count in subtree
	height int // 1 for leaves
}

// newLeaf creates a leaf node holding s.
func newLeaf(s string) *Node {
	return &Node{
		chunk:  s,
		length: len(s),
		lines:  strings.Count(s, "\n"),
		height: 1,
	}
}

// newInternal creates an internal node over two non-nil children.
func newInternal(left, right *Node) *Node {
	return &Node{
		left:   left,
		right:  right,
		length: left.length + right.length,
		lines:  left.lines + right.lines,
		height: 1 + max(left.height, right.height),
	}
}

// IsLeaf returns true if this node holds text.
func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// Len returns the byte length of the subtree.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return n.length
}

// Height returns the height of the subtree (leaves have height 1).
func (n *Node) Height() int {
	if n == nil {
		return 0
	}
	return n.height
}

// newlines returns the number of '\n' bytes in the subtree.
func (n *Node) newlines() int {
	if n == nil {
		return 0
	}
	return n.lines
}

// skew returns height(left) - height(right).
func (n *Node) skew() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return n.left.height - n.right.height
}

// byteAt returns the byte at offset i, which must be in range.
func (n *Node) byteAt(i int) byte {
	for !n.IsLeaf() {
		if i < n.left.length {
			n = n.left
		} else {
			i -= n.left.length
			n = n.right
		}
	}
	return n.chunk[i]
}

// appendTo appends all text in the subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		sb.WriteString(n.chunk)
		return
	}
	n.left.appendTo(sb)
	n.right.appendTo(sb)
}

// appendRange appends text in [start, end) to the builder.
// The range must already be clipped to the subtree.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if n == nil || start >= end {
		return
	}
	if n.IsLeaf() {
		sb.WriteString(n.chunk[start:end])
		return
	}

	leftLen := n.left.length
	if start < leftLen {
		n.left.appendRange(sb, start, min(end, leftLen))
	}
	if end > leftLen {
		n.right.appendRange(sb, max(start-leftLen, 0), end-leftLen)
	}
}

// copyRange copies bytes starting at off into dst and returns the count.
func (n *Node) copyRange(dst []byte, off int) int {
	if n == nil || len(dst) == 0 || off >= n.length {
		return 0
	}
	if n.IsLeaf() {
		return copy(dst, n.chunk[off:])
	}

	copied := 0
	leftLen := n.left.length
	if off < leftLen {
		copied = n.left.copyRange(dst, off)
		off = leftLen
	}
	return copied + n.right.copyRange(dst[copied:], off-leftLen)
}

// indexByte returns the offset of the first c at or after from, or -1.
// Subtrees ending before from are skipped, and subtrees with no newlines
// are skipped when searching for '\n'.
func (n *Node) indexByte(c byte, from int) int {
	if n == nil || from >= n.length {
		return -1
	}
	if c == '\n' && n.lines == 0 {
		return -1
	}
	if n.IsLeaf() {
		if i := strings.IndexByte(n.chunk[from:], c); i >= 0 {
			return from + i
		}
		return -1
	}

	leftLen := n.left.length
	if from < leftLen {
		if i := n.left.indexByte(c, from); i >= 0 {
			return i
		}
		from = leftLen
	}
	if i := n.right.indexByte(c, from-leftLen); i >= 0 {
		return leftLen + i
	}
	return -1
}

// lastIndexByte returns the offset of the last c at or before from, or -1.
// Subtrees starting after from are skipped, and subtrees with no newlines
// are skipped when searching for '\n'.
func (n *Node) lastIndexByte(c byte, from int) int {
	if n == nil || from < 0 {
		return -1
	}
	if c == '\n' && n.lines == 0 {
		return -1
	}
	if n.IsLeaf() {
		return strings.LastIndexByte(n.chunk[:min(from+1, n.length)], c)
	}

	leftLen := n.left.length
	if from >= leftLen {
		if i := n.right.lastIndexByte(c, from-leftLen); i >= 0 {
			return leftLen + i
		}
		from = leftLen - 1
	}
	return n.left.lastIndexByte(c, from)
}

// countNewlines counts '\n' bytes in [start, end) of the subtree.
func (n *Node) countNewlines(start, end int) int {
	if n == nil || start >= end || n.lines == 0 {
		return 0
	}
	if start <= 0 && end >= n.length {
		return n.lines
	}
	if n.IsLeaf() {
		return strings.Count(n.chunk[max(start, 0):min(end, n.length)], "\n")
	}

	leftLen := n.left.length
	count := 0
	if start < leftLen {
		count += n.left.countNewlines(start, min(end, leftLen))
	}
	if end > leftLen {
		count += n.right.countNewlines(max(start-leftLen, 0), end-leftLen)
	}
	return count
}

// collectLeaves appends the subtree's leaves in order.
func (n *Node) collectLeaves(leaves []*Node) []*Node {
	if n == nil {
		return leaves
	}
	if n.IsLeaf() {
		if n.length > 0 {
			leaves = append(leaves, n)
		}
		return leaves
	}
	leaves = n.left.collectLeaves(leaves)
	return n.right.collectLeaves(leaves)
}

// leafCount returns the number of leaves in the subtree.
func (n *Node) leafCount() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return n.left.leafCount() + n.right.leafCount()
}
