package rope

import "math"

// balance performs a local rotation at n when the heights of its children
// differ by more than the rebalance threshold. Zig-zag shapes are
// straightened with a rotation of the heavy child first.
func (r *Rope) balance(n *Node) *Node {
	if n == nil || n.IsLeaf() {
		return n
	}

	skew := n.skew()
	switch {
	case skew > r.threshold:
		left := n.left
		if left.skew() < 0 {
			left = r.rotateLeft(left)
		}
		return r.rotateRight(newInternal(left, n.right))

	case skew < -r.threshold:
		right := n.right
		if right.skew() > 0 {
			right = r.rotateRight(right)
		}
		return r.rotateLeft(newInternal(n.left, right))
	}
	return n
}

// rotateLeft promotes n.right. n.right must be an internal node.
func (r *Rope) rotateLeft(n *Node) *Node {
	pivot := n.right
	demoted := r.balance(newInternal(n.left, pivot.left))
	out := newInternal(demoted, pivot.right)
	r.tracer.OnRotate(RotateLeft, out.height)
	return out
}

// rotateRight promotes n.left. n.left must be an internal node.
func (r *Rope) rotateRight(n *Node) *Node {
	pivot := n.left
	demoted := r.balance(newInternal(pivot.right, n.right))
	out := newInternal(pivot.left, demoted)
	r.tracer.OnRotate(RotateRight, out.height)
	return out
}

// needsRebuild reports whether the tree is too tall for its length.
func (r *Rope) needsRebuild() bool {
	if r.root == nil || r.root.IsLeaf() || r.root.length < 2 {
		return false
	}
	limit := r.rebuildFactor * math.Log2(float64(r.root.length))
	return float64(r.root.height) > limit
}

// maybeRebuild runs a full rebuild when local rotations could not keep
// the tree shallow enough.
func (r *Rope) maybeRebuild() {
	if r.needsRebuild() {
		r.Rebuild()
	}
}

// Rebuild flattens the leaves in order, merges neighbours that fit in a
// single chunk and builds a perfectly balanced tree over them.
func (r *Rope) Rebuild() {
	if r.root == nil {
		return
	}
	oldHeight := r.root.height

	leaves := r.root.collectLeaves(make([]*Node, 0, 64))
	merged := leaves[:0]
	for _, leaf := range leaves {
		if last := len(merged) - 1; last >= 0 && merged[last].length+leaf.length <= r.chunkSize {
			merged[last] = newLeaf(merged[last].chunk + leaf.chunk)
			continue
		}
		merged = append(merged, leaf)
	}

	r.root = buildFromLeaves(merged, 0, len(merged))
	r.tracer.OnRebuild(oldHeight, r.root.Height(), len(merged))
}
