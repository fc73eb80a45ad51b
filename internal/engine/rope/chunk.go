package rope

// Tree tuning defaults.
const (
	// DefaultChunkSize is the maximum number of bytes held by one leaf.
	DefaultChunkSize = 4096

	// DefaultRebalanceThreshold is the largest tolerated height difference
	// between the children of a node before a rotation is performed.
	DefaultRebalanceThreshold = 2

	// DefaultRebuildFactor triggers a full rebuild when the tree height
	// exceeds factor * log2(length).
	DefaultRebuildFactor = 4
)

// buildTree builds a balanced tree over s with leaves of at most chunkSize bytes.
// Returns nil for an empty string.
func buildTree(s string, chunkSize int) *Node {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= chunkSize {
		return newLeaf(s)
	}

	mid := len(s) / 2
	return newInternal(buildTree(s[:mid], chunkSize), buildTree(s[mid:], chunkSize))
}

// buildFromLeaves builds a perfectly balanced tree over leaves[lo:hi].
func buildFromLeaves(leaves []*Node, lo, hi int) *Node {
	switch hi - lo {
	case 0:
		return nil
	case 1:
		return leaves[lo]
	}

	mid := lo + (hi-lo)/2
	return newInternal(buildFromLeaves(leaves, lo, mid), buildFromLeaves(leaves, mid, hi))
}

// splitLines splits text after every line ending ("\r\n", "\r" or "\n").
// Each segment keeps its terminator, so joining the segments yields text.
func splitLines(text string) []string {
	var segments []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			continue
		}
		segments = append(segments, text[start:i+1])
		start = i + 1
	}

	if start < len(text) {
		segments = append(segments, text[start:])
	}
	return segments
}

// endsWithNewline reports whether a segment ends a line.
func endsWithNewline(segment string) bool {
	return len(segment) > 0 && segment[len(segment)-1] == '\n'
}
