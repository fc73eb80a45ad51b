package lineindex

import (
	"slices"
	"sort"
	"sync"
)

// DefaultChunkLines is the number of line starts stored per chunk.
const DefaultChunkLines = 1000

// Source is the text an Index is built over.
type Source interface {
	// Len returns the length of the text.
	Len() int

	// IndexOf returns the offset of the first c at or after from, or -1.
	IndexOf(c byte, from int) int
}

// Stats reports how often the index was rebuilt.
type Stats struct {
	FullRebuilds        int
	IncrementalRebuilds int
	Lines               int
	Chunks              int
}

// Index is a lazily rebuilt, chunked array of line start offsets.
// It is safe for concurrent queries as long as the Source is not mutated
// concurrently with them.
type Index struct {
	mu sync.Mutex

	src        Source
	chunkLines int
	chunks     [][]int
	count      int

	dirty     bool
	dirtyFrom int

	full, incremental int
}

// New creates an index over src. The index starts dirty and is built on
// the first query.
func New(src Source, chunkLines int) *Index {
	if chunkLines <= 0 {
		chunkLines = DefaultChunkLines
	}
	return &Index{
		src:        src,
		chunkLines: chunkLines,
		dirty:      true,
	}
}

// Invalidate marks the index stale from offset from onwards.
// Starts at or before the lowest invalidated offset survive the next rebuild.
func (x *Index) Invalidate(from int) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.dirty || from < x.dirtyFrom {
		x.dirtyFrom = max(from, 0)
	}
	x.dirty = true
}

// Dirty returns true if the next query will rebuild the index.
func (x *Index) Dirty() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.dirty
}

// Count returns the number of lines.
func (x *Index) Count() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ensure()
	return x.count
}

// Start returns the start offset of line.
// Returns false if line is outside [0, Count).
func (x *Index) Start(line int) (int, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ensure()
	return x.at(line)
}

// LineOf returns the line containing pos: the greatest line whose start is
// at or before pos. Negative positions map to line 0.
func (x *Index) LineOf(pos int) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ensure()
	return x.lineOf(pos)
}

// Starts returns a copy of all line starts in order.
func (x *Index) Starts() []int {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.ensure()

	starts := make([]int, 0, x.count)
	for _, chunk := range x.chunks {
		starts = append(starts, chunk...)
	}
	return starts
}

// Stats returns rebuild statistics.
func (x *Index) Stats() Stats {
	x.mu.Lock()
	defer x.mu.Unlock()
	return Stats{
		FullRebuilds:        x.full,
		IncrementalRebuilds: x.incremental,
		Lines:               x.count,
		Chunks:              len(x.chunks),
	}
}

// lineOf searches chunk boundaries first, then inside one chunk.
// Caller must hold x.mu and the index must be clean.
func (x *Index) lineOf(pos int) int {
	if pos <= 0 || x.count == 0 {
		return 0
	}

	// First chunk whose last start is >= pos; pos past every start lands
	// in the last chunk.
	c := sort.Search(len(x.chunks), func(i int) bool {
		chunk := x.chunks[i]
		return chunk[len(chunk)-1] >= pos
	})
	if c == len(x.chunks) {
		c--
	}

	i, found := slices.BinarySearch(x.chunks[c], pos)
	if !found {
		i--
	}
	return c*x.chunkLines + i
}

// ensure rebuilds the index if it is dirty. Caller must hold x.mu.
func (x *Index) ensure() {
	if !x.dirty {
		return
	}

	if x.count == 0 || x.dirtyFrom == 0 {
		x.rebuildFull()
	} else {
		x.rebuildFrom(x.dirtyFrom)
	}
	x.dirty = false
	x.dirtyFrom = 0
}

// rebuildFull scans the whole source.
func (x *Index) rebuildFull() {
	x.chunks = x.chunks[:0]
	x.count = 0
	x.append(0)
	x.scan(0)
	x.full++
}

// rebuildFrom keeps every start at or before from and rescans the rest.
func (x *Index) rebuildFrom(from int) {
	keep := x.lineOf(from)
	x.truncate(keep + 1)

	last, _ := x.at(keep)
	x.scan(last)
	x.incremental++
}

// scan appends the start of every line following the one starting at pos.
func (x *Index) scan(pos int) {
	for {
		nl := x.src.IndexOf('\n', pos)
		if nl < 0 {
			return
		}
		pos = nl + 1
		x.append(pos)
	}
}

// append adds a line start, opening a new chunk when the last one is full.
func (x *Index) append(start int) {
	if n := len(x.chunks); n == 0 || len(x.chunks[n-1]) == x.chunkLines {
		x.chunks = append(x.chunks, make([]int, 0, x.chunkLines))
	}
	last := len(x.chunks) - 1
	x.chunks[last] = append(x.chunks[last], start)
	x.count++
}

// truncate keeps the first n starts.
func (x *Index) truncate(n int) {
	if n >= x.count {
		return
	}
	c := (n + x.chunkLines - 1) / x.chunkLines
	x.chunks = x.chunks[:c]
	if c > 0 {
		x.chunks[c-1] = x.chunks[c-1][:n-(c-1)*x.chunkLines]
	}
	x.count = n
}

// at returns the start of line without rebuilding.
func (x *Index) at(line int) (int, bool) {
	if line < 0 || line >= x.count {
		return 0, false
	}
	return x.chunks[line/x.chunkLines][line%x.chunkLines], true
}
