package rope

import (
	"io"
	"strings"
)

// Builder provides efficient incremental construction of a rope.
// It cuts written text into full leaves as it goes and builds a perfectly
// balanced tree when Build is called.
type Builder struct {
	opts      []Option
	chunkSize int

	leaves   []*Node
	pending  strings.Builder
	totalLen int
}

// NewBuilder creates a new rope builder. The options are applied to every
// rope it builds.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		opts:      opts,
		chunkSize: newRope(opts).chunkSize,
		leaves:    make([]*Node, 0, 64),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	b.totalLen += len(s)
	b.pending.WriteString(s)

	if b.pending.Len() >= b.chunkSize {
		b.flush(false)
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.totalLen++
	b.pending.WriteByte(c)
	if b.pending.Len() >= b.chunkSize {
		b.flush(false)
	}
	return nil
}

// flush cuts pending text into leaves. Unless all is set, a tail shorter
// than a chunk stays pending.
func (b *Builder) flush(all bool) {
	s := b.pending.String()
	b.pending.Reset()

	for len(s) >= b.chunkSize {
		b.leaves = append(b.leaves, newLeaf(s[:b.chunkSize]))
		s = s[b.chunkSize:]
	}
	if len(s) == 0 {
		return
	}
	if all {
		b.leaves = append(b.leaves, newLeaf(s))
		return
	}
	b.pending.WriteString(s)
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.leaves = make([]*Node, 0, 64)
	b.pending.Reset()
	b.totalLen = 0
}

// Build creates the rope from accumulated data.
// After calling Build, the builder is reset.
func (b *Builder) Build() *Rope {
	b.flush(true)

	r := newRope(b.opts)
	r.setRoot(buildFromLeaves(b.leaves, 0, len(b.leaves)))
	b.Reset()
	return r
}

// ReadFrom implements io.ReaderFrom for efficient reading.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := b.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromLines creates a rope from a slice of lines.
// Each line will have a newline appended except the last.
func FromLines(lines []string, opts ...Option) *Rope {
	b := NewBuilder(opts...)
	for i, line := range lines {
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.Build()
}
