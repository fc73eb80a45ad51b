package rope

import (
	"errors"
	"io"
	"math"
	"math/bits"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
)

// checkTree verifies the cached aggregates and the height bound.
func checkTree(t *testing.T, r *Rope) {
	t.Helper()

	var walk func(n *Node) (length, lines, height int)
	walk = func(n *Node) (int, int, int) {
		if n.IsLeaf() {
			if n.length == 0 || n.length > r.chunkSize {
				t.Fatalf("leaf of %d bytes (chunk size %d)", n.length, r.chunkSize)
			}
			if n.length != len(n.chunk) || n.lines != strings.Count(n.chunk, "\n") || n.height != 1 {
				t.Fatalf("bad leaf aggregates %+v", n)
			}
			return n.length, n.lines, 1
		}
		if n.left == nil || n.right == nil {
			t.Fatal("internal node with a nil child")
		}
		ll, lln, lh := walk(n.left)
		rl, rln, rh := walk(n.right)
		if n.length != ll+rl || n.lines != lln+rln || n.height != 1+max(lh, rh) {
			t.Fatalf("bad internal aggregates: len=%d lines=%d height=%d", n.length, n.lines, n.height)
		}
		return n.length, n.lines, n.height
	}

	if r.root == nil {
		if r.lineCount != 1 {
			t.Fatalf("empty rope with line count %d", r.lineCount)
		}
		return
	}
	_, lines, _ := walk(r.root)
	if r.lineCount != lines+1 {
		t.Fatalf("line count %d, tree has %d newlines", r.lineCount, lines)
	}
	if n := r.Len(); n >= 2 && !r.root.IsLeaf() {
		if limit := r.rebuildFactor * math.Log2(float64(n)); float64(r.Height()) > limit {
			t.Fatalf("height %d exceeds %f for length %d", r.Height(), limit, n)
		}
	}
}

func TestNew(t *testing.T) {
	r := New("")
	if r.Len() != 0 {
		t.Errorf("New rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("New rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("New rope String() should be empty, got %q", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("New rope should have 1 line, got %d", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"multiple newlines", "a\nb\nc\nd"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != len(tt.input) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
			checkTree(t, r)
		})
	}
}

func TestScenarios(t *testing.T) {
	t.Run("construct", func(t *testing.T) {
		r := New("Hello, World!")
		if r.Len() != 13 || r.LineCount() != 1 || r.String() != "Hello, World!" {
			t.Errorf("got len=%d lines=%d text=%q", r.Len(), r.LineCount(), r.String())
		}
	})

	t.Run("insert", func(t *testing.T) {
		r := New("Hello, World!")
		r.Insert(7, "Beautiful ")
		if r.String() != "Hello, Beautiful World!" {
			t.Errorf("got %q", r.String())
		}
	})

	t.Run("delete all", func(t *testing.T) {
		r := New("Hello, World!")
		r.Delete(0, 13)
		if r.Len() != 0 || r.String() != "" {
			t.Errorf("got len=%d text=%q", r.Len(), r.String())
		}
	})

	t.Run("lines", func(t *testing.T) {
		r := New("Hello\nWorld\nHow\nAre\nYou")
		if r.LineCount() != 5 {
			t.Errorf("expected 5 lines, got %d", r.LineCount())
		}
		if text, err := r.LineText(4); err != nil || text != "You" {
			t.Errorf("LineText(4) = %q, %v", text, err)
		}
		if got := r.LineIndexFromPosition(20); got != 4 {
			t.Errorf("LineIndexFromPosition(20) = %d", got)
		}
	})

	t.Run("index of", func(t *testing.T) {
		r := New("Hello\nWorld")
		if got := r.IndexOf('o', 5); got != 7 {
			t.Errorf("IndexOf('o', 5) = %d", got)
		}
		if got := r.IndexOf('z', 0); got != -1 {
			t.Errorf("IndexOf('z', 0) = %d", got)
		}
	})

	t.Run("large skewed edits", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 30000; i++ {
			sb.WriteByte(byte('a' + i%26))
		}
		model := sb.String()
		r := New(model, WithChunkSize(256))

		mid := strings.Repeat("MIDDLE\n", 500)
		r.Insert(15000, mid)
		model = model[:15000] + mid + model[15000:]

		r.Delete(2000, 12000)
		model = model[:2000] + model[14000:]
		r.Delete(9000, 5000)
		model = model[:9000] + model[14000:]

		if r.Len() != len(model) {
			t.Fatalf("length %d, want %d", r.Len(), len(model))
		}
		for _, i := range []int{0, 1999, 2000, 5000, 8999, 9000, len(model) - 1} {
			c, err := r.At(i)
			if err != nil || c != model[i] {
				t.Errorf("At(%d) = %q, %v; want %q", i, c, err, model[i])
			}
		}
		if r.String() != model {
			t.Error("content does not match model")
		}
		checkTree(t, r)
	})
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		index    int
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty string", "hello", 3, "", "hello"},
		{"past end clamps", "hello", 99, "!", "hello!"},
		{"negative clamps", "hello", -3, "!", "!hello"},
		{"multi line", "ab", 1, "1\n2\r\n3\r4", "a1\n2\r\n3\r4b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{2, DefaultChunkSize} {
				r := New(tt.initial, WithChunkSize(size))
				r.Insert(tt.index, tt.text)
				if got := r.String(); got != tt.expected {
					t.Errorf("chunk %d: got %q, want %q", size, got, tt.expected)
				}
				checkTree(t, r)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name          string
		initial       string
		start, length int
		expected      string
	}{
		{"delete from start", "hello world", 0, 6, "world"},
		{"delete from end", "hello world", 5, 6, "hello"},
		{"delete from middle", "hello world", 5, 1, "helloworld"},
		{"delete all", "hello", 0, 5, ""},
		{"delete nothing", "hello", 2, 0, "hello"},
		{"negative length", "hello", 2, -1, "hello"},
		{"past end clips", "hello", 3, 100, "hel"},
		{"start past end", "hello", 9, 2, "hello"},
		{"negative start clips", "hello", -2, 3, "ello"},
		{"min int start", "hello", math.MinInt, 1, "hello"},
		{"min int start long window", "hello", math.MinInt + 2, math.MaxInt, "ello"},
		{"max int length", "hello", 1, math.MaxInt, "h"},
		{"newlines", "a\nb\nc", 1, 2, "a\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{2, DefaultChunkSize} {
				r := New(tt.initial, WithChunkSize(size))
				r.Delete(tt.start, tt.length)
				if got := r.String(); got != tt.expected {
					t.Errorf("chunk %d: got %q, want %q", size, got, tt.expected)
				}
				if got := r.LineCount(); got != strings.Count(tt.expected, "\n")+1 {
					t.Errorf("chunk %d: line count %d", size, got)
				}
				checkTree(t, r)
			}
		})
	}
}

func TestText(t *testing.T) {
	r := New("hello world", WithChunkSize(3))

	tests := []struct {
		start, length int
		expected      string
	}{
		{0, 5, "hello"},
		{6, 5, "world"},
		{6, 100, "world"},
		{4, 3, "o w"},
		{-1, 3, ""},
		{11, 1, ""},
		{3, 0, ""},
	}

	for _, tt := range tests {
		if got := r.Text(tt.start, tt.length); got != tt.expected {
			t.Errorf("Text(%d, %d) = %q, want %q", tt.start, tt.length, got, tt.expected)
		}
	}
}

func TestAt(t *testing.T) {
	r := New("abc\ndef", WithChunkSize(2))

	for i := 0; i < r.Len(); i++ {
		c, err := r.At(i)
		if err != nil || c != "abc\ndef"[i] {
			t.Errorf("At(%d) = %q, %v", i, c, err)
		}
	}

	for _, i := range []int{-1, 7, 100} {
		if _, err := r.At(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("At(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestReadAtWriteTo(t *testing.T) {
	r := New("hello world", WithChunkSize(4))

	p := make([]byte, 5)
	n, err := r.ReadAt(p, 3)
	if err != nil || n != 5 || string(p) != "lo wo" {
		t.Errorf("ReadAt = %d, %v, %q", n, err, p)
	}

	n, err = r.ReadAt(p, 8)
	if err != io.EOF || n != 3 || string(p[:n]) != "rld" {
		t.Errorf("short ReadAt = %d, %v, %q", n, err, p[:n])
	}

	if _, err := r.ReadAt(p, 11); err != io.EOF {
		t.Errorf("ReadAt at end should be EOF, got %v", err)
	}

	var sb strings.Builder
	written, err := r.WriteTo(&sb)
	if err != nil || written != 11 || sb.String() != "hello world" {
		t.Errorf("WriteTo = %d, %v, %q", written, err, sb.String())
	}
}

func TestIterate(t *testing.T) {
	r := New("abcdef", WithChunkSize(2))

	var sb strings.Builder
	r.Iterate(func(c byte) bool {
		sb.WriteByte(c)
		return c != 'd'
	})
	if sb.String() != "abcd" {
		t.Errorf("expected iteration to stop at d, got %q", sb.String())
	}
}

func TestIndexOf(t *testing.T) {
	r := New("one\ntwo\nthree", WithChunkSize(3))

	tests := []struct {
		c     byte
		start int
		want  int
	}{
		{'\n', 0, 3},
		{'\n', 4, 7},
		{'\n', 8, -1},
		{'t', -10, 4},
		{'e', 9, 11},
		{'e', 100, -1},
	}

	for _, tt := range tests {
		if got := r.IndexOf(tt.c, tt.start); got != tt.want {
			t.Errorf("IndexOf(%q, %d) = %d, want %d", tt.c, tt.start, got, tt.want)
		}
	}
}

func TestLastIndexOf(t *testing.T) {
	r := New("one\ntwo\nthree", WithChunkSize(3))

	tests := []struct {
		c     byte
		start int
		want  int
	}{
		{'\n', -1, 7},
		{'\n', 6, 3},
		{'\n', 7, 7},
		{'\n', 2, -1},
		{'o', -1, 6},
		{'o', 5, 0},
		{'e', 100, 12},
		{'t', -2, -1},
		{'z', -1, -1},
	}

	for _, tt := range tests {
		if got := r.LastIndexOf(tt.c, tt.start); got != tt.want {
			t.Errorf("LastIndexOf(%q, %d) = %d, want %d", tt.c, tt.start, got, tt.want)
		}
	}

	if got := New("").LastIndexOf('a', -1); got != -1 {
		t.Errorf("empty rope: got %d, want -1", got)
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 1},
		{"hello", 1},
		{"hello\n", 2},
		{"hello\nworld", 2},
		{"a\nb\nc\n", 4},
		{"\n\n\n", 4},
		{"a\r\nb", 2},
		{"a\rb", 1},
	}

	for _, tt := range tests {
		r := New(tt.input)
		if r.LineCount() != tt.expected {
			t.Errorf("LineCount(%q) = %d, want %d", tt.input, r.LineCount(), tt.expected)
		}
	}
}

func TestLineAccessors(t *testing.T) {
	r := New("ab\r\ncd\n\nlast", WithChunkSize(3), WithLineIndexChunk(2))

	tests := []struct {
		line       int
		start, end int
		text       string
	}{
		{0, 0, 3, "ab\r"},
		{1, 4, 6, "cd"},
		{2, 7, 7, ""},
		{3, 8, 12, "last"},
	}

	for _, tt := range tests {
		start, err := r.LineStart(tt.line)
		if err != nil || start != tt.start {
			t.Errorf("LineStart(%d) = %d, %v", tt.line, start, err)
		}
		end, err := r.LineEnd(tt.line)
		if err != nil || end != tt.end {
			t.Errorf("LineEnd(%d) = %d, %v", tt.line, end, err)
		}
		length, err := r.LineLength(tt.line)
		if err != nil || length != tt.end-tt.start {
			t.Errorf("LineLength(%d) = %d, %v", tt.line, length, err)
		}
		text, err := r.LineText(tt.line)
		if err != nil || text != tt.text {
			t.Errorf("LineText(%d) = %q, %v", tt.line, text, err)
		}
	}

	for _, line := range []int{-1, 4} {
		if _, err := r.LineStart(line); !errors.Is(err, ErrLineOutOfRange) {
			t.Errorf("LineStart(%d): expected ErrLineOutOfRange, got %v", line, err)
		}
		if _, err := r.LineEnd(line); !errors.Is(err, ErrLineOutOfRange) {
			t.Errorf("LineEnd(%d): expected ErrLineOutOfRange, got %v", line, err)
		}
		if _, err := r.LineText(line); !errors.Is(err, ErrLineOutOfRange) {
			t.Errorf("LineText(%d): expected ErrLineOutOfRange, got %v", line, err)
		}
	}
}

func TestLinesAfterEdits(t *testing.T) {
	r := New("one\ntwo\nthree", WithLineIndexChunk(1))
	_ = r.LineStarts()

	r.Insert(4, "TWO\n")
	if text, _ := r.LineText(1); text != "TWO" {
		t.Errorf("expected TWO, got %q", text)
	}
	if r.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", r.LineCount())
	}

	r.Delete(0, 8)
	if text, _ := r.LineText(0); text != "two" {
		t.Errorf("expected two, got %q", text)
	}

	starts := r.LineStarts()
	if len(starts) != 2 || starts[0] != 0 || starts[1] != 4 {
		t.Errorf("unexpected starts %v", starts)
	}
}

func TestPositions(t *testing.T) {
	r := New("hello\nworld\n")

	tests := []struct {
		offset int
		pos    Position
	}{
		{0, Position{Line: 0, Column: 0}},
		{5, Position{Line: 0, Column: 5}},
		{6, Position{Line: 1, Column: 0}},
		{11, Position{Line: 1, Column: 5}},
		{12, Position{Line: 2, Column: 0}},
	}

	for _, tt := range tests {
		if got := r.OffsetToPosition(tt.offset); got != tt.pos {
			t.Errorf("OffsetToPosition(%d) = %v, want %v", tt.offset, got, tt.pos)
		}
		if got := r.PositionToOffset(tt.pos); got != tt.offset {
			t.Errorf("PositionToOffset(%v) = %d, want %d", tt.pos, got, tt.offset)
		}
	}

	// Clamping
	if got := r.OffsetToPosition(99); got != (Position{Line: 2, Column: 0}) {
		t.Errorf("OffsetToPosition(99) = %v", got)
	}
	if got := r.PositionToOffset(Position{Line: 9, Column: 9}); got != 12 {
		t.Errorf("PositionToOffset past end = %d", got)
	}
	if got := r.PositionToOffset(Position{Line: 0, Column: 99}); got != 5 {
		t.Errorf("column should clamp to line end, got %d", got)
	}
	if got := r.LineIndexFromPosition(-4); got != 0 {
		t.Errorf("LineIndexFromPosition(-4) = %d", got)
	}
}

func TestPositionCompare(t *testing.T) {
	a := Position{Line: 1, Column: 4}
	b := Position{Line: 2, Column: 0}

	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Error("position ordering is wrong")
	}
	if a.String() != "(1:4)" {
		t.Errorf("unexpected String %q", a.String())
	}

	d := b.Sub(a)
	if d != (Offset{Lines: 1, Columns: -4}) {
		t.Errorf("unexpected offset %+v", d)
	}
	if a.Add(d) != b {
		t.Errorf("a + (b - a) = %v", a.Add(d))
	}
	if got := a.Add(Offset{Lines: -5, Columns: -5}); got != (Position{}) {
		t.Errorf("Add should clamp at zero, got %v", got)
	}
}

func TestClone(t *testing.T) {
	r := New("hello\nworld", WithChunkSize(4))
	c := r.Clone()

	r.Insert(5, ", there")
	c.Delete(0, 6)

	if r.String() != "hello, there\nworld" {
		t.Errorf("original changed unexpectedly: %q", r.String())
	}
	if c.String() != "world" || c.LineCount() != 1 {
		t.Errorf("clone = %q with %d lines", c.String(), c.LineCount())
	}
	if text, _ := r.LineText(1); text != "world" {
		t.Errorf("original line index is wrong: %q", text)
	}
}

func TestEqual(t *testing.T) {
	a := New("hello world", WithChunkSize(2))
	b := New("hello world", WithChunkSize(5))
	c := New("hello World", WithChunkSize(5))

	if !a.Equal(b) {
		t.Error("ropes with different chunking should be equal")
	}
	if a.Equal(c) {
		t.Error("different ropes should not be equal")
	}
	if a.Equal(New("hello")) {
		t.Error("ropes of different length should not be equal")
	}
	if !New("").Equal(New("")) {
		t.Error("empty ropes should be equal")
	}
	if a.Equal(nil) {
		t.Error("a rope should not equal nil")
	}
}

func TestChunkIterator(t *testing.T) {
	r := New(strings.Repeat("x", 10), WithChunkSize(3))

	var sb strings.Builder
	offset := 0
	it := r.Chunks()
	for it.Next() {
		if it.Offset() != offset {
			t.Errorf("chunk offset %d, want %d", it.Offset(), offset)
		}
		sb.WriteString(it.Chunk())
		offset += len(it.Chunk())
	}
	if sb.String() != r.String() {
		t.Errorf("chunks joined = %q", sb.String())
	}
}

func TestLineIterator(t *testing.T) {
	r := New("one\ntwo\n\nfour")

	var lines []string
	it := r.Lines()
	for it.Next() {
		if it.Line() != len(lines) {
			t.Errorf("line number %d, want %d", it.Line(), len(lines))
		}
		lines = append(lines, it.Text())
	}

	if strings.Join(lines, "\n") != r.String() {
		t.Errorf("lines joined = %q", strings.Join(lines, "\n"))
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(WithChunkSize(4))
	b.WriteString("hello")
	b.WriteByte(' ')
	b.Write([]byte("world\n"))

	if b.Len() != 12 {
		t.Errorf("builder len %d", b.Len())
	}

	r := b.Build()
	if r.String() != "hello world\n" || r.LineCount() != 2 {
		t.Errorf("built %q with %d lines", r.String(), r.LineCount())
	}
	checkTree(t, r)

	if b.Len() != 0 || b.Build().Len() != 0 {
		t.Error("builder should be reset after Build")
	}
}

func TestFromReader(t *testing.T) {
	text := strings.Repeat("some line\n", 5000)
	r, err := FromReader(strings.NewReader(text), WithChunkSize(512))
	if err != nil {
		t.Fatalf("FromReader failed: %v", err)
	}
	if r.String() != text || r.LineCount() != 5001 {
		t.Errorf("FromReader: len=%d lines=%d", r.Len(), r.LineCount())
	}
	checkTree(t, r)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestBuilderReadFromError(t *testing.T) {
	errBoom := errors.New("boom")
	b := NewBuilder(WithChunkSize(4))

	n, err := b.ReadFrom(io.MultiReader(strings.NewReader("abcdef"), failingReader{errBoom}))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if n != 6 || b.Len() != 6 {
		t.Errorf("expected 6 bytes consumed before the error, got n=%d len=%d", n, b.Len())
	}

	if _, err := FromReader(failingReader{errBoom}); !errors.Is(err, errBoom) {
		t.Errorf("FromReader should wrap the read error, got %v", err)
	}
}

func TestFromLines(t *testing.T) {
	r := FromLines([]string{"a", "b", "", "c"})
	if r.String() != "a\nb\n\nc" {
		t.Errorf("got %q", r.String())
	}
	if FromLines(nil).Len() != 0 {
		t.Error("no lines should build an empty rope")
	}
}

type countingTracer struct {
	inserts, deletes, rotations, rebuilds int
}

func (c *countingTracer) OnInsert(int, int) { c.inserts++ }
func (c *countingTracer) OnDelete(int, int) { c.deletes++ }
func (c *countingTracer) OnRotate(Rotation, int) { c.rotations++ }
func (c *countingTracer) OnRebuild(int, int, int) { c.rebuilds++ }

func TestRotations(t *testing.T) {
	tr := &countingTracer{}
	r := New("", WithChunkSize(1), WithTracer(tr))

	for i := 0; i < 200; i++ {
		r.Insert(r.Len(), "a")
	}
	r.Delete(0, 0)
	r.Insert(0, "")

	if tr.inserts != 200 || tr.deletes != 0 {
		t.Errorf("inserts=%d deletes=%d", tr.inserts, tr.deletes)
	}
	if tr.rotations == 0 {
		t.Error("appending should rotate")
	}
	checkTree(t, r)
}

func TestRebuildOnSkew(t *testing.T) {
	tr := &countingTracer{}
	// A huge threshold disables rotations, so only rebuilds keep the tree shallow.
	r := New("", WithChunkSize(1), WithRebalanceThreshold(1<<20), WithTracer(tr))

	for i := 0; i < 500; i++ {
		r.Insert(r.Len(), "b")
	}

	if tr.rotations != 0 {
		t.Errorf("expected no rotations, got %d", tr.rotations)
	}
	if tr.rebuilds == 0 {
		t.Error("expected a full rebuild")
	}
	if r.String() != strings.Repeat("b", 500) {
		t.Error("content changed by rebuild")
	}
	checkTree(t, r)
}

func TestRebuild(t *testing.T) {
	r := New("", WithChunkSize(4))
	for i := 0; i < 100; i++ {
		r.Insert(r.Len()/2, "xy")
	}
	before := r.String()

	r.Rebuild()
	if r.String() != before {
		t.Error("Rebuild changed content")
	}
	leaves := r.root.collectLeaves(nil)
	for i := 1; i < len(leaves); i++ {
		if leaves[i-1].length+leaves[i].length <= r.chunkSize {
			t.Fatalf("leaves %d and %d should have been merged", i-1, i)
		}
	}
	if want := bits.Len(uint(len(leaves)-1)) + 1; r.Height() != want {
		t.Errorf("expected height %d for %d leaves, got %d", want, len(leaves), r.Height())
	}
	checkTree(t, r)
}

// TestRandomEditsMatchModel replays random edits on a rope and a string.
func TestRandomEditsMatchModel(t *testing.T) {
	configs := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"tiny chunks", []Option{WithChunkSize(4)}},
		{"tight balance", []Option{WithChunkSize(2), WithRebalanceThreshold(1)}},
		{"small index chunks", []Option{WithChunkSize(8), WithLineIndexChunk(3)}},
	}
	alphabet := "abc\n\r xyz"

	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			r := New("", cfg.opts...)
			model := ""

			for step := 0; step < 2000; step++ {
				switch op := rng.Intn(10); {
				case op < 6:
					var sb strings.Builder
					for n := rng.Intn(20); n >= 0; n-- {
						sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
					}
					i := rng.Intn(len(model)+3) - 1
					r.Insert(i, sb.String())
					i = min(max(i, 0), len(model))
					model = model[:i] + sb.String() + model[i:]
				default:
					start := rng.Intn(len(model)+2) - 1
					length := rng.Intn(30)
					r.Delete(start, length)
					end := min(start+length, len(model))
					start = max(start, 0)
					if length > 0 && start < end {
						model = model[:start] + model[end:]
					}
				}

				if r.Len() != len(model) {
					t.Fatalf("step %d: length %d, want %d", step, r.Len(), len(model))
				}
				if r.LineCount() != strings.Count(model, "\n")+1 {
					t.Fatalf("step %d: line count %d", step, r.LineCount())
				}
				if step%50 == 0 {
					if r.String() != model {
						t.Fatalf("step %d: content mismatch", step)
					}
					lines := strings.Split(model, "\n")
					for i, want := range lines {
						if got, err := r.LineText(i); err != nil || got != want {
							t.Fatalf("step %d: LineText(%d) = %q, %v; want %q", step, i, got, err, want)
						}
					}
					checkTree(t, r)
				}
				if step%10 == 0 {
					c := alphabet[rng.Intn(len(alphabet))]
					from := rng.Intn(len(model)+2) - 1
					var want int
					if from == -1 || from >= len(model) {
						want = strings.LastIndexByte(model, c)
					} else {
						want = strings.LastIndexByte(model[:from+1], c)
					}
					if got := r.LastIndexOf(c, from); got != want {
						t.Fatalf("step %d: LastIndexOf(%q, %d) = %d, want %d", step, c, from, got, want)
					}
				}
			}
		})
	}
}

func TestInsertLengthProperty(t *testing.T) {
	f := func(initial, text string, index int16) bool {
		r := New(initial, WithChunkSize(8))
		r.Insert(int(index), text)
		return r.Len() == len(initial)+len(text) &&
			r.LineCount() == strings.Count(initial+text, "\n")+1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestDeleteLengthProperty(t *testing.T) {
	f := func(initial string, start uint8, length int8) bool {
		r := New(initial, WithChunkSize(8))
		r.Delete(int(start), int(length))

		removed := 0
		if length > 0 && int(start) < len(initial) {
			removed = min(int(length), len(initial)-int(start))
		}
		return r.Len() == len(initial)-removed
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLineBoundaryProperty(t *testing.T) {
	f := func(text string) bool {
		r := New(text, WithChunkSize(5), WithLineIndexChunk(2))
		lines := make([]string, 0, r.LineCount())
		for i := 0; i < r.LineCount(); i++ {
			start, _ := r.LineStart(i)
			end, _ := r.LineEnd(i)
			if start > end {
				return false
			}
			line, _ := r.LineText(i)
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n") == text
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
