package rope

import "fmt"

// Position is a line/column location. Both are 0-indexed;
// Column counts bytes from the start of the line.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Offset is a signed displacement between two positions.
type Offset struct {
	Lines   int
	Columns int
}

// Add returns p moved by d. Negative results are clamped to zero.
func (p Position) Add(d Offset) Position {
	return Position{
		Line:   max(p.Line+d.Lines, 0),
		Column: max(p.Column+d.Columns, 0),
	}
}

// Sub returns the displacement from other to p.
func (p Position) Sub(other Position) Offset {
	return Offset{Lines: p.Line - other.Line, Columns: p.Column - other.Column}
}
