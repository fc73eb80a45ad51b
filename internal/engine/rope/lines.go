package rope

import "fmt"

// Line accessors are strict: a line index outside [0, LineCount) returns
// ErrLineOutOfRange. Position accessors clamp instead.

// LineStarts returns the start offset of every line, in order.
func (r *Rope) LineStarts() []int {
	return r.index.Starts()
}

// LineStart returns the offset of the first byte of line.
func (r *Rope) LineStart(line int) (int, error) {
	if err := r.checkLine(line); err != nil {
		return 0, err
	}
	start, ok := r.index.Start(line)
	if !ok {
		return 0, r.lineError(line)
	}
	return start, nil
}

// LineEnd returns the offset just past the last byte of line,
// excluding its '\n'.
func (r *Rope) LineEnd(line int) (int, error) {
	if err := r.checkLine(line); err != nil {
		return 0, err
	}
	if line == r.lineCount-1 {
		return r.Len(), nil
	}
	next, ok := r.index.Start(line + 1)
	if !ok {
		return 0, r.lineError(line)
	}
	return next - 1, nil
}

// LineLength returns the length of line in bytes, excluding its '\n'.
func (r *Rope) LineLength(line int) (int, error) {
	start, err := r.LineStart(line)
	if err != nil {
		return 0, err
	}
	end, err := r.LineEnd(line)
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// LineText returns the text of line, excluding its '\n'.
func (r *Rope) LineText(line int) (string, error) {
	start, err := r.LineStart(line)
	if err != nil {
		return "", err
	}
	end, err := r.LineEnd(line)
	if err != nil {
		return "", err
	}
	return r.Text(start, end-start), nil
}

// LineIndexFromPosition returns the line containing offset pos.
// pos is clamped to [0, Len].
func (r *Rope) LineIndexFromPosition(pos int) int {
	return r.index.LineOf(min(max(pos, 0), r.Len()))
}

// OffsetToPosition converts a byte offset to a line/column position.
// The offset is clamped to [0, Len].
func (r *Rope) OffsetToPosition(offset int) Position {
	offset = min(max(offset, 0), r.Len())
	line := r.index.LineOf(offset)
	start, _ := r.index.Start(line)
	return Position{Line: line, Column: offset - start}
}

// PositionToOffset converts a line/column position to a byte offset.
// The line is clamped to [0, LineCount) and the column to the line length.
func (r *Rope) PositionToOffset(p Position) int {
	line := min(max(p.Line, 0), r.lineCount-1)
	start, _ := r.LineStart(line)
	end, _ := r.LineEnd(line)
	return start + min(max(p.Column, 0), end-start)
}

func (r *Rope) checkLine(line int) error {
	if line < 0 || line >= r.lineCount {
		return r.lineError(line)
	}
	return nil
}

func (r *Rope) lineError(line int) error {
	return fmt.Errorf("line %d of %d: %w", line, r.lineCount, ErrLineOutOfRange)
}
