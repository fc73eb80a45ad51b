package rope

import "errors"

// Errors returned by strict rope accessors.
var (
	// ErrIndexOutOfRange indicates a byte index outside [0, Len).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLineOutOfRange indicates a line index outside [0, LineCount).
	ErrLineOutOfRange = errors.New("line index out of range")
)
