package rope

// Rotation identifies the direction of a tree rotation.
type Rotation uint8

const (
	RotateLeft Rotation = iota
	RotateRight
)

// String returns the rotation name.
func (r Rotation) String() string {
	switch r {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	default:
		return "unknown"
	}
}

// Tracer observes structural operations on a rope.
// It is called at operation boundaries only, never per byte.
type Tracer interface {
	// OnInsert is called after n bytes were inserted at index.
	OnInsert(index, n int)

	// OnDelete is called after n bytes were removed at start.
	OnDelete(start, n int)

	// OnRotate is called for each local rotation; height is the height
	// of the rotated subtree after the rotation.
	OnRotate(dir Rotation, height int)

	// OnRebuild is called after a full rebuild of the tree.
	OnRebuild(oldHeight, newHeight, leaves int)
}

type nopTracer struct{}

func (nopTracer) OnInsert(int, int) {}
func (nopTracer) OnDelete(int, int) {}
func (nopTracer) OnRotate(Rotation, int) {}
func (nopTracer) OnRebuild(int, int, int) {}
