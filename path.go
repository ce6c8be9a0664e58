package trellis

// PathNode is one step of a Path: the child index taken, the name the child
// is expected to have, and an optional byte offset into the final node's own
// text. Offset is meaningful only on the last step; -1 means absent.
//
// The first step of every path describes the root itself: index 0 and the
// root's name, used to detect that a renderer's tree has been replaced.
type PathNode struct {
	Index  int
	Name   string
	Offset int
}

// Path addresses a node (or a byte position inside it) structurally, so it
// stays comparable and checkable across re-renders that rebuild subtrees.
type Path []PathNode

// Equal reports structural equality: same index/name sequence, ignoring
// trailing offsets. Used to decide whether the cursor moved to a logically
// different node.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i].Index != q[i].Index || p[i].Name != q[i].Name {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	q := make(Path, len(p))
	copy(q, p)
	return q
}

// WithoutOffset returns a copy of the path with no trailing byte offset,
// addressing the node's start rather than a position inside it.
func (p Path) WithoutOffset() Path {
	q := p.Clone()
	if len(q) > 0 {
		q[len(q)-1].Offset = -1
	}
	return q
}
