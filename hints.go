package trellis

// Hint is a jumpable location: a highlightable node, its path, its absolute
// byte position, and the label a user types to reach it.
type Hint struct {
	Label  string
	Path   Path
	Pos    int
	Target *Element
}

// labelChars are the characters used for hint labels.
// Home row keys first for ergonomics, then other letters.
var labelChars = []rune{
	'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l',
	'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p',
	'z', 'x', 'c', 'v', 'b', 'n', 'm',
}

// GenerateLabels creates n unique hint labels: single characters for small
// sets, two-character combinations for larger ones.
func GenerateLabels(n int) []string {
	if n <= 0 {
		return nil
	}

	labels := make([]string, n)

	if n <= len(labelChars) {
		for i := 0; i < n; i++ {
			labels[i] = string(labelChars[i])
		}
		return labels
	}

	idx := 0
	for _, first := range labelChars {
		for _, second := range labelChars {
			if idx >= n {
				return labels
			}
			labels[idx] = string(first) + string(second)
			idx++
		}
	}
	return labels
}

// Hints enumerates every highlightable node in the tree, in flattened text
// order, with labels assigned. Positions come from the last render.
func (r *Renderer) Hints() []Hint {
	var hints []Hint
	r.tree.Walk(func(el *Element, p Path, pos int) {
		if el.Highlightable() {
			hints = append(hints, Hint{Path: p, Pos: pos, Target: el})
		}
	})
	labels := GenerateLabels(len(hints))
	for i := range hints {
		hints[i].Label = labels[i]
	}
	return hints
}

// FindHint finds a hint by its label.
func FindHint(hints []Hint, label string) (Hint, bool) {
	for _, h := range hints {
		if h.Label == label {
			return h, true
		}
	}
	return Hint{}, false
}

// HasPartialHint reports whether any hint label starts with the prefix,
// for multi-character label input.
func HasPartialHint(hints []Hint, prefix string) bool {
	for _, h := range hints {
		if len(h.Label) > len(prefix) && h.Label[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// JumpTo moves the cursor to the hint's position and recomputes the cursor
// path, firing enter/leave events and hover updates as usual.
func (r *Renderer) JumpTo(h Hint) {
	if r.closed || !r.host.SurfaceValid(r.surface) {
		return
	}
	r.host.SetCursor(r.surface, r.posToCursor(h.Pos))
	r.UpdateCursor()
}
