package trellis

import "strings"

// Element is a node in the retained display tree: a chunk of text rendered
// before its children, a name used for path validation, an optional style
// covering its whole subtree, optional event handlers, and at most one
// tooltip element shown in a separate floating surface.
//
// The flattened byte size of each subtree is memoized during Flatten; any
// text or structural mutation invalidates the node and every ancestor, so
// path/position translation refuses to work anywhere in a stale tree rather
// than mis-addressing nodes.
type Element struct {
	text          string
	name          string
	style         Style
	highlightable bool
	children      []*Element
	tooltip       *Element
	events        map[string]Handler
	parent        *Element

	// flattened subtree size in bytes; -1 until the next Flatten
	size int
}

// NewElement creates a leaf element with the given name and text.
func NewElement(name, text string) *Element {
	return &Element{name: name, text: text, size: -1}
}

// Name returns the element's name.
func (e *Element) Name() string { return e.name }

// Text returns the element's own text, excluding children.
func (e *Element) Text() string { return e.text }

// SetText replaces the element's own text and invalidates the size of the
// node and its ancestors.
func (e *Element) SetText(text string) *Element {
	e.text = text
	e.invalidate()
	return e
}

// invalidate marks the node and every ancestor stale. A stale node always
// has stale ancestors, so the walk stops at the first one it meets.
func (e *Element) invalidate() {
	for n := e; n != nil; n = n.parent {
		if n.size == -1 {
			return
		}
		n.size = -1
	}
}

// Styled sets the highlight style covering this element's subtree.
func (e *Element) Styled(s Style) *Element {
	e.style = s
	return e
}

// Style returns the element's style.
func (e *Element) Style() Style { return e.style }

// SetHighlightable marks whether hovering this element's byte range should
// be visually highlighted.
func (e *Element) SetHighlightable(v bool) *Element {
	e.highlightable = v
	return e
}

// Highlightable reports whether the element is hover-highlightable.
func (e *Element) Highlightable() bool { return e.highlightable }

// On registers a handler for a named event. A nil handler removes it.
func (e *Element) On(event string, h Handler) *Element {
	if h == nil {
		delete(e.events, event)
		return e
	}
	if e.events == nil {
		e.events = map[string]Handler{}
	}
	e.events[event] = h
	return e
}

// AddChild appends a child and returns the child, for chaining builds
// downward through the tree.
func (e *Element) AddChild(c *Element) *Element {
	c.parent = e
	e.children = append(e.children, c)
	e.invalidate()
	return c
}

// Children returns the ordered child elements.
func (e *Element) Children() []*Element { return e.children }

// SetTooltip attaches the tooltip element, replacing any previous one.
// Tooltips are not part of the children and never contribute to the
// flattened text. Returns the element for chaining.
func (e *Element) SetTooltip(tip *Element) *Element {
	e.tooltip = tip
	return e
}

// Tooltip returns the attached tooltip element, or nil.
func (e *Element) Tooltip() *Element { return e.tooltip }

// Size returns the flattened byte size recorded by the last Flatten, or -1
// if the subtree has been mutated since.
func (e *Element) Size() int { return e.size }

// Flatten produces the element's display text: its own text followed by
// each child's flattened text, pre-order. Subtree sizes are recorded
// bottom-up in the same traversal. Idempotent until the next mutation.
func (e *Element) Flatten() string {
	var b strings.Builder
	e.flattenInto(&b)
	return b.String()
}

func (e *Element) flattenInto(b *strings.Builder) int {
	size := len(e.text)
	b.WriteString(e.text)
	for _, c := range e.children {
		size += c.flattenInto(b)
	}
	e.size = size
	return size
}

// Highlights collects one (start, end, group) range per styled node, in the
// byte numbering of the last Flatten. Parent and child ranges nest. Returns
// nil when sizes are stale.
func (e *Element) Highlights() []Highlight {
	if e.size < 0 {
		return nil
	}
	var out []Highlight
	e.collectHighlights(0, &out)
	return out
}

func (e *Element) collectHighlights(start int, out *[]Highlight) {
	if e.size < 0 {
		return
	}
	if !e.style.IsZero() {
		*out = append(*out, Highlight{Start: start, End: start + e.size, Group: e.style.Resolve(e)})
	}
	pos := start + len(e.text)
	for _, c := range e.children {
		c.collectHighlights(pos, out)
		pos += c.size
	}
}

// StackFromPath follows the path and returns every node from the root to
// the target, or ok=false when the path no longer matches the tree shape.
func (e *Element) StackFromPath(p Path) ([]*Element, bool) {
	if len(p) == 0 || p[0].Name != e.name {
		return nil, false
	}
	stack := make([]*Element, 0, len(p))
	stack = append(stack, e)
	cur := e
	for _, step := range p[1:] {
		if step.Index < 0 || step.Index >= len(cur.children) {
			return nil, false
		}
		child := cur.children[step.Index]
		if child.name != step.Name {
			return nil, false
		}
		stack = append(stack, child)
		cur = child
	}
	return stack, true
}

// PosFromPath returns the absolute byte position the path addresses: the
// start of the target node, plus the trailing offset if present. A recorded
// offset that no longer fits the node's text is clamped to the last byte
// (or to the node start when the text is empty) rather than failing.
// Sibling sizes must be fresh; ok=false otherwise.
func (e *Element) PosFromPath(p Path) (int, bool) {
	if len(p) == 0 || p[0].Name != e.name {
		return 0, false
	}
	pos := 0
	cur := e
	for _, step := range p[1:] {
		if step.Index < 0 || step.Index >= len(cur.children) {
			return 0, false
		}
		child := cur.children[step.Index]
		if child.name != step.Name {
			return 0, false
		}
		pos += len(cur.text)
		for _, sib := range cur.children[:step.Index] {
			if sib.size < 0 {
				return 0, false
			}
			pos += sib.size
		}
		cur = child
	}
	if off := p[len(p)-1].Offset; off >= 0 {
		if off >= len(cur.text) {
			off = len(cur.text) - 1
			if off < 0 {
				off = 0
			}
		}
		pos += off
	}
	return pos, true
}

// PathFromPos is the inverse of PosFromPath: it descends from the root,
// consuming bytes, until the residual offset falls inside a node's own
// text. Returns the full path (with trailing offset), the ancestor stack,
// and ok=false when sizes are stale or pos is out of range.
func (e *Element) PathFromPos(pos int) (Path, []*Element, bool) {
	if pos < 0 || e.size < 0 {
		return nil, nil, false
	}
	path := Path{{Index: 0, Name: e.name, Offset: -1}}
	stack := []*Element{e}
	cur := e
	for {
		if pos < len(cur.text) {
			path[len(path)-1].Offset = pos
			return path, stack, true
		}
		pos -= len(cur.text)
		descended := false
		for i, c := range cur.children {
			if c.size < 0 {
				return nil, nil, false
			}
			if pos < c.size {
				path = append(path, PathNode{Index: i, Name: c.name, Offset: -1})
				stack = append(stack, c)
				cur = c
				descended = true
				break
			}
			pos -= c.size
		}
		if !descended {
			return nil, nil, false
		}
	}
}

// FindInnermost walks the path's ancestor stack from the target outward and
// returns the first node satisfying pred, together with the truncated stack
// and path leading to it. Event bubbling and tooltip lookup are both this
// search with different predicates.
func (e *Element) FindInnermost(p Path, pred func(*Element) bool) (*Element, []*Element, Path, bool) {
	stack, ok := e.StackFromPath(p)
	if !ok {
		return nil, nil, nil, false
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if pred(stack[i]) {
			return stack[i], stack[:i+1], p[:i+1], true
		}
	}
	return nil, nil, nil, false
}

// DispatchEvent finds the innermost ancestor of the path with a handler for
// the event and posts the handler to the queue. Reports whether a handler
// was found; an unhandled event is the caller's cue to bubble outward.
func (e *Element) DispatchEvent(q *TaskQueue, p Path, event string, args ...string) bool {
	target, _, _, ok := e.FindInnermost(p, func(el *Element) bool {
		_, has := el.events[event]
		return has
	})
	if !ok {
		return false
	}
	h := target.events[event]
	q.Post(func() { h(args...) })
	return true
}

// Find returns the first node, pre-order, satisfying pred, or nil.
func (e *Element) Find(pred func(*Element) bool) *Element {
	if pred(e) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node pre-order with its path and absolute byte start in
// the flattened text. Positions come from the last Flatten; Walk visits
// nothing while sizes are stale.
func (e *Element) Walk(fn func(el *Element, p Path, pos int)) {
	if e.size < 0 {
		return
	}
	e.walk(Path{{Index: 0, Name: e.name, Offset: -1}}, 0, fn)
}

func (e *Element) walk(p Path, pos int, fn func(*Element, Path, int)) {
	fn(e, p, pos)
	childPos := pos + len(e.text)
	for i, c := range e.children {
		step := append(p.Clone(), PathNode{Index: i, Name: c.name, Offset: -1})
		c.walk(step, childPos, fn)
		childPos += c.size
	}
}

// Inert returns a deep copy of the element with every event handler
// dropped, recursively, tooltip included. Use it to snapshot a tree for
// display without side effects.
func (e *Element) Inert() *Element {
	cp := &Element{
		text:          e.text,
		name:          e.name,
		style:         e.style,
		highlightable: e.highlightable,
		size:          -1,
	}
	for _, c := range e.children {
		cc := c.Inert()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	if e.tooltip != nil {
		cp.tooltip = e.tooltip.Inert()
	}
	return cp
}

// Concat builds a parent element whose children are els interleaved with a
// literal separator element between each pair: no separator before the
// first or after the last.
func Concat(sep string, els ...*Element) *Element {
	parent := NewElement("concat", "")
	for i, el := range els {
		if i > 0 {
			parent.AddChild(NewElement("sep", sep))
		}
		parent.AddChild(el)
	}
	return parent
}
