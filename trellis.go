// Package trellis is a retained-mode, tree-based console UI framework.
//
// A tree of Elements is flattened to text and pushed wholesale into a host
// display surface. Structural paths address nodes (and byte positions inside
// them) across re-renders, cursor movement is translated back into paths to
// drive hover highlights and nested tooltip popups, and named events bubble
// from the innermost handler outward through the chain of open renderers.
//
// The framework is editor-agnostic: everything it needs from the host is the
// narrow Host interface. MemHost is a complete in-memory host, TeaHost runs
// surfaces inside a bubbletea program.
package trellis

// Handler is an event callback attached to an Element. Handlers are invoked
// asynchronously via the session's task queue, strictly after the dispatch
// call that scheduled them returns.
type Handler func(args ...string)

// Events fired by the renderer as the cursor crosses node boundaries.
// Handlers for these are optional on any node.
const (
	EventCursorEnter = "cursor_enter"
	EventCursorLeave = "cursor_leave"
)

// HoverGroup is the highlight group applied to the hovered element's range.
const HoverGroup = "hover"

// Style tags an element's full byte range with a named highlight group.
// The tag is either fixed or computed from the element at collection time.
// The zero Style applies nothing.
type Style struct {
	group string
	fn    func(*Element) string
}

// Fixed returns a style that always resolves to the given group.
func Fixed(group string) Style {
	return Style{group: group}
}

// Computed returns a style whose group is derived from the element each time
// highlights are collected.
func Computed(fn func(*Element) string) Style {
	return Style{fn: fn}
}

// IsZero reports whether the style applies no highlight.
func (s Style) IsZero() bool {
	return s.group == "" && s.fn == nil
}

// Resolve returns the highlight group for el.
func (s Style) Resolve(el *Element) string {
	if s.fn != nil {
		return s.fn(el)
	}
	return s.group
}

// Highlight is a byte range [Start, End) in the flattened text, tagged with
// a highlight group. Parent and child ranges nest.
type Highlight struct {
	Start int
	End   int
	Group string
}
