package trellis

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

// Renderer binds one element tree to one live surface. It tracks the cursor
// as a structural path, re-renders the flattened text, applies highlight
// ranges, manages a tooltip renderer for the hovered node, and forwards
// events into the tree with bubbling to the parent renderer when this one
// is a tooltip.
type Renderer struct {
	session *Session
	host    Host
	surface Surface
	tree    *Element

	lines      []string
	lineStarts []int
	path       Path // current cursor path; nil when the cursor is off-tree

	// hover highlight byte range; hoverSet false when nothing is hovered
	hoverStart, hoverEnd int
	hoverSet             bool

	// tooltip chain
	tooltip        *Renderer
	tooltipSurface Surface // recycled across tooltip opens
	parent         *Renderer
	parentPath     Path
	window         Window // float window when this renderer is a tooltip

	// last float geometry, to skip host calls when nothing changed
	lastAnchor   CursorPos
	lastW, lastH int

	closed bool

	// ClampCursor, when set, snaps raw cursor positions before they are
	// translated into paths. SelectMany uses it to keep the cursor on
	// choice lines.
	ClampCursor func(CursorPos) CursorPos
}

// Surface returns the surface this renderer draws into.
func (r *Renderer) Surface() Surface { return r.surface }

// Tree returns the element tree this renderer shows.
func (r *Renderer) Tree() *Element { return r.tree }

// Path returns the current cursor path, or nil.
func (r *Renderer) Path() Path { return r.path }

// Parent returns the parent renderer when this one is an open tooltip.
func (r *Renderer) Parent() *Renderer { return r.parent }

// TooltipRenderer returns the currently open tooltip renderer, or nil.
func (r *Renderer) TooltipRenderer() *Renderer { return r.tooltip }

// Closed reports whether the renderer has been closed.
func (r *Renderer) Closed() bool { return r.closed }

// HoverRange returns the hovered byte range, if any.
func (r *Renderer) HoverRange() (start, end int, ok bool) {
	return r.hoverStart, r.hoverEnd, r.hoverSet
}

// Render flattens the tree into the surface: lines are replaced wholesale,
// highlight ranges are retranslated into line/column spans, and the cursor
// is restored to the stored path when it still resolves (a stale path is
// dropped silently). Concludes with a hover update.
func (r *Renderer) Render() {
	if r.closed || !r.host.SurfaceValid(r.surface) {
		return
	}
	text := r.tree.Flatten()
	r.lines = strings.Split(text, "\n")
	r.lineStarts = lineStarts(r.lines)
	r.host.SetLines(r.surface, r.lines)

	if r.path != nil {
		if pos, ok := r.tree.PosFromPath(r.path); ok {
			r.host.SetCursor(r.surface, r.posToCursor(pos))
		} else {
			r.path = nil
		}
	}
	r.hoverUpdate()
}

// UpdateCursor recomputes the cursor path from the surface's raw cursor
// position. When the path changes structurally, cursor_leave fires at the
// old path and cursor_enter at the new one, best-effort. Registered as the
// cursor-move and focus hook at attach time.
func (r *Renderer) UpdateCursor() {
	if r.closed {
		return
	}
	cur, ok := r.host.Cursor(r.surface)
	if !ok {
		return
	}
	if r.ClampCursor != nil {
		if snapped := r.ClampCursor(cur); snapped != cur {
			cur = snapped
			r.host.SetCursor(r.surface, cur)
		}
	}

	var newPath Path
	if pos, ok := r.cursorToPos(cur); ok {
		if p, _, found := r.tree.PathFromPos(pos); found {
			newPath = p
		}
	}

	if !newPath.Equal(r.path) {
		if r.path != nil {
			r.tree.DispatchEvent(r.session.Queue(), r.path, EventCursorLeave)
		}
		if newPath != nil {
			r.tree.DispatchEvent(r.session.Queue(), newPath, EventCursorEnter)
		}
	}
	r.path = newPath
	r.hoverUpdate()
}

// Event dispatches a named event at the current cursor path, falling back
// to the tree root when the cursor is off-tree so surface-level bindings
// still reach root handlers. When no handler in this tree claims it and
// this renderer is a tooltip, the event is retried on the parent at the
// path the tooltip was anchored at. Reports whether any renderer in the
// chain handled it.
func (r *Renderer) Event(event string, args ...string) bool {
	if r.closed {
		return false
	}
	path := r.path
	if path == nil {
		path = Path{{Index: 0, Name: r.tree.Name(), Offset: -1}}
	}
	return r.eventAt(path, event, args...)
}

func (r *Renderer) eventAt(path Path, event string, args ...string) bool {
	if path != nil && r.tree.DispatchEvent(r.session.Queue(), path, event, args...) {
		return true
	}
	if r.parent != nil {
		return r.parent.eventAt(r.parentPath, event, args...)
	}
	return false
}

// Close tears the renderer down: the surface is destroyed, the renderer is
// detached from its parent, and an open tooltip is closed recursively.
// Idempotent; hooks are invalidated synchronously by the surface teardown.
func (r *Renderer) Close() {
	r.close(false, false)
}

// close is Close with two escape hatches: keepTooltip leaves the tooltip
// chain alive for adoption by a replacement renderer, keepSurface detaches
// hooks but leaves the surface itself alive for recycling.
func (r *Renderer) close(keepTooltip, keepSurface bool) {
	if r.closed {
		return
	}
	r.closed = true
	r.path = nil
	r.hoverSet = false

	if !keepTooltip {
		if r.tooltip != nil {
			r.tooltip.close(false, false)
			r.tooltip = nil
		}
		if r.tooltipSurface != 0 && r.host.SurfaceValid(r.tooltipSurface) {
			r.host.DestroySurface(r.tooltipSurface)
		}
		r.tooltipSurface = 0
	}

	if r.parent != nil {
		if r.parent.tooltip == r {
			r.parent.tooltip = nil
		}
		r.parent = nil
		r.parentPath = nil
	}

	if r.window != 0 && r.host.WindowValid(r.window) {
		r.host.CloseWindow(r.window)
	}
	r.window = 0

	delete(r.session.renderers, r.surface)

	if keepSurface {
		r.host.DetachSurface(r.surface)
	} else if r.host.SurfaceValid(r.surface) {
		r.host.DestroySurface(r.surface)
	}
}

// adoptTooltip moves old's tooltip chain onto r, retargeting the child's
// parent back-reference. Used when a surface's tree is replaced so an open
// tooltip survives the swap.
func (r *Renderer) adoptTooltip(old *Renderer) {
	r.tooltip = old.tooltip
	r.tooltipSurface = old.tooltipSurface
	r.lastAnchor = old.lastAnchor
	r.lastW, r.lastH = old.lastW, old.lastH
	if r.tooltip != nil {
		r.tooltip.parent = r
	}
	old.tooltip = nil
	old.tooltipSurface = 0
}

// hoverUpdate recomputes the hover highlight and the tooltip for the
// current cursor path: the innermost highlightable ancestor gets the hover
// range, the innermost tooltip-bearing ancestor gets a tooltip renderer
// anchored at its start, and a tooltip left behind by the cursor is closed.
func (r *Renderer) hoverUpdate() {
	if r.closed || !r.host.SurfaceValid(r.surface) {
		return
	}

	var hover *Highlight
	var owner *Element
	var ownerPath Path

	if r.path != nil {
		if el, _, p, ok := r.tree.FindInnermost(r.path, (*Element).Highlightable); ok {
			if start, posOK := r.tree.PosFromPath(p.WithoutOffset()); posOK && el.Size() >= 0 {
				hover = &Highlight{Start: start, End: start + el.Size(), Group: HoverGroup}
			}
		}
		if el, _, p, ok := r.tree.FindInnermost(r.path, func(el *Element) bool { return el.Tooltip() != nil }); ok {
			owner = el
			ownerPath = p.WithoutOffset()
		}
	}

	r.redrawHighlights(hover)

	if owner == nil {
		r.closeTooltip()
		return
	}
	r.openTooltip(owner, ownerPath)
}

// openTooltip opens, or re-renders in place, the tooltip for the given
// owner node. Geometry host calls are skipped when the anchor position and
// content size are unchanged, to avoid flicker.
func (r *Renderer) openTooltip(owner *Element, ownerPath Path) {
	if r.tooltip != nil && !r.tooltip.parentPath.Equal(ownerPath) {
		r.closeTooltip()
	}

	// no resolvable anchor, no tooltip
	start, ok := r.tree.PosFromPath(ownerPath)
	if !ok {
		r.closeTooltip()
		return
	}
	at := r.posToCursor(start)

	if r.tooltip == nil {
		surface := r.tooltipSurface
		if surface == 0 || !r.host.SurfaceValid(surface) {
			surface = r.host.CreateSurface()
		}
		r.tooltipSurface = surface
		t := r.session.Attach(owner.Tooltip(), surface, AttachOptions{})
		t.parent = r
		t.parentPath = ownerPath.Clone()
		r.tooltip = t
	}
	t := r.tooltip
	t.tree = owner.Tooltip()

	lines := strings.Split(owner.Tooltip().Flatten(), "\n")
	width := 1
	for _, line := range lines {
		if w := ansi.PrintableRuneWidth(line); w > width {
			width = w
		}
	}
	height := len(lines)

	switch {
	case t.window == 0 || !r.host.WindowValid(t.window):
		t.window = r.host.OpenFloat(t.surface, r.surface, at, width, height)
	case at != r.lastAnchor || width != r.lastW || height != r.lastH:
		r.host.MoveFloat(t.window, at, width, height)
	}
	r.lastAnchor, r.lastW, r.lastH = at, width, height

	t.Render()
}

// closeTooltip closes the open tooltip renderer but parks its surface on
// this renderer, so re-hovering opens the next tooltip on the same surface.
func (r *Renderer) closeTooltip() {
	if r.tooltip == nil {
		return
	}
	surface := r.tooltip.surface
	r.tooltip.close(false, true)
	r.tooltip = nil
	r.tooltipSurface = surface
}

// redrawHighlights reapplies the tree's style highlights plus the optional
// hover range, replacing whatever the surface carried before.
func (r *Renderer) redrawHighlights(hover *Highlight) {
	r.host.ClearHighlights(r.surface)
	for _, hl := range r.tree.Highlights() {
		r.applyHighlight(hl)
	}
	if hover != nil {
		r.applyHighlight(*hover)
		r.hoverStart, r.hoverEnd, r.hoverSet = hover.Start, hover.End, true
	} else {
		r.hoverSet = false
	}
}

// applyHighlight splits an absolute byte range into per-line column spans.
func (r *Renderer) applyHighlight(hl Highlight) {
	for i, line := range r.lines {
		lineStart := r.lineStarts[i]
		startCol := hl.Start - lineStart
		endCol := hl.End - lineStart
		if startCol < 0 {
			startCol = 0
		}
		if endCol > len(line) {
			endCol = len(line)
		}
		if startCol >= endCol {
			continue
		}
		r.host.ApplyHighlight(r.surface, HighlightSpan{
			Group:    hl.Group,
			Line:     i,
			StartCol: startCol,
			EndCol:   endCol,
		})
	}
}

// posToCursor translates an absolute byte position into line/column
// coordinates of the last rendered lines. Before the first render there are
// no lines, so every position maps to the origin.
func (r *Renderer) posToCursor(pos int) CursorPos {
	if len(r.lineStarts) == 0 {
		return CursorPos{}
	}
	line := 0
	for line+1 < len(r.lineStarts) && r.lineStarts[line+1] <= pos {
		line++
	}
	return CursorPos{Line: line, Col: pos - r.lineStarts[line]}
}

// cursorToPos translates line/column coordinates into an absolute byte
// position, clamping the column into the line. ok=false before the first
// render or when the line is out of range.
func (r *Renderer) cursorToPos(c CursorPos) (int, bool) {
	if c.Line < 0 || c.Line >= len(r.lines) {
		return 0, false
	}
	col := c.Col
	if col < 0 {
		col = 0
	}
	if col > len(r.lines[c.Line]) {
		col = len(r.lines[c.Line])
	}
	return r.lineStarts[c.Line] + col, true
}

// lineStarts returns the absolute byte offset of each line's first byte,
// accounting for the newline byte between lines.
func lineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		starts[i] = pos
		pos += len(line) + 1
	}
	return starts
}
