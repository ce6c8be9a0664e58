package trellis

// MemHost is a complete in-memory Host. The test suite runs on it, and
// embedders can use it to drive trellis headlessly; TeaHost builds on it
// for real terminals.
//
// Handles are never reused, so a destroyed surface or window stays
// detectably dead. All operations on dead handles are no-ops.
type MemHost struct {
	surfaces map[Surface]*memSurface
	windows  map[Window]*memWindow
	nextS    Surface
	nextW    Window
}

type memSurface struct {
	lines      []string
	highlights []HighlightSpan
	cursor     CursorPos
	scratch    bool

	cursorHooks []func()
	focusHooks  []func()
	keys        map[string]func()
}

type memWindow struct {
	content Surface
	anchor  Surface
	at      CursorPos
	width   int
	height  int
	moves   int
}

// NewMemHost creates an empty in-memory host.
func NewMemHost() *MemHost {
	return &MemHost{
		surfaces: map[Surface]*memSurface{},
		windows:  map[Window]*memWindow{},
	}
}

// CreateSurface implements Host.
func (h *MemHost) CreateSurface() Surface {
	h.nextS++
	h.surfaces[h.nextS] = &memSurface{keys: map[string]func(){}}
	return h.nextS
}

// MarkScratch implements Host.
func (h *MemHost) MarkScratch(s Surface) {
	if sf := h.surfaces[s]; sf != nil {
		sf.scratch = true
	}
}

// DestroySurface implements Host. Windows showing the surface die with it.
func (h *MemHost) DestroySurface(s Surface) {
	if h.surfaces[s] == nil {
		return
	}
	delete(h.surfaces, s)
	for w, win := range h.windows {
		if win.content == s {
			delete(h.windows, w)
		}
	}
}

// DetachSurface implements Host.
func (h *MemHost) DetachSurface(s Surface) {
	if sf := h.surfaces[s]; sf != nil {
		sf.cursorHooks = nil
		sf.focusHooks = nil
		sf.keys = map[string]func(){}
	}
}

// SurfaceValid implements Host.
func (h *MemHost) SurfaceValid(s Surface) bool {
	return h.surfaces[s] != nil
}

// SetLines implements Host.
func (h *MemHost) SetLines(s Surface, lines []string) {
	if sf := h.surfaces[s]; sf != nil {
		sf.lines = append([]string(nil), lines...)
	}
}

// ApplyHighlight implements Host.
func (h *MemHost) ApplyHighlight(s Surface, span HighlightSpan) {
	if sf := h.surfaces[s]; sf != nil {
		sf.highlights = append(sf.highlights, span)
	}
}

// ClearHighlights implements Host.
func (h *MemHost) ClearHighlights(s Surface) {
	if sf := h.surfaces[s]; sf != nil {
		sf.highlights = nil
	}
}

// Cursor implements Host.
func (h *MemHost) Cursor(s Surface) (CursorPos, bool) {
	sf := h.surfaces[s]
	if sf == nil {
		return CursorPos{}, false
	}
	return sf.cursor, true
}

// SetCursor implements Host. Programmatic moves do not fire cursor hooks;
// use MoveCursor to simulate user movement.
func (h *MemHost) SetCursor(s Surface, p CursorPos) {
	if sf := h.surfaces[s]; sf != nil {
		sf.cursor = clampCursor(sf.lines, p)
	}
}

// OpenFloat implements Host.
func (h *MemHost) OpenFloat(content Surface, anchor Surface, at CursorPos, width, height int) Window {
	if h.surfaces[content] == nil {
		return 0
	}
	h.nextW++
	h.windows[h.nextW] = &memWindow{content: content, anchor: anchor, at: at, width: width, height: height}
	return h.nextW
}

// MoveFloat implements Host.
func (h *MemHost) MoveFloat(w Window, at CursorPos, width, height int) {
	if win := h.windows[w]; win != nil {
		win.at = at
		win.width = width
		win.height = height
		win.moves++
	}
}

// CloseWindow implements Host.
func (h *MemHost) CloseWindow(w Window) {
	delete(h.windows, w)
}

// WindowValid implements Host.
func (h *MemHost) WindowValid(w Window) bool {
	return h.windows[w] != nil
}

// OnCursorMoved implements Host.
func (h *MemHost) OnCursorMoved(s Surface, fn func()) {
	if sf := h.surfaces[s]; sf != nil {
		sf.cursorHooks = append(sf.cursorHooks, fn)
	}
}

// OnFocus implements Host.
func (h *MemHost) OnFocus(s Surface, fn func()) {
	if sf := h.surfaces[s]; sf != nil {
		sf.focusHooks = append(sf.focusHooks, fn)
	}
}

// BindKey implements Host.
func (h *MemHost) BindKey(s Surface, key string, fn func()) {
	if sf := h.surfaces[s]; sf != nil {
		sf.keys[key] = fn
	}
}

// MoveCursor simulates user cursor movement: the position is clamped into
// the surface's lines and the cursor-moved hooks fire.
func (h *MemHost) MoveCursor(s Surface, p CursorPos) {
	sf := h.surfaces[s]
	if sf == nil {
		return
	}
	sf.cursor = clampCursor(sf.lines, p)
	for _, fn := range append([]func(){}, sf.cursorHooks...) {
		fn()
	}
}

// FocusSurface simulates the surface gaining focus.
func (h *MemHost) FocusSurface(s Surface) {
	sf := h.surfaces[s]
	if sf == nil {
		return
	}
	for _, fn := range append([]func(){}, sf.focusHooks...) {
		fn()
	}
}

// PressKey simulates a key press in the surface. Reports whether a binding
// consumed it.
func (h *MemHost) PressKey(s Surface, key string) bool {
	sf := h.surfaces[s]
	if sf == nil {
		return false
	}
	fn, ok := sf.keys[key]
	if !ok {
		return false
	}
	fn()
	return true
}

// Lines returns the surface's visible lines.
func (h *MemHost) Lines(s Surface) []string {
	if sf := h.surfaces[s]; sf != nil {
		return sf.lines
	}
	return nil
}

// Highlights returns the highlight spans currently applied to the surface.
func (h *MemHost) Highlights(s Surface) []HighlightSpan {
	if sf := h.surfaces[s]; sf != nil {
		return sf.highlights
	}
	return nil
}

// FloatShowing returns the window showing the given surface, if any.
func (h *MemHost) FloatShowing(content Surface) (Window, bool) {
	for w, win := range h.windows {
		if win.content == content {
			return w, true
		}
	}
	return 0, false
}

// FloatGeometry returns a float's anchor position and size.
func (h *MemHost) FloatGeometry(w Window) (at CursorPos, width, height int, ok bool) {
	win := h.windows[w]
	if win == nil {
		return CursorPos{}, 0, 0, false
	}
	return win.at, win.width, win.height, true
}

// FloatMoves returns how many geometry updates the float has received
// since it opened. Useful for asserting that unchanged hovers skip host
// calls.
func (h *MemHost) FloatMoves(w Window) int {
	if win := h.windows[w]; win != nil {
		return win.moves
	}
	return 0
}

// Scratch reports whether the surface was marked scratch.
func (h *MemHost) Scratch(s Surface) bool {
	sf := h.surfaces[s]
	return sf != nil && sf.scratch
}

func clampCursor(lines []string, p CursorPos) CursorPos {
	if len(lines) == 0 {
		return CursorPos{}
	}
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(lines) {
		p.Line = len(lines) - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > len(lines[p.Line]) {
		p.Col = len(lines[p.Line])
	}
	return p
}
