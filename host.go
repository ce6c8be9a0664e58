package trellis

// Surface identifies a host display surface: an ordered list of text lines
// that can carry named highlights. The zero value is no surface.
type Surface int

// Window identifies a live view onto a surface, such as a floating panel.
// The zero value is no window.
type Window int

// CursorPos is a position within a surface. Lines and columns are 0-based;
// Col counts bytes into the line, matching the flattened text's byte
// numbering.
type CursorPos struct {
	Line int
	Col  int
}

// HighlightSpan is a named highlight over a single-line column range,
// end-exclusive. The renderer splits multi-line byte ranges into these.
type HighlightSpan struct {
	Group    string
	Line     int
	StartCol int
	EndCol   int
}

// Host is the narrow display contract trellis requires from its embedder.
// Operations on destroyed surfaces or windows must be no-ops, never faults,
// and DestroySurface must synchronously drop the callbacks and key bindings
// registered for the surface, so a closed renderer receives no further
// notifications.
type Host interface {
	// CreateSurface allocates a new, empty surface.
	CreateSurface() Surface
	// MarkScratch makes the surface read-only and transient, so input is
	// routed through key bindings instead of editing the text.
	MarkScratch(s Surface)
	// DestroySurface destroys the surface, any windows showing it, and all
	// callbacks and bindings registered for it.
	DestroySurface(s Surface)
	// DetachSurface drops the callbacks and key bindings registered for the
	// surface without destroying it, so it can be rebound later.
	DetachSurface(s Surface)
	// SurfaceValid reports whether the surface is still live.
	SurfaceValid(s Surface) bool

	// SetLines replaces the surface's visible lines wholesale.
	SetLines(s Surface, lines []string)
	// ApplyHighlight adds a named highlight over a column range.
	ApplyHighlight(s Surface, span HighlightSpan)
	// ClearHighlights removes every highlight from the surface.
	ClearHighlights(s Surface)

	// Cursor returns the cursor position within the surface, or ok=false
	// when the surface is not currently displayed.
	Cursor(s Surface) (CursorPos, bool)
	// SetCursor moves the cursor within the surface.
	SetCursor(s Surface, p CursorPos)

	// OpenFloat opens a floating panel showing content, anchored at the
	// given position of the anchor surface, with the given size in cells.
	OpenFloat(content Surface, anchor Surface, at CursorPos, width, height int) Window
	// MoveFloat repositions and resizes a floating panel.
	MoveFloat(w Window, at CursorPos, width, height int)
	// CloseWindow closes a window; the surface it shows survives.
	CloseWindow(w Window)
	// WindowValid reports whether the window handle is still live.
	WindowValid(w Window) bool

	// OnCursorMoved registers fn to run whenever the cursor moves within
	// the surface.
	OnCursorMoved(s Surface, fn func())
	// OnFocus registers fn to run whenever the surface gains focus.
	OnFocus(s Surface, fn func())
	// BindKey makes a key press in the surface invoke fn. Key names are
	// host-defined strings.
	BindKey(s Surface, key string, fn func())
}
