package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hoverTree builds the renderer fixture:
//
//	root ""
//	├── svc "gateway\n"  highlightable, tooltip "edge proxy"
//	└── txt "plain"
//
// Lines: ["gateway", "plain"]
func hoverTree() (root, svc, txt *Element) {
	root = NewElement("root", "")
	svc = root.AddChild(NewElement("svc", "gateway\n").SetHighlightable(true))
	svc.SetTooltip(NewElement("tip", "edge proxy"))
	txt = root.AddChild(NewElement("txt", "plain"))
	return
}

func newFixture(t *testing.T) (*MemHost, *Session, Surface) {
	t.Helper()
	host := NewMemHost()
	session := NewSession(host)
	return host, session, host.CreateSurface()
}

func TestRenderPushesLinesAndHighlights(t *testing.T) {
	host, session, surface := newFixture(t)
	root := NewElement("root", "")
	root.AddChild(NewElement("title", "Status\n").Styled(Fixed("title")))
	root.AddChild(NewElement("body", "ok"))

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	assert.True(t, host.Scratch(surface), "attach marks the surface scratch")
	assert.Equal(t, []string{"Status", "ok"}, host.Lines(surface))

	hls := host.Highlights(surface)
	require.Len(t, hls, 1)
	assert.Equal(t, HighlightSpan{Group: "title", Line: 0, StartCol: 0, EndCol: 6}, hls[0])
}

func TestMultiLineHighlightSplits(t *testing.T) {
	host, session, surface := newFixture(t)
	root := NewElement("root", "")
	root.AddChild(NewElement("block", "one\ntwo\n").Styled(Fixed("accent")))

	session.Attach(root, surface, AttachOptions{}).Render()

	hls := host.Highlights(surface)
	require.Len(t, hls, 2, "a multi-line range becomes one span per line")
	assert.Equal(t, HighlightSpan{Group: "accent", Line: 0, StartCol: 0, EndCol: 3}, hls[0])
	assert.Equal(t, HighlightSpan{Group: "accent", Line: 1, StartCol: 0, EndCol: 3}, hls[1])
}

func TestCursorEnterLeaveEvents(t *testing.T) {
	host, session, surface := newFixture(t)
	root, svc, txt := hoverTree()

	var events []string
	svc.On(EventCursorEnter, func(...string) { events = append(events, "enter svc") })
	svc.On(EventCursorLeave, func(...string) { events = append(events, "leave svc") })
	txt.On(EventCursorEnter, func(...string) { events = append(events, "enter txt") })

	session.Attach(root, surface, AttachOptions{}).Render()

	host.MoveCursor(surface, CursorPos{Line: 0, Col: 2})
	session.Flush()
	assert.Equal(t, []string{"enter svc"}, events)

	// movement within the same node is not a logical move
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 5})
	session.Flush()
	assert.Equal(t, []string{"enter svc"}, events)

	host.MoveCursor(surface, CursorPos{Line: 1, Col: 0})
	session.Flush()
	assert.Equal(t, []string{"enter svc", "leave svc", "enter txt"}, events)
}

func TestHoverHighlight(t *testing.T) {
	host, session, surface := newFixture(t)
	root, svc, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	host.MoveCursor(surface, CursorPos{Line: 0, Col: 3})
	start, end, ok := r.HoverRange()
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, svc.Size(), end)

	found := false
	for _, sp := range host.Highlights(surface) {
		if sp.Group == HoverGroup {
			found = true
		}
	}
	assert.True(t, found, "hover range is applied to the surface")

	host.MoveCursor(surface, CursorPos{Line: 1, Col: 0})
	_, _, ok = r.HoverRange()
	assert.False(t, ok, "hover clears off highlightable nodes")
}

func TestTooltipLifecycle(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	// hover onto the tooltip owner opens exactly one tooltip renderer
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 1})
	tip := r.TooltipRenderer()
	require.NotNil(t, tip)
	assert.Same(t, r, tip.Parent())
	assert.Equal(t, []string{"edge proxy"}, host.Lines(tip.Surface()))

	w, ok := host.FloatShowing(tip.Surface())
	require.True(t, ok)
	at, width, height, ok := host.FloatGeometry(w)
	require.True(t, ok)
	assert.Equal(t, CursorPos{Line: 0, Col: 0}, at, "anchored at the owner's start")
	assert.Equal(t, len("edge proxy"), width)
	assert.Equal(t, 1, height)

	firstSurface := tip.Surface()

	// hovering elsewhere on the same node keeps the float untouched
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 5})
	assert.Same(t, tip, r.TooltipRenderer())
	assert.Equal(t, 0, host.FloatMoves(w), "unchanged geometry skips host calls")

	// moving off closes the tooltip renderer
	host.MoveCursor(surface, CursorPos{Line: 1, Col: 0})
	assert.Nil(t, r.TooltipRenderer())
	assert.True(t, tip.Closed())
	_, ok = host.FloatShowing(firstSurface)
	assert.False(t, ok)

	// re-hovering reuses the same surface identity
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 0})
	tip2 := r.TooltipRenderer()
	require.NotNil(t, tip2)
	assert.Equal(t, firstSurface, tip2.Surface(), "parked surface is recycled")
}

func TestTooltipChainBubbling(t *testing.T) {
	host, session, surface := newFixture(t)
	root, svc, _ := hoverTree()

	var got []string
	svc.On("restart", func(args ...string) { got = append(got, args...) })

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 1})
	session.Flush()

	tip := r.TooltipRenderer()
	require.NotNil(t, tip)
	host.MoveCursor(tip.Surface(), CursorPos{Line: 0, Col: 2})

	// the tooltip tree has no handler; the event bubbles to the parent at
	// the anchor path and lands on svc
	handled := tip.Event("restart", "now")
	require.True(t, handled)
	session.Flush()
	assert.Equal(t, []string{"now"}, got)

	// nothing anywhere handles this: each renderer is tried exactly once
	assert.False(t, tip.Event("no_such_event"))
	assert.False(t, r.Event("no_such_event"))
}

func TestNestedTooltips(t *testing.T) {
	host, session, surface := newFixture(t)

	inner := NewElement("inner-tip", "deepest")
	mid := NewElement("mid-tip", "")
	mid.AddChild(NewElement("mid-label", "middle").SetHighlightable(true)).SetTooltip(inner)

	root := NewElement("root", "")
	root.AddChild(NewElement("owner", "hover me").SetHighlightable(true)).SetTooltip(mid)

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	host.MoveCursor(surface, CursorPos{Line: 0, Col: 0})
	tip := r.TooltipRenderer()
	require.NotNil(t, tip)

	host.MoveCursor(tip.Surface(), CursorPos{Line: 0, Col: 1})
	tiptip := tip.TooltipRenderer()
	require.NotNil(t, tiptip, "tooltips can own tooltips")
	assert.Equal(t, []string{"deepest"}, host.Lines(tiptip.Surface()))

	// closing the root closes the whole chain
	r.Close()
	assert.True(t, tip.Closed())
	assert.True(t, tiptip.Closed())
}

func TestTooltipClosedWhenAnchorUnresolvable(t *testing.T) {
	host, session, surface := newFixture(t)

	root := NewElement("root", "")
	pad := root.AddChild(NewElement("pad", "one\n"))
	owner := root.AddChild(NewElement("owner", "two").SetHighlightable(true))
	owner.SetTooltip(NewElement("tip", "info"))

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	host.MoveCursor(surface, CursorPos{Line: 1, Col: 0})
	require.NotNil(t, r.TooltipRenderer())

	// stale sibling sizes leave the owner structurally reachable but its
	// anchor position uncomputable
	pad.SetText("1\n")
	ownerPath := Path{{Index: 0, Name: "root", Offset: -1}, {Index: 1, Name: "owner", Offset: -1}}
	r.openTooltip(owner, ownerPath)
	assert.Nil(t, r.TooltipRenderer(), "an unresolvable anchor closes the tooltip")

	// opening from scratch bails out the same way instead of leaving a
	// windowless renderer attached
	r.openTooltip(owner, ownerPath)
	assert.Nil(t, r.TooltipRenderer())
}

func TestCursorRestoredAcrossRender(t *testing.T) {
	host, session, surface := newFixture(t)
	root, svc, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	host.MoveCursor(surface, CursorPos{Line: 1, Col: 2})
	require.NotNil(t, r.Path())

	// grow the first line; the path still resolves, so the cursor follows
	svc.SetText("gateway-v2\n")
	r.Render()

	cur, ok := host.Cursor(surface)
	require.True(t, ok)
	assert.Equal(t, CursorPos{Line: 1, Col: 2}, cur, "cursor tracks the node, not the raw offset")
}

func TestStalePathDroppedOnRender(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 1})
	require.NotNil(t, r.Path())

	// replacing the tree invalidates captured paths: renderers attached to
	// the same surface swap trees via Attach
	other := NewElement("other", "different")
	r2 := session.Attach(other, surface, AttachOptions{})
	r2.Render()
	assert.Nil(t, r2.Path())
	assert.True(t, r.Closed(), "replaced renderer is closed")
}

func TestAttachReplacementAdoptsTooltip(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 1})
	tip := r.TooltipRenderer()
	require.NotNil(t, tip)

	r2 := session.Attach(root, surface, AttachOptions{})
	assert.True(t, r.Closed())
	assert.False(t, tip.Closed(), "tooltip survives the swap")
	assert.Same(t, tip, r2.TooltipRenderer())
	assert.Same(t, r2, tip.Parent())
}

func TestCloseIsIdempotentAndRecursive(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 1})
	tip := r.TooltipRenderer()
	require.NotNil(t, tip)
	tipSurface := tip.Surface()

	r.Close()
	assert.True(t, r.Closed())
	assert.True(t, tip.Closed())
	assert.False(t, host.SurfaceValid(surface))
	assert.False(t, host.SurfaceValid(tipSurface))
	assert.Nil(t, session.Renderer(surface))

	r.Close() // second close is a no-op
	assert.True(t, r.Closed())

	// no further notifications reach a closed renderer
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 0})
	assert.Nil(t, r.Path())
}

func TestKeyBindingsDispatchEvents(t *testing.T) {
	host, session, surface := newFixture(t)
	root, svc, _ := hoverTree()

	fired := false
	svc.On("restart", func(...string) { fired = true })

	r := session.Attach(root, surface, AttachOptions{Keys: map[string]string{"r": "restart"}})
	r.Render()
	host.MoveCursor(surface, CursorPos{Line: 0, Col: 0})

	require.True(t, host.PressKey(surface, "r"))
	session.Flush()
	assert.True(t, fired)

	assert.False(t, host.PressKey(surface, "z"), "unbound keys are not consumed")
}

func TestSessionPrune(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	// the host reports the surface destroyed out from under us
	host.DestroySurface(surface)
	session.Prune()
	assert.Nil(t, session.Renderer(surface))
	assert.True(t, r.Closed())
}

func TestSessionClose(t *testing.T) {
	host, session, _ := newFixture(t)
	s1 := host.CreateSurface()
	s2 := host.CreateSurface()
	r1 := session.Attach(NewElement("a", "x"), s1, AttachOptions{})
	r2 := session.Attach(NewElement("b", "y"), s2, AttachOptions{})

	session.Close()
	assert.True(t, r1.Closed())
	assert.True(t, r2.Closed())
	assert.Nil(t, session.Renderer(s1))
	assert.Nil(t, session.Renderer(s2))
}

func TestOperationsOnDeadSurfaceAreNoOps(t *testing.T) {
	host, session, surface := newFixture(t)
	root, _, _ := hoverTree()
	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	host.DestroySurface(surface)

	// none of these may panic or fault
	r.Render()
	r.UpdateCursor()
	r.Close()
	assert.True(t, r.Closed())
}
