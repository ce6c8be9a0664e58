package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLabels(t *testing.T) {
	assert.Nil(t, GenerateLabels(0))

	few := GenerateLabels(3)
	assert.Equal(t, []string{"a", "s", "d"}, few)

	many := GenerateLabels(30)
	require.Len(t, many, 30)
	assert.Equal(t, "aa", many[0])
	assert.Equal(t, "as", many[1])
	seen := map[string]bool{}
	for _, l := range many {
		assert.False(t, seen[l], "label %q assigned twice", l)
		seen[l] = true
	}
}

func TestHintsEnumerateInTextOrder(t *testing.T) {
	host := NewMemHost()
	session := NewSession(host)
	surface := host.CreateSurface()

	root := NewElement("root", "")
	root.AddChild(NewElement("first", "one\n").SetHighlightable(true))
	root.AddChild(NewElement("plain", "skip\n"))
	root.AddChild(NewElement("second", "two").SetHighlightable(true))

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	hints := r.Hints()
	require.Len(t, hints, 2)
	assert.Equal(t, "a", hints[0].Label)
	assert.Equal(t, "first", hints[0].Target.Name())
	assert.Equal(t, 0, hints[0].Pos)
	assert.Equal(t, "s", hints[1].Label)
	assert.Equal(t, "second", hints[1].Target.Name())
	assert.Equal(t, len("one\nskip\n"), hints[1].Pos)
}

func TestFindHintAndPartials(t *testing.T) {
	hints := []Hint{{Label: "aa"}, {Label: "as"}, {Label: "d"}}

	h, ok := FindHint(hints, "as")
	require.True(t, ok)
	assert.Equal(t, "as", h.Label)

	_, ok = FindHint(hints, "x")
	assert.False(t, ok)

	assert.True(t, HasPartialHint(hints, "a"))
	assert.False(t, HasPartialHint(hints, "d"), "an exact label is not a partial")
	assert.False(t, HasPartialHint(hints, "z"))
}

func TestJumpToBeforeFirstRender(t *testing.T) {
	host := NewMemHost()
	session := NewSession(host)
	surface := host.CreateSurface()

	root := NewElement("root", "text")
	r := session.Attach(root, surface, AttachOptions{})

	// no render yet: the jump must not fault, and the cursor stays home
	r.JumpTo(Hint{Pos: 5})

	cur, ok := host.Cursor(surface)
	require.True(t, ok)
	assert.Equal(t, CursorPos{}, cur)
	assert.Nil(t, r.Path())
}

func TestJumpToMovesCursorAndPath(t *testing.T) {
	host := NewMemHost()
	session := NewSession(host)
	surface := host.CreateSurface()

	root := NewElement("root", "")
	root.AddChild(NewElement("first", "one\n").SetHighlightable(true))
	root.AddChild(NewElement("second", "two").SetHighlightable(true))

	entered := ""
	root.Children()[1].On(EventCursorEnter, func(...string) { entered = "second" })

	r := session.Attach(root, surface, AttachOptions{})
	r.Render()

	hints := r.Hints()
	target, ok := FindHint(hints, "s")
	require.True(t, ok)

	r.JumpTo(target)
	session.Flush()

	cur, ok := host.Cursor(surface)
	require.True(t, ok)
	assert.Equal(t, CursorPos{Line: 1, Col: 0}, cur)
	require.NotNil(t, r.Path())
	assert.Equal(t, "second", r.Path()[len(r.Path())-1].Name)
	assert.Equal(t, "second", entered)
}
