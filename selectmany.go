package trellis

import "fmt"

// Checkbox glyphs for SelectMany rows.
const (
	glyphSelected   = "[x]"
	glyphUnselected = "[ ]"
)

// SelectOptions configures SelectMany. All fields are optional.
type SelectOptions[T any] struct {
	// FormatItem renders a choice's label. Defaults to fmt.Sprintf("%v").
	FormatItem func(T) string
	// TooltipFor returns tooltip text for a choice; empty means none.
	TooltipFor func(T) string
	// StartSelected decides a choice's initial state, consulted once at
	// build time. Defaults to all selected.
	StartSelected func(T) bool
	// ToggleKey and ConfirmKey are host key names. Default "tab", "enter".
	ToggleKey  string
	ConfirmKey string
}

// SelectMany renders an interactive checklist of choices on the surface.
// The toggle key flips the hovered choice, the confirm key partitions the
// choices into selected and unselected (original order preserved within
// each) and invokes done. The cursor is clamped to the choice lines.
func SelectMany[T any](session *Session, surface Surface, choices []T, opts SelectOptions[T], done func(selected, unselected []T)) *Renderer {
	format := opts.FormatItem
	if format == nil {
		format = func(c T) string { return fmt.Sprintf("%v", c) }
	}
	toggleKey := opts.ToggleKey
	if toggleKey == "" {
		toggleKey = "tab"
	}
	confirmKey := opts.ConfirmKey
	if confirmKey == "" {
		confirmKey = "enter"
	}

	selected := make([]bool, len(choices))
	for i, c := range choices {
		if opts.StartSelected != nil {
			selected[i] = opts.StartSelected(c)
		} else {
			selected[i] = true
		}
	}

	rowText := func(i int) string {
		glyph := glyphUnselected
		if selected[i] {
			glyph = glyphSelected
		}
		return glyph + " " + format(choices[i]) + "\n"
	}

	var r *Renderer

	root := NewElement("select-many", "")
	root.On("confirm", func(...string) {
		var sel, unsel []T
		for i, c := range choices {
			if selected[i] {
				sel = append(sel, c)
			} else {
				unsel = append(unsel, c)
			}
		}
		done(sel, unsel)
	})

	for i := range choices {
		i := i
		row := NewElement("choice", rowText(i)).SetHighlightable(true)
		if opts.TooltipFor != nil {
			if tip := opts.TooltipFor(choices[i]); tip != "" {
				row.SetTooltip(NewElement("choice-tooltip", tip))
			}
		}
		row.On("toggle", func(...string) {
			selected[i] = !selected[i]
			row.SetText(rowText(i))
			r.Render()
		})
		root.AddChild(row)
	}

	r = session.Attach(root, surface, AttachOptions{Keys: map[string]string{
		toggleKey:  "toggle",
		confirmKey: "confirm",
	}})

	// keep the cursor on choice lines; the trailing newline of the last
	// row leaves a blank line the cursor must not rest on
	r.ClampCursor = func(c CursorPos) CursorPos {
		if len(choices) == 0 {
			return CursorPos{}
		}
		if c.Line >= len(choices) {
			c.Line = len(choices) - 1
		}
		if c.Line < 0 {
			c.Line = 0
		}
		return c
	}

	r.Render()
	r.UpdateCursor()
	return r
}
