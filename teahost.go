package trellis

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TeaHost is a Host for real terminals: MemHost does the surface
// bookkeeping, TeaHost composites a root surface and any floating panels
// anchored to it into a frame styled through a Theme, inside a bubbletea
// program.
type TeaHost struct {
	*MemHost
	theme *Theme
}

// NewTeaHost creates a terminal host rendering through the given theme.
// A nil theme means DefaultTheme.
func NewTeaHost(theme *Theme) *TeaHost {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &TeaHost{MemHost: NewMemHost(), theme: theme}
}

// Theme returns the host's theme.
func (h *TeaHost) Theme() *Theme { return h.theme }

// cell is one screen cell: a rune plus the highlight group styling it.
type cell struct {
	r     rune
	group string
}

// View composites the root surface, its cursor, and every float anchored
// to it into a width x height frame.
func (h *TeaHost) View(root Surface, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	h.paintSurface(grid, root, 0, 0)

	if cur, ok := h.Cursor(root); ok {
		if col := h.runeCol(root, cur); cur.Line < height && col < width {
			grid[cur.Line][col].group = "cursor"
		}
	}

	// floats draw below their anchor position, on top of the root
	for _, win := range h.windows {
		if win.anchor != root {
			continue
		}
		h.paintSurface(grid, win.content, win.at.Line+1, win.at.Col)
	}

	return renderGrid(grid, h.theme)
}

// paintSurface writes a surface's lines and highlight groups into the grid
// at the given origin, clipping at the grid edges.
func (h *TeaHost) paintSurface(grid [][]cell, s Surface, originY, originX int) {
	sf := h.surfaces[s]
	if sf == nil {
		return
	}
	for i, line := range sf.lines {
		y := originY + i
		if y < 0 || y >= len(grid) {
			continue
		}
		x := originX
		byteCol := 0
		for _, r := range line {
			if x >= 0 && x < len(grid[y]) {
				grid[y][x] = cell{r: r, group: groupAt(sf.highlights, i, byteCol)}
			}
			w := runewidth.RuneWidth(r)
			if w < 1 {
				w = 1
			}
			// wide runes own their spillover column
			for k := 1; k < w && x+k < len(grid[y]) && x+k >= 0; k++ {
				grid[y][x+k] = cell{r: 0, group: groupAt(sf.highlights, i, byteCol)}
			}
			x += w
			byteCol += len(string(r))
		}
	}
}

// groupAt returns the group of the last span covering the byte column;
// later spans win, which puts hover on top of style highlights.
func groupAt(spans []HighlightSpan, line, byteCol int) string {
	group := ""
	for _, sp := range spans {
		if sp.Line == line && byteCol >= sp.StartCol && byteCol < sp.EndCol {
			group = sp.Group
		}
	}
	return group
}

// runeCol converts the cursor's byte column into a screen column.
func (h *TeaHost) runeCol(s Surface, cur CursorPos) int {
	sf := h.surfaces[s]
	if sf == nil || cur.Line >= len(sf.lines) {
		return cur.Col
	}
	line := sf.lines[cur.Line]
	col := 0
	byteCol := 0
	for _, r := range line {
		if byteCol >= cur.Col {
			break
		}
		col += runewidth.RuneWidth(r)
		byteCol += len(string(r))
	}
	return col
}

// renderGrid turns the cell grid into a styled frame, batching runs of
// cells that share a group into single lipgloss renders.
func renderGrid(grid [][]cell, theme *Theme) string {
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		flush := func(group string) {
			if run.Len() == 0 {
				return
			}
			if group == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(theme.Style(group).Render(run.String()))
			}
			run.Reset()
		}
		group := ""
		for x, c := range row {
			if x > 0 && c.group != group {
				flush(group)
			}
			group = c.group
			if c.r != 0 {
				run.WriteRune(c.r)
			}
		}
		flush(group)
	}
	return b.String()
}

// TeaModel is a ready-made bubbletea model that drives a session on a
// TeaHost: arrow keys and h/j/k/l move the cursor on the root surface
// (firing cursor hooks), every other key is offered to the surface's key
// bindings, and queued event handlers run after each message.
type TeaModel struct {
	host    *TeaHost
	session *Session
	root    Surface
	width   int
	height  int
	keys    teaKeyMap
	// Footer is an optional help line rendered under the frame.
	Footer string
}

type teaKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

func defaultTeaKeyMap() teaKeyMap {
	return teaKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l", "right")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// NewTeaModel wires a session's root surface into a bubbletea model.
func NewTeaModel(host *TeaHost, session *Session, root Surface) *TeaModel {
	return &TeaModel{
		host:    host,
		session: session,
		root:    root,
		width:   80,
		height:  24,
		keys:    defaultTeaKeyMap(),
	}
}

// Init implements tea.Model.
func (m *TeaModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1, 0)
		case key.Matches(msg, m.keys.Left):
			m.moveCursor(0, -1)
		case key.Matches(msg, m.keys.Right):
			m.moveCursor(0, 1)
		default:
			m.host.PressKey(m.root, msg.String())
		}
		m.session.Flush()
	}
	return m, nil
}

func (m *TeaModel) moveCursor(dl, dc int) {
	cur, ok := m.host.Cursor(m.root)
	if !ok {
		return
	}
	m.host.MoveCursor(m.root, CursorPos{Line: cur.Line + dl, Col: cur.Col + dc})
}

// View implements tea.Model.
func (m *TeaModel) View() string {
	height := m.height
	if m.Footer != "" {
		height--
	}
	frame := m.host.View(m.root, m.width, height)
	if m.Footer != "" {
		frame += "\n" + lipgloss.NewStyle().Faint(true).Render(m.Footer)
	}
	return frame
}
