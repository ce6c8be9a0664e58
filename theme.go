package trellis

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme maps highlight group names to terminal styles. Groups the theme
// does not know render unstyled rather than failing.
type Theme struct {
	styles map[string]lipgloss.Style
}

// NewTheme creates an empty theme.
func NewTheme() *Theme {
	return &Theme{styles: map[string]lipgloss.Style{}}
}

// DefaultTheme covers the groups the framework itself emits plus a small
// set of general-purpose names.
func DefaultTheme() *Theme {
	t := NewTheme()
	t.Set(HoverGroup, lipgloss.NewStyle().Reverse(true))
	t.Set("cursor", lipgloss.NewStyle().Reverse(true).Bold(true))
	t.Set("title", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")))
	t.Set("muted", lipgloss.NewStyle().Faint(true))
	t.Set("accent", lipgloss.NewStyle().Foreground(lipgloss.Color("12")))
	t.Set("error", lipgloss.NewStyle().Foreground(lipgloss.Color("9")))
	t.Set("sep", lipgloss.NewStyle().Faint(true))
	return t
}

// Set assigns the style rendered for a group.
func (t *Theme) Set(group string, style lipgloss.Style) *Theme {
	t.styles[group] = style
	return t
}

// Style returns the style for a group; unknown groups get the zero style.
func (t *Theme) Style(group string) lipgloss.Style {
	if st, ok := t.styles[group]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// Has reports whether the theme defines the group.
func (t *Theme) Has(group string) bool {
	_, ok := t.styles[group]
	return ok
}

// themeFile is the on-disk theme format:
//
//	groups:
//	  hover: {reverse: true}
//	  title: {fg: "14", bold: true}
type themeFile struct {
	Groups map[string]themeEntry `yaml:"groups"`
}

type themeEntry struct {
	FG        string `yaml:"fg"`
	BG        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Faint     bool   `yaml:"faint"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
	Reverse   bool   `yaml:"reverse"`
}

// LoadTheme parses a YAML theme. Loaded groups are layered over the
// defaults, so a theme file only has to name what it changes.
func LoadTheme(r io.Reader) (*Theme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	t := DefaultTheme()
	for group, entry := range tf.Groups {
		st := lipgloss.NewStyle()
		if entry.FG != "" {
			st = st.Foreground(lipgloss.Color(entry.FG))
		}
		if entry.BG != "" {
			st = st.Background(lipgloss.Color(entry.BG))
		}
		if entry.Bold {
			st = st.Bold(true)
		}
		if entry.Faint {
			st = st.Faint(true)
		}
		if entry.Italic {
			st = st.Italic(true)
		}
		if entry.Underline {
			st = st.Underline(true)
		}
		if entry.Reverse {
			st = st.Reverse(true)
		}
		t.Set(group, st)
	}
	return t, nil
}

// LoadThemeFile loads a YAML theme from disk.
func LoadThemeFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open theme: %w", err)
	}
	defer f.Close()
	return LoadTheme(f)
}
