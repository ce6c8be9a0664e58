package trellis

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThemeCoversFrameworkGroups(t *testing.T) {
	theme := DefaultTheme()
	for _, group := range []string{HoverGroup, "cursor", "title", "muted", "accent", "error", "sep"} {
		assert.True(t, theme.Has(group), "missing group %q", group)
	}
	assert.False(t, theme.Has("nope"))
}

func TestThemeUnknownGroupIsZeroStyle(t *testing.T) {
	theme := NewTheme()
	st := theme.Style("anything")
	assert.Equal(t, "text", st.Render("text"))
}

func TestLoadThemeLayersOverDefaults(t *testing.T) {
	src := `groups:
  title: {fg: "99", underline: true}
  custom: {bold: true, bg: "236"}
`
	theme, err := LoadTheme(strings.NewReader(src))
	require.NoError(t, err)

	// overridden group replaces the default
	assert.Equal(t, lipgloss.Color("99"), theme.Style("title").GetForeground())
	assert.True(t, theme.Style("title").GetUnderline())
	assert.False(t, theme.Style("title").GetBold(), "default title style is replaced, not merged")

	// new group added
	require.True(t, theme.Has("custom"))
	assert.True(t, theme.Style("custom").GetBold())

	// untouched defaults survive
	assert.True(t, theme.Has(HoverGroup))
	assert.True(t, theme.Style(HoverGroup).GetReverse())
}

func TestLoadThemeRejectsBadYAML(t *testing.T) {
	_, err := LoadTheme(strings.NewReader("groups: [not, a, map]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse theme")
}

func TestLoadThemeFileMissing(t *testing.T) {
	_, err := LoadThemeFile("/nonexistent/theme.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open theme")
}
