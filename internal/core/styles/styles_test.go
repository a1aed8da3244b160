package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(DefaultTheme) })

	assert.True(t, SetTheme("gruvbox"))
	assert.Equal(t, themes["gruvbox"], Current)

	assert.False(t, SetTheme("no-such-theme"))
	assert.Equal(t, themes[DefaultTheme], Current)
}

func TestThemeNames_sorted(t *testing.T) {
	names := ThemeNames()

	assert.Contains(t, names, DefaultTheme)
	assert.IsNonDecreasing(t, names)
}

func TestGlamourStyle_uses_palette(t *testing.T) {
	t.Cleanup(func() { SetTheme(DefaultTheme) })
	SetTheme("catppuccin")

	cfg := GlamourStyle()

	if assert.NotNil(t, cfg.Heading.Color) {
		assert.Equal(t, "#89b4fa", *cfg.Heading.Color)
	}
}
