// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconInfo    = "•"
	IconUndo    = "↶"
	IconCursor  = "▸"
)

// Current holds the active theme palette.
var Current Palette

var (
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	MutedStyle    lipgloss.Style
	HelpStyle     lipgloss.Style
	DividerStyle  lipgloss.Style

	ItemStyle         lipgloss.Style
	ItemSelectedStyle lipgloss.Style
	CategoryStyle     lipgloss.Style
	PriorityStyle     lipgloss.Style
	DetailPaneStyle   lipgloss.Style
	DetailLabelStyle  lipgloss.Style
	FilterPromptStyle lipgloss.Style
	StatsStyle        lipgloss.Style

	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastUndoStyle    lipgloss.Style

	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
)

// SetTheme activates the named theme, falling back to the default for
// unknown names. It returns false on fallback.
func SetTheme(name string) bool {
	p, ok := themes[name]
	if !ok {
		p = themes[DefaultTheme]
	}
	apply(p)
	return ok
}

func apply(p Palette) {
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Surface)

	ItemStyle = lipgloss.NewStyle().Foreground(p.Foreground).PaddingLeft(2)
	ItemSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Primary).
		PaddingLeft(1)
	CategoryStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	PriorityStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	DetailPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	DetailLabelStyle = lipgloss.NewStyle().Foreground(p.Muted).Width(10)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(p.Primary)
	StatsStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastSuccessStyle = toast.BorderForeground(p.Success)
	ToastErrorStyle = toast.BorderForeground(p.Error)
	ToastInfoStyle = toast.BorderForeground(p.Primary)
	ToastUndoStyle = toast.BorderForeground(p.Warning)

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	apply(themes[DefaultTheme])
}

func hex(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := hex(Current.Foreground)
	primary := hex(Current.Primary)
	secondary := hex(Current.Secondary)
	muted := hex(Current.Muted)

	cfg.Document.Color = fg
	cfg.Document.Margin = nil
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = hex(Current.Surface)
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
