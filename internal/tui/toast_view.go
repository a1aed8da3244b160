package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/bluelight/internal/core/styles"
	"github.com/hay-kot/bluelight/internal/core/toast"
)

const (
	toastWidth        = 48
	toastTickInterval = 100 * time.Millisecond
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the toast stack. Undo toasts carry a countdown bar
// computed from their deadline on every frame.
type ToastView struct {
	toasts *toast.Manager
	bar    progress.Model
}

func NewToastView(toasts *toast.Manager) *ToastView {
	return &ToastView{
		toasts: toasts,
		bar: progress.New(
			progress.WithSolidFill(string(styles.Current.Warning)),
			progress.WithoutPercentage(),
			progress.WithWidth(toastWidth-4),
		),
	}
}

// View renders the toasts stacked vertically, oldest at top.
func (v *ToastView) View() string {
	list := v.toasts.List()
	if len(list) == 0 {
		return ""
	}

	now := v.toasts.Now()
	rendered := make([]string, 0, len(list))
	for _, t := range list {
		rendered = append(rendered, v.render(t, now))
	}
	return strings.Join(rendered, "\n")
}

func (v *ToastView) render(t toast.Toast, now time.Time) string {
	var icon string
	var style lipgloss.Style

	switch t.Kind {
	case toast.KindSuccess:
		icon, style = styles.IconSuccess, styles.ToastSuccessStyle
	case toast.KindError:
		icon, style = styles.IconError, styles.ToastErrorStyle
	case toast.KindUndo:
		icon, style = styles.IconUndo, styles.ToastUndoStyle
	default:
		icon, style = styles.IconInfo, styles.ToastInfoStyle
	}

	lines := []string{icon + " " + t.Title}
	if t.Description != "" {
		lines = append(lines, styles.MutedStyle.Render(t.Description))
	}

	if t.Kind == toast.KindUndo {
		secs := int(math.Ceil(t.Remaining(now).Seconds()))
		hint := fmt.Sprintf("%ds", secs)
		if t.Action != nil && t.Action.Label != "" {
			hint = fmt.Sprintf("u %s · %s", strings.ToLower(t.Action.Label), hint)
		}
		lines = append(lines, v.bar.ViewAs(t.Progress(now)), styles.MutedStyle.Render(hint))
	}

	return style.Width(toastWidth).Render(strings.Join(lines, "\n"))
}
