package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hay-kot/bluelight/internal/core/styles"
	"github.com/hay-kot/bluelight/internal/leads"
)

// Renderer draws the items of one queue.
type Renderer[T any] interface {
	// Row renders the single-line list entry for it.
	Row(it T, width int) string
	// Detail renders the detail pane for the current item.
	Detail(it T, width int) string
}

// OpportunityRenderer draws review queue items.
type OpportunityRenderer struct{}

func (OpportunityRenderer) Row(o leads.Opportunity, width int) string {
	var b strings.Builder
	if o.Priority != "" {
		b.WriteString(styles.PriorityStyle.Render(priorityBadge(o.Priority)))
		b.WriteString(" ")
	}
	b.WriteString(o.Force)
	if o.Title != "" {
		b.WriteString(styles.MutedStyle.Render(" · "))
		b.WriteString(o.Title)
	}
	if o.Category != "" {
		b.WriteString(" ")
		b.WriteString(styles.CategoryStyle.Render("[" + o.Category + "]"))
	}
	return ansi.Truncate(b.String(), width, "…")
}

func (OpportunityRenderer) Detail(o leads.Opportunity, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(o.Title))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(o.Force))
	b.WriteString("\n\n")

	fields := [][2]string{
		{"Category", o.Category},
		{"Priority", o.Priority},
		{"Contact", contactLine(o.Contact, o.ContactEmail)},
	}
	if !o.CreatedAt.IsZero() {
		fields = append(fields, [2]string{"Added", o.CreatedAt.Format("02 Jan 2006")})
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		b.WriteString(styles.DetailLabelStyle.Render(f[0]))
		b.WriteString(f[1])
		b.WriteString("\n")
	}

	if o.Summary != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(o.Summary, max(width, 10)))
	}
	return b.String()
}

// EmailRenderer draws email queue items. The body is rendered as markdown.
type EmailRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func NewEmailRenderer() *EmailRenderer {
	return &EmailRenderer{cache: make(map[string]string)}
}

func (r *EmailRenderer) Row(e leads.Email, width int) string {
	var b strings.Builder
	b.WriteString(e.Force)
	b.WriteString(styles.MutedStyle.Render(" · "))
	if e.Subject != "" {
		b.WriteString(e.Subject)
	} else {
		b.WriteString(styles.MutedStyle.Render("(no subject)"))
	}
	return ansi.Truncate(b.String(), width, "…")
}

func (r *EmailRenderer) Detail(e leads.Email, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(e.Subject))
	b.WriteString("\n")
	b.WriteString(styles.DetailLabelStyle.Render("To"))
	b.WriteString(e.To)
	b.WriteString("\n")
	b.WriteString(styles.DetailLabelStyle.Render("Force"))
	b.WriteString(e.Force)
	b.WriteString("\n\n")
	b.WriteString(r.body(e, width))
	return b.String()
}

func (r *EmailRenderer) body(e leads.Email, width int) string {
	if strings.TrimSpace(e.Body) == "" {
		return styles.MutedStyle.Render("(empty body)")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if width != r.width || r.renderer == nil {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(max(width, 20)),
		)
		if err != nil {
			return e.Body
		}
		r.renderer, r.width = tr, width
		clear(r.cache)
	}

	if out, ok := r.cache[e.ID]; ok {
		return out
	}
	out, err := r.renderer.Render(e.Body)
	if err != nil {
		return e.Body
	}
	out = strings.Trim(out, "\n")
	r.cache[e.ID] = out
	return out
}

func priorityBadge(p string) string {
	switch strings.ToLower(p) {
	case "high", "urgent":
		return "!!"
	case "medium":
		return "! "
	default:
		return "  "
	}
}

func contactLine(name, email string) string {
	switch {
	case name == "":
		return email
	case email == "":
		return name
	default:
		return fmt.Sprintf("%s <%s>", name, email)
	}
}
