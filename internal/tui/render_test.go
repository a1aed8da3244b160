package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/pkg/tuitest"
)

func TestOpportunityRenderer_Row(t *testing.T) {
	o := leads.Opportunity{Force: "Kent Police", Title: "Drone pilot", Category: "Procurement", Priority: "High"}

	row := tuitest.StripANSI(OpportunityRenderer{}.Row(o, 80))
	assert.Equal(t, "!! Kent Police · Drone pilot [Procurement]", row)

	short := tuitest.StripANSI(OpportunityRenderer{}.Row(o, 12))
	assert.LessOrEqual(t, len([]rune(short)), 12)
	assert.Contains(t, short, "…")
}

func TestOpportunityRenderer_Detail_skips_empty_fields(t *testing.T) {
	o := leads.Opportunity{Force: "Kent Police", Title: "Drone pilot", Contact: "Jo Bloggs", ContactEmail: "jo@kent.police.uk"}

	detail := tuitest.StripANSI(OpportunityRenderer{}.Detail(o, 60))

	assert.Contains(t, detail, "Jo Bloggs <jo@kent.police.uk>")
	assert.NotContains(t, detail, "Priority")
	assert.NotContains(t, detail, "Added")
}

func TestOpportunityRenderer_Detail_wraps_summary(t *testing.T) {
	o := leads.Opportunity{Force: "Kent Police", Title: "Drone pilot", Summary: "Force is tendering for a two year drone pilot programme"}

	detail := tuitest.StripANSI(OpportunityRenderer{}.Detail(o, 20))

	for _, line := range strings.Split(detail, "\n") {
		if strings.Contains(line, "drone") || strings.Contains(line, "programme") {
			assert.LessOrEqual(t, len(line), 20, "line %q", line)
		}
	}
	assert.Contains(t, detail, "programme")
}

func TestEmailRenderer_renders_markdown_body(t *testing.T) {
	r := NewEmailRenderer()
	e := leads.Email{ID: "rec1", Force: "Kent Police", To: "ops@kent.police.uk", Subject: "Intro", Body: "Hello **there**"}

	detail := tuitest.StripANSI(r.Detail(e, 60))

	assert.Contains(t, detail, "ops@kent.police.uk")
	assert.Contains(t, detail, "Hello there")
	assert.NotContains(t, detail, "**")
	assert.Len(t, r.cache, 1)

	r.Detail(e, 40)
	assert.Equal(t, 40, r.width, "a new width rebuilds the renderer")
	assert.Len(t, r.cache, 1)
}

func TestEmailRenderer_empty_body(t *testing.T) {
	detail := tuitest.StripANSI(NewEmailRenderer().Detail(leads.Email{Subject: "Hi"}, 40))
	assert.Contains(t, detail, "(empty body)")
}

func TestEmailRenderer_Row_without_subject(t *testing.T) {
	row := tuitest.StripANSI(NewEmailRenderer().Row(leads.Email{Force: "Kent Police"}, 80))
	assert.Equal(t, "Kent Police · (no subject)", row)
}
