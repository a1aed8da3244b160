// Package leads maps the Airtable outreach base onto triage queues: police
// force opportunities to review and drafted emails to send.
package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/bluelight/internal/core/triage"
)

const (
	KindApprove triage.Kind = "approve"
	KindSkip    triage.Kind = "skip"
	KindArchive triage.Kind = "archive"
	KindSend    triage.Kind = "send"
	KindDismiss triage.Kind = "dismiss"
)

const (
	StatusNew       = "New"
	StatusDraft     = "Draft"
	StatusApproved  = "Approved"
	StatusSkipped   = "Skipped"
	StatusArchived  = "Archived"
	StatusSent      = "Sent"
	StatusDismissed = "Dismissed"
)

// Opportunity is an outreach lead for a single police force.
type Opportunity struct {
	ID           string    `json:"id"`
	Force        string    `json:"force"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Priority     string    `json:"priority"`
	Contact      string    `json:"contact"`
	ContactEmail string    `json:"contact_email"`
	Summary      string    `json:"summary"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o Opportunity) ItemID() string       { return o.ID }
func (o Opportunity) ItemCategory() string { return o.Category }

func (o Opportunity) SearchText() string {
	return strings.Join([]string{o.Force, o.Title, o.Category, o.Contact, o.Summary}, " ")
}

// Describe is the one-line form used in toasts.
func (o Opportunity) Describe() string {
	if o.Title == "" {
		return o.Force
	}
	return fmt.Sprintf("%s (%s)", o.Title, o.Force)
}

// Email is a drafted outreach email awaiting review.
type Email struct {
	ID       string `json:"id"`
	Force    string `json:"force"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func (e Email) ItemID() string       { return e.ID }
func (e Email) ItemCategory() string { return e.Category }

func (e Email) SearchText() string {
	return strings.Join([]string{e.Force, e.To, e.Subject, e.Category}, " ")
}

func (e Email) Describe() string {
	if e.Subject == "" {
		return "Email to " + e.To
	}
	return fmt.Sprintf("%q to %s", e.Subject, e.Force)
}

// OpportunityKinds are the actions available on the review queue.
func OpportunityKinds() []triage.KindSpec {
	return []triage.KindSpec{
		{Kind: KindApprove, Label: "Approved", Key: "a", Help: "approve"},
		{Kind: KindSkip, Label: "Skipped", Key: "s", Help: "skip"},
		{Kind: KindArchive, Label: "Archived", Key: "x", Help: "archive"},
	}
}

// EmailKinds are the actions available on the email queue.
func EmailKinds() []triage.KindSpec {
	return []triage.KindSpec{
		{Kind: KindSend, Label: "Sent", Key: "enter", Help: "send"},
		{Kind: KindSkip, Label: "Skipped", Key: "s", Help: "skip"},
		{Kind: KindDismiss, Label: "Dismissed", Key: "d", Help: "dismiss"},
	}
}

var opportunityStatus = map[triage.Kind]string{
	KindApprove: StatusApproved,
	KindSkip:    StatusSkipped,
	KindArchive: StatusArchived,
}

var emailStatus = map[triage.Kind]string{
	KindSend:    StatusSent,
	KindSkip:    StatusSkipped,
	KindDismiss: StatusDismissed,
}
