package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/webhook"
)

const (
	EventOpportunityApproved = "opportunity_approved"
	EventSendEmail           = "send_email"
)

var (
	_ triage.Executor[Opportunity] = (*OpportunityExecutor)(nil)
	_ triage.Executor[Email]       = (*EmailExecutor)(nil)
)

// Poster delivers webhook events.
type Poster interface {
	Post(ctx context.Context, url string, payload webhook.Event) error
}

// Webhooks holds the Make.com webhook URLs. Empty URLs are skipped.
type Webhooks struct {
	OpportunityApproved string
	SendEmail           string
}

// OpportunityExecutor commits review decisions to Airtable.
type OpportunityExecutor struct {
	backend Backend
	hooks   Poster
	table   string
	url     string
	now     func() time.Time
}

func NewOpportunityExecutor(backend Backend, hooks Poster, tables Tables, urls Webhooks) *OpportunityExecutor {
	return &OpportunityExecutor{
		backend: backend,
		hooks:   hooks,
		table:   tables.Opportunities,
		url:     urls.OpportunityApproved,
		now:     time.Now,
	}
}

func (e *OpportunityExecutor) Commit(ctx context.Context, kind triage.Kind, o Opportunity) error {
	status, ok := opportunityStatus[kind]
	if !ok {
		return fmt.Errorf("unsupported opportunity action %q", kind)
	}
	return updateStatus(ctx, e.backend, e.table, o.ID, status, e.now())
}

// Notify tells Make.com about approvals so the outreach scenario can draft
// the first email.
func (e *OpportunityExecutor) Notify(ctx context.Context, kind triage.Kind, o Opportunity) error {
	if kind != KindApprove {
		return nil
	}
	return e.hooks.Post(ctx, e.url, webhook.Event{
		Event:    EventOpportunityApproved,
		RecordID: o.ID,
		Data: map[string]any{
			"force":         o.Force,
			"title":         o.Title,
			"category":      o.Category,
			"contact":       o.Contact,
			"contact_email": o.ContactEmail,
		},
	})
}

// EmailExecutor commits email decisions. Sending is done by Make.com after
// the record is marked Sent.
type EmailExecutor struct {
	backend Backend
	hooks   Poster
	table   string
	url     string
	now     func() time.Time
}

func NewEmailExecutor(backend Backend, hooks Poster, tables Tables, urls Webhooks) *EmailExecutor {
	return &EmailExecutor{
		backend: backend,
		hooks:   hooks,
		table:   tables.Emails,
		url:     urls.SendEmail,
		now:     time.Now,
	}
}

func (e *EmailExecutor) Commit(ctx context.Context, kind triage.Kind, m Email) error {
	status, ok := emailStatus[kind]
	if !ok {
		return fmt.Errorf("unsupported email action %q", kind)
	}
	return updateStatus(ctx, e.backend, e.table, m.ID, status, e.now())
}

func (e *EmailExecutor) Notify(ctx context.Context, kind triage.Kind, m Email) error {
	if kind != KindSend {
		return nil
	}
	return e.hooks.Post(ctx, e.url, webhook.Event{
		Event:    EventSendEmail,
		RecordID: m.ID,
		Data: map[string]any{
			"to":      m.To,
			"subject": m.Subject,
			"body":    m.Body,
			"force":   m.Force,
		},
	})
}

func updateStatus(ctx context.Context, b Backend, table, id, status string, at time.Time) error {
	_, err := b.Update(ctx, table, id, map[string]any{
		fieldStatus:     status,
		fieldReviewedAt: at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("set %s to %s: %w", id, status, err)
	}
	return nil
}
