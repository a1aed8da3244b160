package leads

import (
	"context"
	"fmt"

	"github.com/hay-kot/bluelight/internal/airtable"
)

// Backend is the Airtable surface the repository and executors use.
type Backend interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
	Update(ctx context.Context, table, id string, fields map[string]any) (airtable.Record, error)
	Invalidate()
}

// Tables names the Airtable tables holding each queue.
type Tables struct {
	Opportunities string
	Emails        string
}

// Airtable column names.
const (
	fieldForce        = "Force"
	fieldTitle        = "Title"
	fieldCategory     = "Category"
	fieldPriority     = "Priority"
	fieldContact      = "Contact Name"
	fieldContactEmail = "Contact Email"
	fieldSummary      = "Summary"
	fieldStatus       = "Status"
	fieldTo           = "To"
	fieldSubject      = "Subject"
	fieldBody         = "Body"
	fieldReviewedAt   = "Reviewed At"
)

// Repository loads the pending items of each queue.
type Repository struct {
	backend Backend
	tables  Tables
}

func NewRepository(backend Backend, tables Tables) *Repository {
	return &Repository{backend: backend, tables: tables}
}

// Opportunities returns opportunities still awaiting review, highest
// priority first.
func (r *Repository) Opportunities(ctx context.Context) ([]Opportunity, error) {
	recs, err := r.backend.List(ctx, r.tables.Opportunities, airtable.ListOptions{
		Formula: statusFormula(StatusNew),
		Sort: []airtable.Sort{
			{Field: fieldPriority, Direction: "asc"},
			{Field: fieldForce, Direction: "asc"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load opportunities: %w", err)
	}

	out := make([]Opportunity, 0, len(recs))
	for _, rec := range recs {
		out = append(out, opportunityFromRecord(rec))
	}
	return out, nil
}

// Emails returns drafted emails awaiting review.
func (r *Repository) Emails(ctx context.Context) ([]Email, error) {
	recs, err := r.backend.List(ctx, r.tables.Emails, airtable.ListOptions{
		Formula: statusFormula(StatusDraft),
		Sort:    []airtable.Sort{{Field: fieldForce, Direction: "asc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("load emails: %w", err)
	}

	out := make([]Email, 0, len(recs))
	for _, rec := range recs {
		out = append(out, emailFromRecord(rec))
	}
	return out, nil
}

// Refresh drops cached listings so the next load hits Airtable.
func (r *Repository) Refresh() {
	r.backend.Invalidate()
}

func statusFormula(status string) string {
	return fmt.Sprintf("{%s} = '%s'", fieldStatus, status)
}

func opportunityFromRecord(rec airtable.Record) Opportunity {
	return Opportunity{
		ID:           rec.ID,
		Force:        rec.String(fieldForce),
		Title:        rec.String(fieldTitle),
		Category:     rec.String(fieldCategory),
		Priority:     rec.String(fieldPriority),
		Contact:      rec.String(fieldContact),
		ContactEmail: rec.String(fieldContactEmail),
		Summary:      rec.String(fieldSummary),
		Status:       rec.String(fieldStatus),
		CreatedAt:    rec.CreatedTime,
	}
}

func emailFromRecord(rec airtable.Record) Email {
	return Email{
		ID:       rec.ID,
		Force:    rec.String(fieldForce),
		To:       rec.String(fieldTo),
		Subject:  rec.String(fieldSubject),
		Body:     rec.String(fieldBody),
		Category: rec.String(fieldCategory),
		Status:   rec.String(fieldStatus),
	}
}
