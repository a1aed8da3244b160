package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bluelight/internal/airtable"
	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/webhook"
)

type update struct {
	table  string
	id     string
	fields map[string]any
}

type fakeBackend struct {
	records     map[string][]airtable.Record
	lastOpts    airtable.ListOptions
	updates     []update
	updateErr   error
	invalidated int
}

func (b *fakeBackend) List(_ context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error) {
	b.lastOpts = opts
	return b.records[table], nil
}

func (b *fakeBackend) Update(_ context.Context, table, id string, fields map[string]any) (airtable.Record, error) {
	if b.updateErr != nil {
		return airtable.Record{}, b.updateErr
	}
	b.updates = append(b.updates, update{table: table, id: id, fields: fields})
	return airtable.Record{ID: id, Fields: fields}, nil
}

func (b *fakeBackend) Invalidate() { b.invalidated++ }

type fakePoster struct {
	urls   []string
	events []webhook.Event
	err    error
}

func (p *fakePoster) Post(_ context.Context, url string, e webhook.Event) error {
	p.urls = append(p.urls, url)
	p.events = append(p.events, e)
	return p.err
}

var tables = Tables{Opportunities: "Opportunities", Emails: "Emails"}

func TestRepository_maps_opportunities(t *testing.T) {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	b := &fakeBackend{records: map[string][]airtable.Record{
		"Opportunities": {{
			ID:          "rec1",
			CreatedTime: created,
			Fields: map[string]any{
				"Force":         "Kent Police",
				"Title":         "ANPR refresh",
				"Category":      []any{"Metrics"},
				"Priority":      "High",
				"Contact Name":  "J. Smith",
				"Contact Email": "j.smith@kent.police.uk",
				"Summary":       "Tender due in May",
				"Status":        "New",
			},
		}},
	}}

	got, err := NewRepository(b, tables).Opportunities(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Opportunity{
		ID:           "rec1",
		Force:        "Kent Police",
		Title:        "ANPR refresh",
		Category:     "Metrics",
		Priority:     "High",
		Contact:      "J. Smith",
		ContactEmail: "j.smith@kent.police.uk",
		Summary:      "Tender due in May",
		Status:       "New",
		CreatedAt:    created,
	}, got[0])
	assert.Equal(t, "{Status} = 'New'", b.lastOpts.Formula)
}

func TestRepository_maps_emails_and_refreshes(t *testing.T) {
	b := &fakeBackend{records: map[string][]airtable.Record{
		"Emails": {{ID: "rec9", Fields: map[string]any{
			"Force":   "Essex Police",
			"To":      "ops@essex.police.uk",
			"Subject": "Follow up",
			"Body":    "# Hello",
			"Status":  "Draft",
		}}},
	}}
	repo := NewRepository(b, tables)

	got, err := repo.Emails(context.Background())
	repo.Refresh()

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Follow up", got[0].Subject)
	assert.Equal(t, "{Status} = 'Draft'", b.lastOpts.Formula)
	assert.Equal(t, 1, b.invalidated)
}

func TestOpportunityExecutor_commit_sets_status(t *testing.T) {
	tests := []struct {
		kind triage.Kind
		want string
	}{
		{KindApprove, StatusApproved},
		{KindSkip, StatusSkipped},
		{KindArchive, StatusArchived},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			b := &fakeBackend{}
			e := NewOpportunityExecutor(b, &fakePoster{}, tables, Webhooks{})

			require.NoError(t, e.Commit(context.Background(), tt.kind, Opportunity{ID: "rec1"}))

			require.Len(t, b.updates, 1)
			assert.Equal(t, "Opportunities", b.updates[0].table)
			assert.Equal(t, "rec1", b.updates[0].id)
			assert.Equal(t, tt.want, b.updates[0].fields["Status"])
			assert.Contains(t, b.updates[0].fields, "Reviewed At")
		})
	}
}

func TestOpportunityExecutor_rejects_email_kinds(t *testing.T) {
	b := &fakeBackend{}
	e := NewOpportunityExecutor(b, &fakePoster{}, tables, Webhooks{})

	err := e.Commit(context.Background(), KindSend, Opportunity{ID: "rec1"})

	require.Error(t, err)
	assert.Empty(t, b.updates)
}

func TestOpportunityExecutor_commit_error_wraps(t *testing.T) {
	apiErr := &airtable.APIError{Status: 422, Type: "INVALID_VALUE_FOR_COLUMN"}
	e := NewOpportunityExecutor(&fakeBackend{updateErr: apiErr}, &fakePoster{}, tables, Webhooks{})

	err := e.Commit(context.Background(), KindApprove, Opportunity{ID: "rec1"})

	var got *airtable.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 422, got.Status)
}

func TestOpportunityExecutor_notify_only_on_approve(t *testing.T) {
	p := &fakePoster{}
	e := NewOpportunityExecutor(&fakeBackend{}, p, tables, Webhooks{OpportunityApproved: "https://hook.make.com/abc"})
	o := Opportunity{ID: "rec1", Force: "Kent Police"}

	require.NoError(t, e.Notify(context.Background(), KindSkip, o))
	require.NoError(t, e.Notify(context.Background(), KindApprove, o))

	require.Len(t, p.events, 1)
	assert.Equal(t, "https://hook.make.com/abc", p.urls[0])
	assert.Equal(t, EventOpportunityApproved, p.events[0].Event)
	assert.Equal(t, "Kent Police", p.events[0].Data["force"])
}

func TestEmailExecutor(t *testing.T) {
	b := &fakeBackend{}
	p := &fakePoster{err: errors.New("scenario disabled")}
	e := NewEmailExecutor(b, p, tables, Webhooks{SendEmail: "https://hook.make.com/send"})
	m := Email{ID: "rec9", To: "ops@essex.police.uk", Subject: "Follow up"}

	require.NoError(t, e.Commit(context.Background(), KindSend, m))
	assert.Equal(t, StatusSent, b.updates[0].fields["Status"])
	assert.Equal(t, "Emails", b.updates[0].table)

	err := e.Notify(context.Background(), KindSend, m)
	require.Error(t, err)
	assert.Equal(t, EventSendEmail, p.events[0].Event)

	require.NoError(t, e.Notify(context.Background(), KindDismiss, m))
	assert.Len(t, p.events, 1)
}

func TestKinds_have_unique_keys(t *testing.T) {
	for name, specs := range map[string][]triage.KindSpec{
		"opportunities": OpportunityKinds(),
		"emails":        EmailKinds(),
	} {
		seen := map[string]bool{}
		for _, s := range specs {
			assert.False(t, seen[s.Key], "%s: duplicate key %q", name, s.Key)
			seen[s.Key] = true
		}
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "ANPR refresh (Kent Police)", Opportunity{Title: "ANPR refresh", Force: "Kent Police"}.Describe())
	assert.Equal(t, "Kent Police", Opportunity{Force: "Kent Police"}.Describe())
	assert.Equal(t, `"Hi" to Essex Police`, Email{Subject: "Hi", Force: "Essex Police"}.Describe())
	assert.Equal(t, "Email to a@b.uk", Email{To: "a@b.uk"}.Describe())
}
