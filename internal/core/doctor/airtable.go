package doctor

import (
	"context"

	"github.com/hay-kot/bluelight/internal/airtable"
)

// Lister reads records from an Airtable base.
type Lister interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
}

// AirtableCheck reads one record from each table to confirm the token and
// table names work.
type AirtableCheck struct {
	connect func() (Lister, error)
	tables  []string
}

// NewAirtableCheck creates an Airtable check. connect is called once per run
// so a missing token is reported as a failed item instead of an error.
func NewAirtableCheck(connect func() (Lister, error), tables ...string) *AirtableCheck {
	return &AirtableCheck{connect: connect, tables: tables}
}

func (c *AirtableCheck) Name() string {
	return "Airtable"
}

func (c *AirtableCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	lister, err := c.connect()
	if err != nil {
		result.Items = append(result.Items, fail("Token", err.Error()))
		return result
	}
	result.Items = append(result.Items, pass("Token", "set"))

	for _, table := range c.tables {
		recs, err := lister.List(ctx, table, airtable.ListOptions{PageSize: 1, MaxRecords: 1})
		if err != nil {
			result.Items = append(result.Items, fail(table, err.Error()))
			continue
		}
		detail := "reachable"
		if len(recs) == 0 {
			detail = "reachable, no records"
		}
		result.Items = append(result.Items, pass(table, detail))
	}

	return result
}
