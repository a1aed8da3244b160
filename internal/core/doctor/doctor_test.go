package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bluelight/internal/airtable"
	"github.com/hay-kot/bluelight/internal/core/config"
	"github.com/hay-kot/bluelight/internal/data/db"
)

func statuses(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, it := range r.Items {
		out[it.Label] = it.Status
	}
	return out
}

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("BLUELIGHT_DOCTOR_TOKEN", "pat-test")

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Airtable.BaseID = "appDOCTOR"
	cfg.Airtable.TokenEnv = "BLUELIGHT_DOCTOR_TOKEN"
	cfg.Webhooks.OpportunityApproved = "https://hook.eu1.make.com/approved"
	cfg.Webhooks.SendEmail = "https://hook.eu1.make.com/send"
	return &cfg
}

func TestConfigCheck_valid(t *testing.T) {
	cfg := validConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: default\n"), 0o644))

	got := NewConfigCheck(cfg, path).Run(context.Background())

	assert.Equal(t, "Configuration", got.Name)
	assert.Equal(t, map[string]Status{"Config file": StatusPass, "Settings": StatusPass}, statuses(got))
}

func TestConfigCheck_reports_each_field(t *testing.T) {
	cfg := validConfig(t)
	cfg.Airtable.BaseID = ""
	cfg.Webhooks.SendEmail = ""

	got := NewConfigCheck(cfg, filepath.Join(t.TempDir(), "missing.yaml")).Run(context.Background())

	st := statuses(got)
	assert.Equal(t, StatusWarn, st["Config file"])
	assert.Equal(t, StatusFail, st["airtable.base_id"])
	assert.Equal(t, StatusWarn, st["Webhooks send_email"])
	assert.NotContains(t, st, "Settings")
}

type fakeLister struct {
	failOn map[string]error
	calls  []airtable.ListOptions
}

func (f *fakeLister) List(_ context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error) {
	f.calls = append(f.calls, opts)
	if err := f.failOn[table]; err != nil {
		return nil, err
	}
	return []airtable.Record{{ID: "rec1"}}, nil
}

func TestAirtableCheck(t *testing.T) {
	lister := &fakeLister{failOn: map[string]error{"Emails": errors.New("status 404: TABLE_NOT_FOUND")}}
	check := NewAirtableCheck(func() (Lister, error) { return lister, nil }, "Opportunities", "Emails")

	got := check.Run(context.Background())

	assert.Equal(t, map[string]Status{
		"Token":         StatusPass,
		"Opportunities": StatusPass,
		"Emails":        StatusFail,
	}, statuses(got))
	for _, opts := range lister.calls {
		assert.Equal(t, 1, opts.MaxRecords)
	}
}

func TestAirtableCheck_missing_token(t *testing.T) {
	check := NewAirtableCheck(func() (Lister, error) { return nil, config.ErrMissingToken }, "Opportunities")

	got := check.Run(context.Background())

	require.Len(t, got.Items, 1)
	assert.Equal(t, StatusFail, got.Items[0].Status)
}

func TestDatabaseCheck(t *testing.T) {
	dir := t.TempDir()
	check := NewDatabaseCheck(func() (*db.DB, error) { return db.Open(dir, db.DefaultOpenOptions()) })

	got := check.Run(context.Background())

	assert.Equal(t, map[string]Status{"Open": StatusPass, "Action log": StatusPass}, statuses(got))
	assert.Equal(t, "0 entries", got.Items[1].Detail)
}

func TestDatabaseCheck_open_error(t *testing.T) {
	check := NewDatabaseCheck(func() (*db.DB, error) { return nil, errors.New("disk I/O error") })

	got := check.Run(context.Background())

	require.Len(t, got.Items, 1)
	assert.Equal(t, StatusFail, got.Items[0].Status)
}

type staticCheck struct{ result Result }

func (c staticCheck) Name() string               { return c.result.Name }
func (c staticCheck) Run(context.Context) Result { return c.result }

func TestRunAll_and_Summary(t *testing.T) {
	checks := []Check{
		staticCheck{Result{Name: "a", Items: []CheckItem{pass("x", ""), warn("y", "")}}},
		staticCheck{Result{Name: "b", Items: []CheckItem{fail("z", ""), pass("w", "")}}},
	}

	results := RunAll(context.Background(), checks)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
