// Package bluelight wires configuration, storage and the Airtable backend
// into the triage queues used by commands and the TUI.
package bluelight

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hay-kot/bluelight/internal/airtable"
	"github.com/hay-kot/bluelight/internal/core/config"
	"github.com/hay-kot/bluelight/internal/core/logging"
	"github.com/hay-kot/bluelight/internal/core/toast"
	"github.com/hay-kot/bluelight/internal/core/triage"
	"github.com/hay-kot/bluelight/internal/data/db"
	"github.com/hay-kot/bluelight/internal/data/stores"
	"github.com/hay-kot/bluelight/internal/leads"
	"github.com/hay-kot/bluelight/internal/metrics"
	"github.com/hay-kot/bluelight/internal/webhook"
)

// App is the central entry point for bluelight operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Backend  leads.Backend
	Hooks    leads.Poster
	Repo     *leads.Repository
	History  *stores.ActionLogStore
	Notices  *stores.NotifyStore
	Metrics  *metrics.TriageMetrics
	Registry *prometheus.Registry

	tables leads.Tables
	urls   leads.Webhooks
}

// New connects to Airtable with the token from the environment and builds
// an App around the given database.
func New(cfg *config.Config, database *db.DB) (*App, error) {
	client, err := AirtableClient(cfg)
	if err != nil {
		return nil, err
	}

	hooks := webhook.New(cfg.Webhooks.Timeout, logging.Component("webhook"))

	return NewWithBackend(cfg, database, client, hooks), nil
}

// AirtableClient builds a client for the configured base. It fails with
// config.ErrMissingToken when the token env var is unset.
func AirtableClient(cfg *config.Config) (*airtable.Client, error) {
	token, err := cfg.Token()
	if err != nil {
		return nil, err
	}

	return airtable.New(airtable.Config{
		BaseURL:  cfg.Airtable.BaseURL,
		BaseID:   cfg.Airtable.BaseID,
		Token:    token,
		Timeout:  cfg.Airtable.Timeout,
		CacheTTL: cfg.Airtable.CacheTTL,
	}, logging.Component("airtable")), nil
}

// NewWithBackend builds an App on an explicit backend and webhook poster.
func NewWithBackend(cfg *config.Config, database *db.DB, backend leads.Backend, hooks leads.Poster) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tables := leads.Tables{
		Opportunities: cfg.Airtable.Tables.Opportunities,
		Emails:        cfg.Airtable.Tables.Emails,
	}

	return &App{
		Config:   cfg,
		DB:       database,
		Backend:  backend,
		Hooks:    hooks,
		Repo:     leads.NewRepository(backend, tables),
		History:  stores.NewActionLogStore(database),
		Notices:  stores.NewNotifyStore(database),
		Metrics:  metrics.NewTriageMetrics(reg),
		Registry: reg,
		tables:   tables,
		urls: leads.Webhooks{
			OpportunityApproved: cfg.Webhooks.OpportunityApproved,
			SendEmail:           cfg.Webhooks.SendEmail,
		},
	}
}

// NewToasts returns a toast manager that records its history in the database.
func (a *App) NewToasts() *toast.Manager {
	return toast.NewManager(toast.Options{
		DefaultDuration: a.Config.Toasts.Duration,
		UndoDuration:    a.Config.UndoWindow,
		MaxToasts:       a.Config.Toasts.Max,
		Store:           a.Notices,
		Logger:          logging.Component("toast"),
	})
}

// ReviewQueue loads pending opportunities into a controller.
func (a *App) ReviewQueue(ctx context.Context, toasts *toast.Manager) (*triage.Controller[leads.Opportunity], error) {
	items, err := a.Repo.Opportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load opportunities: %w", err)
	}

	return triage.New(triage.Options[leads.Opportunity]{
		Name:          config.QueueReview,
		Items:         items,
		Kinds:         a.Config.KindsFor(config.QueueReview, leads.OpportunityKinds()),
		Executor:      leads.NewOpportunityExecutor(a.Backend, a.Hooks, a.tables, a.urls),
		Toasts:        toasts,
		Describe:      leads.Opportunity.Describe,
		UndoWindow:    a.Config.UndoWindow,
		CommitTimeout: a.Config.CommitTimeout,
		Logger:        logging.Queue(config.QueueReview),
		Recorder:      a.History,
		Observer:      a.Metrics,
	}), nil
}

// EmailQueue loads draft emails into a controller.
func (a *App) EmailQueue(ctx context.Context, toasts *toast.Manager) (*triage.Controller[leads.Email], error) {
	items, err := a.Repo.Emails(ctx)
	if err != nil {
		return nil, fmt.Errorf("load emails: %w", err)
	}

	return triage.New(triage.Options[leads.Email]{
		Name:          config.QueueEmails,
		Items:         items,
		Kinds:         a.Config.KindsFor(config.QueueEmails, leads.EmailKinds()),
		Executor:      leads.NewEmailExecutor(a.Backend, a.Hooks, a.tables, a.urls),
		Toasts:        toasts,
		Describe:      leads.Email.Describe,
		UndoWindow:    a.Config.UndoWindow,
		CommitTimeout: a.Config.CommitTimeout,
		Logger:        logging.Queue(config.QueueEmails),
		Recorder:      a.History,
		Observer:      a.Metrics,
	}), nil
}
