package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/bluelight/internal/bluelight"
	"github.com/hay-kot/bluelight/internal/data/db"
	"github.com/hay-kot/bluelight/internal/data/stores"
)

// openDatabase opens the history database, moving a corrupted file aside
// and starting fresh when SQLite reports corruption.
func openDatabase(f *Flags) (*db.DB, error) {
	cfg := f.Config
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, errors.Join(fmt.Errorf("open database: %w", err), rerr)
	}
	log.Warn().Str("backup", backup).Msg("history database was corrupted; started a new one")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// openApp opens the database and connects the application to Airtable. The
// returned closer releases the database.
func openApp(f *Flags) (*bluelight.App, func(), error) {
	database, err := openDatabase(f)
	if err != nil {
		return nil, func() {}, err
	}
	closer := func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	app, err := bluelight.New(f.Config, database)
	if err != nil {
		closer()
		return nil, func() {}, err
	}
	return app, closer, nil
}

// openHistory opens only the local database, for commands that never talk
// to Airtable.
func openHistory(f *Flags) (*stores.ActionLogStore, *stores.NotifyStore, func(), error) {
	database, err := openDatabase(f)
	if err != nil {
		return nil, nil, func() {}, err
	}
	closer := func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	return stores.NewActionLogStore(database), stores.NewNotifyStore(database), closer, nil
}
