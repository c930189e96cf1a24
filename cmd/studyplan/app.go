package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sandeepkv93/studyplan/internal/gateway"
	"github.com/sandeepkv93/studyplan/internal/storage"
	"github.com/sandeepkv93/studyplan/internal/store"
	"github.com/sandeepkv93/studyplan/internal/update"
)

// app is one open database with a store on top of it.
type app struct {
	cfg    update.RuntimeConfig
	repo   *storage.SQLiteRepository
	store  *store.Store
	logger *log.Logger
}

func openApp(cfg update.RuntimeConfig, logger *log.Logger, notifier store.Notifier) (*app, error) {
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	st := store.New(gateway.NewSQLite(repo),
		store.WithLogger(logger),
		store.WithNotifier(notifier),
		store.WithMaxRefreshAttempts(cfg.RefreshAttempts),
	)
	return &app{cfg: cfg, repo: repo, store: st, logger: logger}, nil
}

// load fills the store from the database.
func (a *app) load(ctx context.Context) error {
	if err := a.store.RefreshTasks(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	return nil
}

func (a *app) Close() error {
	return a.repo.Close()
}

// cliLogger writes to stderr only when verbose.
func cliLogger(verbose bool) *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// tuiLogger must never write to the terminal the UI owns.
func tuiLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}
