package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/zzpboek/zzpbtw/internal/books"
	"github.com/zzpboek/zzpbtw/internal/config"
	"github.com/zzpboek/zzpbtw/internal/logger"
	"github.com/zzpboek/zzpbtw/internal/today"
)

var timeNow = time.Now

type rootOptions struct {
	repo string
	date string
}

// project is a loaded books directory plus the reference date for this run.
type project struct {
	root  string
	cfg   *config.Config
	store *books.Store
	asOf  time.Time
	log   zerolog.Logger
}

func loadProject(opts *rootOptions, component string) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading project (run `zzpbtw init` first?): %w", err)
	}
	cfg.ApplyEnv()
	if err := logger.Setup(cfg.LogConfig()); err != nil {
		return nil, fmt.Errorf("configuring logging: %w", err)
	}
	log := logger.WithComponent(component)

	asOf, err := referenceDate(opts.date)
	if err != nil {
		return nil, err
	}

	store, err := books.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading books: %w", err)
	}
	log.Debug().
		Str("root", root).
		Str("as_of", asOf.Format("2006-01-02")).
		Int("clients", len(store.Clients())).
		Int("invoices", len(store.Invoices())).
		Int("expenses", len(store.Expenses())).
		Int("templates", len(store.Templates())).
		Msg("loaded books")

	return &project{root: root, cfg: cfg, store: store, asOf: asOf, log: log}, nil
}

// referenceDate resolves --date, then ZZPBTW_CURRENT_DATE, then the clock.
func referenceDate(flag string) (time.Time, error) {
	var (
		p   today.Provider
		err error
	)
	if flag != "" {
		p, err = today.FromValue(flag)
	} else {
		p, err = today.FromEnv()
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reference date: %w", err)
	}
	return p.Today(), nil
}
