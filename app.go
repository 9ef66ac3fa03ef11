package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"race-delta/apibase"
	"race-delta/config"
	"race-delta/f1api"
	"race-delta/teammeta"
)

type app struct {
	cfg      config.Config
	lggr     *zap.SugaredLogger
	resolver *apibase.Resolver
	api      *f1api.Client
	teams    *teammeta.Index
	now      func() time.Time
}

// newApp wires the resolver and backend client. A nil store runs without
// persistence, in which case the resolver never probes.
func newApp(cfg config.Config, lggr *zap.SugaredLogger, store apibase.Store) *app {
	opts := []apibase.Option{
		apibase.WithTimeout(cfg.ProbeTimeout),
		apibase.WithHealthPath(cfg.HealthPath),
		apibase.WithLogger(lggr.Named("apibase")),
	}
	if store != nil {
		opts = append(opts, apibase.WithStore(store))
	}
	resolver := apibase.New(cfg.Candidates(), opts...)

	api := f1api.New(resolver,
		f1api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		f1api.WithLogger(lggr.Named("f1api")),
		f1api.WithDriversTTL(cfg.DriversCacheTTL),
	)

	return &app{
		cfg:      cfg,
		lggr:     lggr,
		resolver: resolver,
		api:      api,
		teams:    teammeta.Default(),
		now:      time.Now,
	}
}

// openStore returns the sqlite origin store, or nil when persistence is
// disabled. The caller closes the returned db.
func openStore(cfg config.Config) (*sql.DB, apibase.Store, error) {
	if !cfg.PersistAPIBase {
		return nil, nil, nil
	}
	db, err := openDB(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, newOriginStore(db), nil
}

// forgetBackend clears the persisted origin and anything cached from it.
func (a *app) forgetBackend(ctx context.Context) error {
	if err := a.resolver.Clear(ctx); err != nil {
		return fmt.Errorf("forget backend: %w", err)
	}
	a.api.ForgetDrivers()
	return nil
}
