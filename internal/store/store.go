// Package store opens the directory.Client selected by configuration.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/aidir/internal/config"
	"github.com/Makepad-fr/aidir/internal/directory"
	"github.com/Makepad-fr/aidir/internal/logging"
	"github.com/Makepad-fr/aidir/internal/store/fixture"
	"github.com/Makepad-fr/aidir/internal/store/postgrest"
	"github.com/Makepad-fr/aidir/internal/store/sqlstore"
)

// Backend is a Client that holds resources until closed.
type Backend interface {
	directory.Client
	io.Closer
}

// Open builds the backend for cfg.Driver. cfg is expected to be validated.
func Open(ctx context.Context, cfg config.Store, logger zerolog.Logger) (Backend, error) {
	log := logging.Component(logger, "store").With().Str("driver", cfg.Driver).Logger()

	var (
		b   Backend
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgREST:
		b, err = postgrest.New(postgrest.Config{
			URL:     cfg.URL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
			Retries: cfg.Retries,
		}, log)
	case config.DriverPostgres:
		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()
		b, err = sqlstore.OpenPostgres(ctx, cfg.DSN, log)
	case config.DriverSQLite:
		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()
		b, err = sqlstore.OpenSQLite(ctx, cfg.Path, log)
	case config.DriverFixture:
		b, err = fixture.Load(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	log.Debug().Msg("store opened")
	return b, nil
}

func withTimeout(ctx context.Context, cfg config.Store) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}
