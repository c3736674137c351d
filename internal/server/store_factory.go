package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/hoops-league-service/internal/config"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore/contentapi"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore/fixture"
	"github.com/preston-bernstein/hoops-league-service/internal/contentstore/postgres"
	"github.com/preston-bernstein/hoops-league-service/internal/logging"
	"github.com/preston-bernstein/hoops-league-service/internal/metrics"
)

var openPostgres = postgres.Open

// storeFactory assembles the content store and its retry and request sharing wrappers.
type storeFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newStoreFactory(logger *slog.Logger, metrics *metrics.Recorder) storeFactory {
	return storeFactory{logger: logger, metrics: metrics}
}

// storeChain holds the content store as each consumer needs it.
type storeChain struct {
	// shared retries temporary failures and shares concurrent fetches. The
	// poller, admin handlers and reconciler read and write through it.
	shared contentstore.Store
	// direct is the bare store. Scoreboard saves go straight to it: a failed
	// save surfaces to the scorer at once and is only retried by a newer
	// score or an explicit drain.
	direct contentstore.Store
	close  func() error
}

// build selects the configured store and wraps it.
func (f storeFactory) build(ctx context.Context, cfg config.StoreConfig) (storeChain, error) {
	base, name, closeFn, err := f.selectStore(ctx, cfg)
	if err != nil {
		return storeChain{}, err
	}
	retrying := contentstore.NewRetryingStore(base, name, f.logger, f.metrics, cfg.MaxAttempts, cfg.RetryBackoff)
	return storeChain{
		shared: contentstore.NewSharedStore(retrying),
		direct: base,
		close:  closeFn,
	}, nil
}

func (f storeFactory) selectStore(ctx context.Context, cfg config.StoreConfig) (contentstore.Store, string, func() error, error) {
	switch name := strings.ToLower(strings.TrimSpace(cfg.Name)); name {
	case fixture.Name, "":
		return fixture.New(nil), fixture.Name, nopClose, nil
	case contentapi.Name:
		if cfg.ContentAPI.BaseURL == "" {
			return nil, "", nil, fmt.Errorf("content store %s: base url is required", contentapi.Name)
		}
		return contentapi.NewClient(contentapi.Config{
			BaseURL:         cfg.ContentAPI.BaseURL,
			DeliveryToken:   cfg.ContentAPI.DeliveryToken,
			ManagementToken: cfg.ContentAPI.ManagementToken,
			Timezone:        cfg.ContentAPI.Timezone,
		}), contentapi.Name, nopClose, nil
	case postgres.Name:
		pg, err := openPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, "", nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				_ = pg.Close()
				return nil, "", nil, err
			}
			logging.Info(f.logger, "postgres schema ensured", logging.FieldStore, postgres.Name)
		}
		return pg, postgres.Name, pg.Close, nil
	default:
		logging.Warn(f.logger, "unknown content store, falling back to fixture", logging.FieldStore, name)
		return fixture.New(nil), fixture.Name, nopClose, nil
	}
}

func nopClose() error { return nil }
