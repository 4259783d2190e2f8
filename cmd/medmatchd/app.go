package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/medmatch/medmatch/internal/api"
	"github.com/medmatch/medmatch/internal/archive"
	"github.com/medmatch/medmatch/internal/events"
	"github.com/medmatch/medmatch/internal/history"
	"github.com/medmatch/medmatch/internal/matching"
	"github.com/medmatch/medmatch/internal/observability"
	"github.com/medmatch/medmatch/internal/platform"
	"github.com/medmatch/medmatch/pkg/config"
	"github.com/medmatch/medmatch/pkg/scoring"
)

// app holds the wired service and the resources it must release.
type app struct {
	handler   http.Handler
	db        *sql.DB
	publisher events.Publisher
}

// newApp wires the engine, its optional side effects and the HTTP handler
// from the configuration.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	a := &app{}
	opts := []matching.Option{
		matching.WithLogger(logger),
		matching.WithMetrics(metrics),
	}

	if cfg.Database.URL != "" {
		db, driver, err := platform.OpenDB(cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.db = db
		if cfg.Database.AutoMigrate {
			if err := platform.AutoMigrate(db, driver); err != nil {
				a.Close()
				return nil, err
			}
		}
		opts = append(opts, matching.WithHistory(history.NewStore(db)))
		logger.Info("run history enabled", "driver", driver)
	}

	store, err := archive.Open(ctx, archive.Config{
		Backend:   cfg.Storage.Backend,
		Bucket:    cfg.Storage.Bucket,
		Prefix:    cfg.Storage.Prefix,
		LocalPath: cfg.Storage.LocalPath,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if store != nil {
		opts = append(opts, matching.WithArchive(store))
		logger.Info("run archive enabled", "backend", cfg.Storage.Backend)
	}

	if len(cfg.Events.Brokers) > 0 {
		a.publisher = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		opts = append(opts, matching.WithEvents(a.publisher))
		logger.Info("run events enabled", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}

	engine := scoring.NewEngineFromWeights(cfg.Scoring.Weights, scoring.WithWorkers(cfg.Scoring.Workers))
	svc := matching.NewService(engine, opts...)

	h := api.NewHandler(svc, api.NewRunCache(cfg.Server.RunCacheSize), metrics, cfg.Server.MaxBodyBytes)
	a.handler = handlerChain(h, cfg, logger, metrics)
	return a, nil
}

// Close releases the database and the event publisher.
func (a *app) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
