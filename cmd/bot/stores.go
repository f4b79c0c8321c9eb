package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fadedpez/coinpurse/internal/config"
	"github.com/fadedpez/coinpurse/internal/server"
	"github.com/fadedpez/coinpurse/pkg/db"
	economyRepo "github.com/fadedpez/coinpurse/pkg/repositories/economy"
	"github.com/fadedpez/coinpurse/pkg/repositories/rounds"
	"github.com/fadedpez/coinpurse/pkg/rng"
	"github.com/fadedpez/coinpurse/pkg/scheduler"
)

// stores bundles the repositories chosen by storage.type
type stores struct {
	players economyRepo.Repository
	rounds  rounds.Repository
	// indices is nil unless Elasticsearch is enabled
	indices scheduler.IndexMaintainer
	ready   server.ReadyCheck
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, clock rng.Clock, log zerolog.Logger) (*stores, error) {
	st := &stores{close: func() {}}

	switch cfg.Storage.Type {
	case "sqlite":
		sqlDB, err := db.OpenSQLite(ctx, cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		st.players = economyRepo.NewSQLiteRepository(sqlDB, clock)
		st.rounds = rounds.NewSQLiteRepository(sqlDB)
		st.ready = sqlDB.PingContext
		st.close = func() { sqlDB.Close() }
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("Using SQLite storage")

	case "postgres":
		pool, err := db.NewPool(ctx, cfg.Storage.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		st.players = economyRepo.NewPostgresRepository(pool, clock)
		st.rounds = rounds.NewPostgresRepository(pool)
		st.ready = pool.Ping
		st.close = pool.Close
		log.Info().Msg("Using PostgreSQL storage")

	default:
		st.players = economyRepo.NewMemoryRepository(clock)
		st.rounds = rounds.NewMemoryRepository()
		log.Warn().Msg("Using in-memory storage, data will be lost on restart")
	}

	if cfg.Elasticsearch.Enabled {
		es, err := rounds.NewElasticsearchRepository(ctx, st.rounds, rounds.ElasticsearchConfig{
			URL:         cfg.Elasticsearch.URL,
			Username:    cfg.Elasticsearch.Username,
			Password:    cfg.Elasticsearch.Password,
			IndexPrefix: cfg.Elasticsearch.IndexPrefix,
			Retention:   cfg.Elasticsearch.Retention,
		}, clock, log)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("error connecting to Elasticsearch: %w", err)
		}
		st.rounds = es
		st.indices = es
		log.Info().Str("alias", es.Alias()).Msg("Indexing rounds in Elasticsearch")
	}

	return st, nil
}
