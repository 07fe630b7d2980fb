package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/squad-lineup/external/soms"
	"github.com/riskibarqy/squad-lineup/internal/config"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	rediscache "github.com/riskibarqy/squad-lineup/internal/infrastructure/cache/redis"
	repocache "github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/squad-lineup/internal/interfaces/httpapi"
	"github.com/riskibarqy/squad-lineup/internal/platform/cache"
	idgen "github.com/riskibarqy/squad-lineup/internal/platform/id"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const lineupCachePrefix = "squad-lineup:"

// Runtime is the wired service plus the resources released on shutdown.
type Runtime struct {
	Server  *http.Server
	closers []func() error
}

// Close releases backend resources in reverse order of acquisition.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rt := &Runtime{}
	backend, breaker, err := rt.buildBackend(ctx, cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	var lineupCache usecase.LineupCache
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		backend = repocache.NewBackend(backend, store)

		lineupCache, err = rt.buildLineupCache(ctx, cfg, store, logger)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
	}

	syncService := usecase.NewLineupSyncService(
		backend,
		formation.DefaultRoleTable(),
		lineupCache,
		usecase.LineupSyncConfig{
			TeamID:              cfg.LineupTeamID,
			FallbackFormationID: cfg.LineupFallbackFormation,
			DetailWorkers:       cfg.LineupDetailWorkers,
		},
		logger.Named("sync"),
	)
	editorService := usecase.NewEditorService(
		syncService,
		idgen.NewUUIDGenerator(),
		usecase.EditorConfig{
			SessionTTL:  cfg.EditorSessionTTL,
			MaxSessions: cfg.EditorMaxSessions,
		},
		logger.Named("editor"),
	)

	handler := httpapi.NewHandler(syncService, editorService, cfg.LineupBackend, breaker, logger.Named("http"))
	rt.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger.Named("http"), cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("lineup service wired",
		"backend", cfg.LineupBackend,
		"cache_enabled", cfg.CacheEnabled,
		"redis_cache", cfg.CacheEnabled && cfg.RedisURL != "",
		"team_id", cfg.LineupTeamID,
	)
	return rt, nil
}

func (rt *Runtime) buildBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (lineup.Backend, httpapi.BreakerReporter, error) {
	switch cfg.LineupBackend {
	case config.BackendREST:
		client := soms.NewClient(soms.ClientConfig{
			HTTPClient: &http.Client{
				Timeout:   cfg.SOMSTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			BaseURL:    cfg.SOMSBaseURL,
			Timeout:    cfg.SOMSTimeout,
			MaxRetries: cfg.SOMSMaxRetries,
			Logger:     logger.Named("soms"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SOMSCircuitEnabled,
				FailureThreshold: cfg.SOMSCircuitFailureCount,
				OpenTimeout:      cfg.SOMSCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SOMSCircuitHalfOpenMax,
			},
		})
		return client, client, nil
	case config.BackendPostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		rt.closers = append(rt.closers, db.Close)

		if cfg.DBBootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
			logger.Info("database seed applied")
		}
		return postgres.NewLineupRepository(db), nil, nil
	default:
		return memory.NewSeededBackend(), nil, nil
	}
}

func (rt *Runtime) buildLineupCache(ctx context.Context, cfg config.Config, store *cache.Store, logger *logging.Logger) (usecase.LineupCache, error) {
	if cfg.RedisURL == "" {
		return cache.NewTyped[[]lineup.Record](store), nil
	}

	client, err := rediscache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, client.Close)
	return rediscache.NewStore[[]lineup.Record](client, lineupCachePrefix, cfg.CacheTTL, logger.Named("redis")), nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbName := dbNameFromURL(cfg.DBURL)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary, cfg.ServiceName), opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database %q: %w", dbName, err)
	}

	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbName))
	return db, nil
}
