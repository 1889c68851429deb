package commands

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/external/yahoo"
	"github.com/Tonxzz/Main-Screener/internal/metrics"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/report"
	"github.com/Tonxzz/Main-Screener/internal/risk"
	"github.com/Tonxzz/Main-Screener/internal/s0_data"
	"github.com/Tonxzz/Main-Screener/internal/screener"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
	"github.com/Tonxzz/Main-Screener/internal/universe"
	"github.com/Tonxzz/Main-Screener/pkg/config"
	"github.com/Tonxzz/Main-Screener/pkg/database"
	"github.com/Tonxzz/Main-Screener/pkg/httputil"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
	"github.com/Tonxzz/Main-Screener/pkg/redis"
)

// app holds the wired components shared by the commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	registry *strategy.Registry
	metrics  *metrics.Recorder

	redis      *redis.Client
	httpClient *httputil.Client
	provider   contracts.SeriesProvider
	regime     *regime.Service
	orch       *screener.Orchestrator
	service    *screener.Service

	db   *database.DB
	repo *s0_data.ScanRepository // nil without a database
}

type appOptions struct {
	export bool // write CSV reports
	store  bool // persist runs when the database is enabled
}

// newApp loads configuration and wires the scan pipeline
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyConfigPath != "" {
		cfg.Screener.StrategyConfig = strategyConfigPath
	}

	log := logger.New(cfg)

	stratCfg, err := strategyconfig.LoadOrDefault(cfg.Screener.StrategyConfig)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}
	for _, w := range strategyconfig.Warn(stratCfg) {
		log.WithField("warning", w).Warn("Strategy config warning")
	}
	hash, err := strategyconfig.Hash(stratCfg)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		strategy: stratCfg,
		registry: strategy.NewRegistry(stratCfg),
		metrics:  metrics.New(),
	}

	a.redis, err = redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		a.redis = redis.Disabled()
	}
	cache := redis.NewCache(a.redis, "screener")

	a.httpClient = httputil.New(cfg, log).
		WithRetry(cfg.Yahoo.MaxRetries, 500*time.Millisecond).
		WithLimiter(rate.NewLimiter(rate.Limit(cfg.Yahoo.RequestsPerSec), max(cfg.Yahoo.Burst, 1)))
	if a.redis.Enabled() {
		a.httpClient.WithRateLimiter(redis.NewRateLimiter(a.redis, "ratelimit"), redis.RateLimitConfig{
			Key:    "yahoo",
			Limit:  int(math.Ceil(cfg.Yahoo.RequestsPerSec)),
			Window: time.Second,
		})
	}

	yahooClient := yahoo.NewClient(a.httpClient, log, cfg.Yahoo.BaseURL)
	a.provider = s0_data.NewCachedProvider(yahooClient, cache, log).WithObserver(a.metrics)
	a.regime = regime.NewService(a.provider, cache, cfg.Screener.RegimeTTL, log)

	a.orch = screener.NewOrchestrator(a.registry, a.provider, a.regime, screener.Config{
		Workers:      cfg.Screener.Workers,
		FetchTimeout: cfg.Screener.FetchTimeout,
	}, log).
		WithRisk(risk.Overlay{Multiplier: stratCfg.Risk.ATRMultiplier}).
		WithRecorder(a.metrics).
		WithConfigHash(hash)

	var exporter screener.Exporter
	if opts.export {
		exporter = report.NewWriter(cfg.Screener.OutputDir, log)
	}

	var store screener.Store
	if opts.store && cfg.Database.Enabled {
		if err := a.openStore(ctx); err != nil {
			log.WithError(err).Warn("Database unavailable, runs will not be stored")
		} else {
			store = a.repo
		}
	}

	a.service = screener.NewService(a.orch, exporter, store, log)
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	db, err := database.New(ctx, a.cfg)
	if err != nil {
		return err
	}
	repo := s0_data.NewScanRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return err
	}
	a.db, a.repo = db, repo
	return nil
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// location is the exchange time zone from the strategy config
func (a *app) location() *time.Location {
	loc, err := time.LoadLocation(a.strategy.Meta.Timezone)
	if err != nil {
		a.log.WithError(err).Warn("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// universeFlags selects tickers for scan-like commands
type universeFlags struct {
	categories []string
	tickers    []string
	file       string
}

// resolve picks, in order: explicit tickers, a file, categories, the
// configured universe, and finally the expanded universe
func (f universeFlags) resolve(cfg *config.Config) ([]string, error) {
	switch {
	case len(f.tickers) > 0:
		return universe.Dedupe(f.tickers), nil
	case f.file != "":
		return universe.LoadFile(f.file)
	case len(f.categories) > 0:
		return universe.Resolve(f.categories...)
	case len(cfg.Screener.Universe) > 0:
		return universe.Dedupe(cfg.Screener.Universe), nil
	case cfg.Screener.UniverseFile != "":
		return universe.LoadFile(cfg.Screener.UniverseFile)
	default:
		return universe.ExpandedUniverse(), nil
	}
}
