package regime

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
	"github.com/Tonxzz/Main-Screener/pkg/redis"
)

const (
	// DefaultTTL is how long a computed regime stays fresh
	DefaultTTL = 24 * time.Hour

	// failureTTL bounds how long an UNKNOWN from a failed fetch is served
	failureTTL = 5 * time.Minute
)

// snapshot is replaced wholesale on every refresh
type snapshot struct {
	regime    contracts.MarketRegime
	expiresAt time.Time
}

// Service owns the process-wide regime cache.
// ⭐ SSOT: strategies receive the regime as a value taken from here
type Service struct {
	provider contracts.SeriesProvider
	cache    *redis.Cache
	logger   *logger.Logger
	ttl      time.Duration
	symbol   string
	now      func() time.Time

	current atomic.Pointer[snapshot]
	group   singleflight.Group
}

// NewService creates a regime service. cache may be nil.
func NewService(provider contracts.SeriesProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		provider: provider,
		cache:    cache,
		logger:   log.Module("regime"),
		ttl:      ttl,
		symbol:   BenchmarkSymbol,
		now:      time.Now,
	}
}

// Current returns the cached regime, refreshing it once the TTL elapsed.
// Never fails: an unavailable benchmark reads as UNKNOWN.
func (s *Service) Current(ctx context.Context) contracts.MarketRegime {
	if snap := s.current.Load(); snap != nil && s.now().Before(snap.expiresAt) {
		return snap.regime
	}

	v, _, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx), nil
	})
	return v.(contracts.MarketRegime)
}

// Refresh recomputes the regime regardless of age
func (s *Service) Refresh(ctx context.Context) contracts.MarketRegime {
	v, _, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.fetch(ctx), nil
	})
	return v.(contracts.MarketRegime)
}

// Peek returns the cached regime without refreshing
func (s *Service) Peek() (contracts.MarketRegime, bool) {
	snap := s.current.Load()
	if snap == nil {
		return contracts.MarketRegime{}, false
	}
	return snap.regime, true
}

// refresh prefers a fresh regime mirrored by another process
func (s *Service) refresh(ctx context.Context) contracts.MarketRegime {
	if s.cache != nil {
		var cached contracts.MarketRegime
		found, err := s.cache.Get(ctx, redis.RegimeKey(s.symbol), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Regime cache read failed")
		}
		if found && cached.IsKnown() && s.now().Sub(cached.ComputedAt) < s.ttl {
			s.store(cached, cached.ComputedAt.Add(s.ttl))
			return cached
		}
	}
	return s.fetch(ctx)
}

func (s *Service) fetch(ctx context.Context) contracts.MarketRegime {
	now := s.now()

	series, err := s.provider.Fetch(ctx, s.symbol, contracts.Period1Y, contracts.Interval1d)
	if err != nil {
		s.logger.WithError(err).Warn("Benchmark fetch failed, regime UNKNOWN")
		r := contracts.UnknownRegime(now)
		s.store(r, now.Add(min(failureTTL, s.ttl)))
		return r
	}

	r := Classify(series, now)
	if !r.IsKnown() {
		s.store(r, now.Add(min(failureTTL, s.ttl)))
		return r
	}

	s.store(r, now.Add(s.ttl))

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.RegimeKey(s.symbol), r, redis.TTLDaily); err != nil {
			s.logger.WithError(err).Warn("Regime cache write failed")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"regime":   r.Label,
		"close":    r.BenchmarkClose,
		"ema200":   r.BenchmarkEMA200,
		"dist_pct": r.DistancePct,
	}).Info("Market regime refreshed")

	return r
}

// store atomically replaces the snapshot; the last writer wins
func (s *Service) store(r contracts.MarketRegime, expiresAt time.Time) {
	s.current.Store(&snapshot{regime: r, expiresAt: expiresAt})
}
