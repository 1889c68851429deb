package s0_data

import (
	"context"
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
	"github.com/Tonxzz/Main-Screener/pkg/redis"
)

// CacheObserver is notified of every cache lookup
type CacheObserver interface {
	RecordCacheLookup(hit bool)
}

// CachedProvider decorates a SeriesProvider with the Redis series cache.
// Keys include the trading day, so yesterday's bars are never served today.
// ⭐ SSOT: series caching happens only here
type CachedProvider struct {
	next     contracts.SeriesProvider
	cache    *redis.Cache
	logger   *logger.Logger
	observer CacheObserver
	now      func() time.Time
}

// NewCachedProvider wraps next. A disabled cache makes it a pass-through.
func NewCachedProvider(next contracts.SeriesProvider, cache *redis.Cache, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		cache:  cache,
		logger: log.Module("series_cache"),
		now:    time.Now,
	}
}

// WithObserver attaches a hit/miss observer
func (p *CachedProvider) WithObserver(o CacheObserver) *CachedProvider {
	p.observer = o
	return p
}

// Fetch implements contracts.SeriesProvider
func (p *CachedProvider) Fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	key := redis.SeriesKey(ticker, string(period), string(interval), p.now().Format("20060102"))

	var cached contracts.PriceSeries
	hit, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Series cache read failed")
	}
	if hit && !cached.Empty() {
		p.observe(true)
		return cached, nil
	}
	p.observe(false)

	series, err := p.next.Fetch(ctx, ticker, period, interval)
	if err != nil {
		return contracts.PriceSeries{}, err
	}

	if err := p.cache.Set(ctx, key, series, ttlFor(interval)); err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Series cache write failed")
	}
	return series, nil
}

func (p *CachedProvider) observe(hit bool) {
	if p.observer != nil {
		p.observer.RecordCacheLookup(hit)
	}
}

func ttlFor(interval contracts.Interval) time.Duration {
	if interval == contracts.Interval1m {
		return redis.TTLIntraday
	}
	return redis.TTLMedium
}
