package backtest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Load fetches daily histories for tickers with at most workers requests
// in flight. Tickers that fail are logged and left out.
func Load(ctx context.Context, provider contracts.SeriesProvider, tickers []string, period contracts.Period, workers int, log *logger.Logger) (map[string]contracts.PriceSeries, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]contracts.PriceSeries, len(tickers))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			series, err := provider.Fetch(gctx, ticker, period, contracts.Interval1d)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.WithError(err).WithField("ticker", ticker).Warn("History unavailable, skipping")
				return nil
			}
			mu.Lock()
			out[ticker] = series
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
