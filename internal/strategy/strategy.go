// Package strategy implements the screening strategies. Each strategy is a
// pure function of its Input: no I/O, and expected "no result" paths come
// back as a typed rejection rather than an error.
package strategy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/risk"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// ErrUnknownStrategy is returned for keys outside the registry
var ErrUnknownStrategy = errors.New("unknown strategy")

// Registry keys
const (
	KeyIntradayMomentum = "intraday_momentum"
	KeyBSJP             = "bsjp"
	KeySwing            = "idx_swing"
	KeyVWAPPro          = "vwap_pro"
	KeyUltimate         = "ultimate"
	KeySmartMoney       = "smart_money"
)

// IntradayNeed says whether a strategy reads today's 1m bars
type IntradayNeed int

const (
	IntradayNone IntradayNeed = iota
	IntradayOptional
	IntradayRequired
)

// Requirements tell the orchestrator what to fetch
type Requirements struct {
	DailyPeriod     contracts.Period
	MinBars         int
	Intraday        IntradayNeed
	BenchmarkPeriod contracts.Period // empty when no benchmark is read
}

// Output describes how result tables of a strategy are written
type Output struct {
	FilePrefix  string
	ReasonSep   string
	Timestamped bool // include HHMM in the file name
}

// Input is everything one evaluation may read
type Input struct {
	Ticker    string
	Daily     contracts.PriceSeries
	Intraday  *contracts.PriceSeries
	Benchmark *contracts.PriceSeries
	Regime    contracts.MarketRegime
	Risk      risk.Overlay
}

// Strategy scores one ticker
type Strategy interface {
	ID() string
	Name() string
	Requirements() Requirements
	Columns() []string
	Tiered() bool
	Output() Output
	Evaluate(in Input) contracts.Outcome
}

// Registry is the closed set of strategies, built once at startup
type Registry struct {
	byID map[string]Strategy
}

// NewRegistry builds every strategy from cfg
func NewRegistry(cfg *strategyconfig.Config) *Registry {
	all := []Strategy{
		NewIntradayMomentum(cfg.Intraday),
		NewBSJP(cfg.BSJP),
		NewSwing(cfg.Swing),
		NewVWAPPro(cfg.VWAPPro),
		NewUltimate(cfg.Ultimate),
		NewSmartMoney(cfg.SmartMoney),
	}

	r := &Registry{byID: make(map[string]Strategy, len(all))}
	for _, s := range all {
		r.byID[s.ID()] = s
	}
	return r
}

// Get resolves a key
func (r *Registry) Get(key string) (Strategy, error) {
	s, ok := r.byID[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, key)
	}
	return s, nil
}

// Keys returns the registered keys sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byID))
	for k := range r.byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns the strategies in key order
func (r *Registry) All() []Strategy {
	out := make([]Strategy, 0, len(r.byID))
	for _, k := range r.Keys() {
		out = append(out, r.byID[k])
	}
	return out
}
