package strategyconfig

import "time"

// Config holds the thresholds of every screening strategy.
// Zero-valued fields are filled from the default tags before validation.
type Config struct {
	Meta       Meta             `yaml:"meta" json:"meta"`
	Intraday   IntradayMomentum `yaml:"intraday_momentum" json:"intraday_momentum"`
	BSJP       BSJP             `yaml:"bsjp" json:"bsjp"`
	Swing      Swing            `yaml:"idx_swing" json:"idx_swing"`
	VWAPPro    VWAPPro          `yaml:"vwap_pro" json:"vwap_pro"`
	Ultimate   Ultimate         `yaml:"ultimate" json:"ultimate"`
	SmartMoney SmartMoney       `yaml:"smart_money" json:"smart_money"`
	Risk       RiskOverlay      `yaml:"risk_overlay" json:"risk_overlay"`
	Backtest   Backtest         `yaml:"backtest" json:"backtest"`
}

// Meta identifies a threshold set
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id" default:"idx_multi_strategy" validate:"required"`
	Version  string `yaml:"version" json:"version" default:"1.0.0" validate:"required"`
	Timezone string `yaml:"timezone" json:"timezone" default:"Asia/Jakarta" validate:"required"`
}

// IntradayMomentum scores the opening session from 1m bars
type IntradayMomentum struct {
	MinPrice        float64 `yaml:"min_price" json:"min_price" default:"50" validate:"gt=0"`
	MaxGapDownPct   float64 `yaml:"max_gap_down_pct" json:"max_gap_down_pct" default:"-2" validate:"lt=0"`
	GapUpPct        float64 `yaml:"gap_up_pct" json:"gap_up_pct" default:"0.5" validate:"gte=0"`
	RVOLSpike       float64 `yaml:"rvol_spike" json:"rvol_spike" default:"2.0" validate:"gt=0"`
	RVOLUp          float64 `yaml:"rvol_up" json:"rvol_up" default:"1.2" validate:"gt=0"`
	RVOLBase        float64 `yaml:"rvol_base" json:"rvol_base" default:"0.8" validate:"gt=0"`
	MomentumPct     float64 `yaml:"momentum_pct" json:"momentum_pct" default:"1.0" validate:"gt=0"`
	RSIOverbought   float64 `yaml:"rsi_overbought" json:"rsi_overbought" default:"80" validate:"gt=50,lte=100"`
	ReadyScore      int     `yaml:"ready_score" json:"ready_score" default:"7" validate:"gt=0"`
	WatchScore      int     `yaml:"watch_score" json:"watch_score" default:"4" validate:"gt=0"`
	SessionMinutes  int     `yaml:"session_minutes" json:"session_minutes" default:"240" validate:"gt=0"`
	MinIntradayBars int     `yaml:"min_intraday_bars" json:"min_intraday_bars" default:"5" validate:"gte=1"`
	MinDailyBars    int     `yaml:"min_daily_bars" json:"min_daily_bars" default:"5" validate:"gte=2"`
	VolumeWindow    int     `yaml:"volume_window" json:"volume_window" default:"20" validate:"gte=1"`
}

// BSJP scores end-of-day volatility expansion
type BSJP struct {
	MinPrice        float64 `yaml:"min_price" json:"min_price" default:"50" validate:"gt=0"`
	MinValue        float64 `yaml:"min_value" json:"min_value" default:"1000000000" validate:"gt=0"`
	MinBars         int     `yaml:"min_bars" json:"min_bars" default:"20" validate:"gte=2"`
	EMAFast         int     `yaml:"ema_fast" json:"ema_fast" default:"5" validate:"gte=1"`
	EMASlow         int     `yaml:"ema_slow" json:"ema_slow" default:"20" validate:"gte=1"`
	VolumeWindow    int     `yaml:"volume_window" json:"volume_window" default:"5" validate:"gte=1"`
	RelVolStrong    float64 `yaml:"rel_vol_strong" json:"rel_vol_strong" default:"1.5" validate:"gt=0"`
	RelVolUp        float64 `yaml:"rel_vol_up" json:"rel_vol_up" default:"1.0" validate:"gt=0"`
	ChangeStrongPct float64 `yaml:"change_strong_pct" json:"change_strong_pct" default:"1.0" validate:"gt=0"`
	UpperWickMax    float64 `yaml:"upper_wick_max" json:"upper_wick_max" default:"0.3" validate:"gt=0,lte=1"`
	HammerLowerWick float64 `yaml:"hammer_lower_wick" json:"hammer_lower_wick" default:"0.5" validate:"gt=0,lte=1"`
}

// Swing is the VWMA continuation state machine
type Swing struct {
	MinBars        int     `yaml:"min_bars" json:"min_bars" default:"60" validate:"gte=50"`
	MinPrice       float64 `yaml:"min_price" json:"min_price" default:"100" validate:"gt=0"`
	MinAvgValue    float64 `yaml:"min_avg_value" json:"min_avg_value" default:"10000000000" validate:"gt=0"`
	TrapWickRatio  float64 `yaml:"trap_wick_ratio" json:"trap_wick_ratio" default:"0.7" validate:"gt=0,lte=1"`
	TrapBodyRatio  float64 `yaml:"trap_body_ratio" json:"trap_body_ratio" default:"0.3" validate:"gt=0,lte=1"`
	ReadyRelVol    float64 `yaml:"ready_rel_vol" json:"ready_rel_vol" default:"1.2" validate:"gt=0"`
	ReadyCloseLoc  float64 `yaml:"ready_close_loc" json:"ready_close_loc" default:"0.60" validate:"gt=0,lte=1"`
	ReadyBodyRatio float64 `yaml:"ready_body_ratio" json:"ready_body_ratio" default:"0.45" validate:"gt=0,lte=1"`
	MaxVWMADistPct float64 `yaml:"max_vwma_dist_pct" json:"max_vwma_dist_pct" default:"20" validate:"gt=0"`
	TightDistPct   float64 `yaml:"tight_dist_pct" json:"tight_dist_pct" default:"10" validate:"gt=0"`
	Points         Points  `yaml:"points" json:"points"`
}

// Points awarded per satisfied Swing condition
type Points struct {
	AboveVWMA int `yaml:"above_vwma" json:"above_vwma" default:"20" validate:"gte=0"`
	RelVol    int `yaml:"rel_vol" json:"rel_vol" default:"20" validate:"gte=0"`
	CloseLoc  int `yaml:"close_loc" json:"close_loc" default:"20" validate:"gte=0"`
	BodyRatio int `yaml:"body_ratio" json:"body_ratio" default:"20" validate:"gte=0"`
	Tight     int `yaml:"tight" json:"tight" default:"10" validate:"gte=0"`
	Trend     int `yaml:"trend" json:"trend" default:"10" validate:"gte=0"`
}

// Total is the maximum reachable score
func (p Points) Total() int {
	return p.AboveVWMA + p.RelVol + p.CloseLoc + p.BodyRatio + p.Tight + p.Trend
}

// VWAPPro is the stricter VWMA swing with a continuous score
type VWAPPro struct {
	MinBars        int     `yaml:"min_bars" json:"min_bars" default:"60" validate:"gte=50"`
	MinPrice       float64 `yaml:"min_price" json:"min_price" default:"100" validate:"gt=0"`
	MinAvgValue    float64 `yaml:"min_avg_value" json:"min_avg_value" default:"10000000000" validate:"gt=0"`
	MaxVWMADistPct float64 `yaml:"max_vwma_dist_pct" json:"max_vwma_dist_pct" default:"20" validate:"gt=0"`
	RelVol         float64 `yaml:"rel_vol" json:"rel_vol" default:"1.2" validate:"gt=0"`
	WeakCloseLoc   float64 `yaml:"weak_close_loc" json:"weak_close_loc" default:"0.60" validate:"gt=0,lte=1"`
	ReadyCloseLoc  float64 `yaml:"ready_close_loc" json:"ready_close_loc" default:"0.70" validate:"gt=0,lte=1"`
	ReadyBodyRatio float64 `yaml:"ready_body_ratio" json:"ready_body_ratio" default:"0.45" validate:"gt=0,lte=1"`
	TrapWickRatio  float64 `yaml:"trap_wick_ratio" json:"trap_wick_ratio" default:"0.55" validate:"gt=0,lte=1"`
	TrapRelVol     float64 `yaml:"trap_rel_vol" json:"trap_rel_vol" default:"1.5" validate:"gt=0"`
}

// Ultimate blends trend, money flow and relative strength
type Ultimate struct {
	MinBars       int     `yaml:"min_bars" json:"min_bars" default:"60" validate:"gte=60"`
	MinPrice      float64 `yaml:"min_price" json:"min_price" default:"50" validate:"gt=0"`
	MinValue      float64 `yaml:"min_value" json:"min_value" default:"1000000000" validate:"gt=0"`
	EMAFast       int     `yaml:"ema_fast" json:"ema_fast" default:"20" validate:"gte=1"`
	EMASlow       int     `yaml:"ema_slow" json:"ema_slow" default:"50" validate:"gte=1"`
	CMFMoneyIn    float64 `yaml:"cmf_money_in" json:"cmf_money_in" default:"0.05"`
	RSIBullish    float64 `yaml:"rsi_bullish" json:"rsi_bullish" default:"50" validate:"gt=0,lt=100"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought" default:"75" validate:"gt=0,lte=100"`
	RelVolSpike   float64 `yaml:"rel_vol_spike" json:"rel_vol_spike" default:"1.2" validate:"gt=0"`
	RSLookback    int     `yaml:"rs_lookback" json:"rs_lookback" default:"60" validate:"gte=2"`
	RSOutperform  float64 `yaml:"rs_outperform" json:"rs_outperform" default:"120" validate:"gt=0,lte=200"`
	RSPositive    float64 `yaml:"rs_positive" json:"rs_positive" default:"100" validate:"gt=0,lte=200"`
}

// SmartMoney looks for accumulation through money flow and OBV
type SmartMoney struct {
	MinBars           int     `yaml:"min_bars" json:"min_bars" default:"30" validate:"gte=20"`
	MinPrice          float64 `yaml:"min_price" json:"min_price" default:"50" validate:"gt=0"`
	CMFStrong         float64 `yaml:"cmf_strong" json:"cmf_strong" default:"0.10"`
	CMFAccum          float64 `yaml:"cmf_accum" json:"cmf_accum" default:"0.05"`
	MFIStrong         float64 `yaml:"mfi_strong" json:"mfi_strong" default:"60" validate:"gt=0,lte=100"`
	MFIPositive       float64 `yaml:"mfi_positive" json:"mfi_positive" default:"50" validate:"gt=0,lte=100"`
	DivergenceBars    int     `yaml:"divergence_bars" json:"divergence_bars" default:"10" validate:"gte=2"`
	FlatPriceSlope    float64 `yaml:"flat_price_slope" json:"flat_price_slope" default:"0.02" validate:"gt=0"`
	OBVRisingSlope    float64 `yaml:"obv_rising_slope" json:"obv_rising_slope" default:"0.05" validate:"gt=0"`
	VolumeSpikeFactor float64 `yaml:"volume_spike_factor" json:"volume_spike_factor" default:"2.0" validate:"gt=1"`
	ValidationFactor  float64 `yaml:"validation_factor" json:"validation_factor" default:"15" validate:"gt=0"`
}

// RiskOverlay configures ATR stops
type RiskOverlay struct {
	ATRMultiplier float64 `yaml:"atr_multiplier" json:"atr_multiplier" default:"2.0" validate:"gt=0"`
}

// Backtest configures the walk-forward validator
type Backtest struct {
	HoldDays  int    `yaml:"hold_days" json:"hold_days" default:"5" validate:"gte=1"`
	TopN      int    `yaml:"top_n" json:"top_n" default:"5" validate:"gte=1"`
	CostBps   int    `yaml:"cost_bps" json:"cost_bps" default:"30" validate:"gte=0"`
	StartDate string `yaml:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `yaml:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// RunSnapshot records which thresholds produced a scan
type RunSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigID   string    `json:"config_id"`
	Version    string    `json:"version"`
	Strategy   string    `json:"strategy"`
	CreatedAt  time.Time `json:"created_at"`
}
