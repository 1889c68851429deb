package strategyconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report fields by their YAML key
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationError aborts loading
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning flags a legal but risky setting
type Warning struct {
	Code    string
	Message string
}

// Validate checks field tags, then cross-field constraints
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return ValidationError{fieldPath(fe.Namespace()), tagMessage(fe)}
		}
		return err
	}

	if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
		return ValidationError{"meta.timezone", err.Error()}
	}

	// === Intraday ===
	if cfg.Intraday.ReadyScore <= cfg.Intraday.WatchScore {
		return ValidationError{"intraday_momentum.ready_score", "must be > watch_score"}
	}
	if !(cfg.Intraday.RVOLSpike > cfg.Intraday.RVOLUp && cfg.Intraday.RVOLUp > cfg.Intraday.RVOLBase) {
		return ValidationError{"intraday_momentum.rvol", "must satisfy rvol_spike > rvol_up > rvol_base"}
	}

	// === BSJP ===
	if cfg.BSJP.EMAFast >= cfg.BSJP.EMASlow {
		return ValidationError{"bsjp.ema_fast", "must be < ema_slow"}
	}
	if cfg.BSJP.RelVolStrong <= cfg.BSJP.RelVolUp {
		return ValidationError{"bsjp.rel_vol_strong", "must be > rel_vol_up"}
	}

	// === Swing ===
	if cfg.Swing.TightDistPct > cfg.Swing.MaxVWMADistPct {
		return ValidationError{"idx_swing.tight_dist_pct", "must be <= max_vwma_dist_pct"}
	}
	if cfg.Swing.Points.Total() <= 0 {
		return ValidationError{"idx_swing.points", "must award at least one point"}
	}

	// === VWAP Pro ===
	if cfg.VWAPPro.ReadyCloseLoc < cfg.VWAPPro.WeakCloseLoc {
		return ValidationError{"vwap_pro.ready_close_loc", "must be >= weak_close_loc"}
	}

	// === Ultimate ===
	if cfg.Ultimate.EMAFast >= cfg.Ultimate.EMASlow {
		return ValidationError{"ultimate.ema_fast", "must be < ema_slow"}
	}
	if cfg.Ultimate.RSOutperform <= cfg.Ultimate.RSPositive {
		return ValidationError{"ultimate.rs_outperform", "must be > rs_positive"}
	}
	if cfg.Ultimate.MinBars < cfg.Ultimate.RSLookback {
		return ValidationError{"ultimate.min_bars", "must cover rs_lookback"}
	}

	// === Smart Money ===
	if cfg.SmartMoney.CMFStrong <= cfg.SmartMoney.CMFAccum {
		return ValidationError{"smart_money.cmf_strong", "must be > cmf_accum"}
	}
	if cfg.SmartMoney.MFIStrong <= cfg.SmartMoney.MFIPositive {
		return ValidationError{"smart_money.mfi_strong", "must be > mfi_positive"}
	}
	if cfg.SmartMoney.MinBars < cfg.SmartMoney.DivergenceBars {
		return ValidationError{"smart_money.min_bars", "must cover divergence_bars"}
	}

	// === Backtest ===
	if cfg.Backtest.StartDate != "" && cfg.Backtest.EndDate != "" {
		start, _ := time.Parse("2006-01-02", cfg.Backtest.StartDate)
		end, _ := time.Parse("2006-01-02", cfg.Backtest.EndDate)
		if !start.Before(end) {
			return ValidationError{"backtest", "start_date must be before end_date"}
		}
	}

	return nil
}

// Warn returns recommendations that do not block loading
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Swing.MinAvgValue < 5_000_000_000 || cfg.VWAPPro.MinAvgValue < 5_000_000_000 {
		warnings = append(warnings, Warning{
			Code:    "LOW_LIQUIDITY_FLOOR",
			Message: "swing liquidity floor below 5B IDR admits thin names",
		})
	}

	if cfg.Risk.ATRMultiplier < 1.0 {
		warnings = append(warnings, Warning{
			Code:    "TIGHT_STOP",
			Message: fmt.Sprintf("atr_multiplier %.2f places stops inside daily noise", cfg.Risk.ATRMultiplier),
		})
	}

	if cfg.Backtest.CostBps < 20 {
		warnings = append(warnings, Warning{
			Code:    "OPTIMISTIC_COST",
			Message: fmt.Sprintf("cost_bps %d is below the IDX round-trip fee", cfg.Backtest.CostBps),
		})
	}

	return warnings
}

// fieldPath turns "Config.idx_swing.min_bars" into "idx_swing.min_bars"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be < %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
