package s0_data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// ErrNotFound is returned when no stored run matches
var ErrNotFound = errors.New("scan run not found")

// schema creates the persistence tables on first use
const schema = `
CREATE SCHEMA IF NOT EXISTS screener;

CREATE TABLE IF NOT EXISTS screener.scan_runs (
	run_id           UUID PRIMARY KEY,
	strategy         TEXT NOT NULL,
	generated_at     TIMESTAMPTZ NOT NULL,
	regime_label     TEXT NOT NULL,
	regime_close     DOUBLE PRECISION,
	regime_ema200    DOUBLE PRECISION,
	regime_distance  DOUBLE PRECISION,
	regime_at        TIMESTAMPTZ,
	tiered           BOOLEAN NOT NULL,
	partial          BOOLEAN NOT NULL,
	columns          TEXT[] NOT NULL,
	summary          JSONB NOT NULL,
	quality          JSONB NOT NULL,
	config_hash      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS scan_runs_strategy_idx
	ON screener.scan_runs (strategy, generated_at DESC);

CREATE TABLE IF NOT EXISTS screener.scan_results (
	run_id       UUID NOT NULL REFERENCES screener.scan_runs (run_id) ON DELETE CASCADE,
	rank         INTEGER NOT NULL,
	rank_ready   INTEGER NOT NULL DEFAULT 0,
	ticker       TEXT NOT NULL,
	score        DOUBLE PRECISION NOT NULL,
	decision     TEXT NOT NULL DEFAULT '',
	tier         TEXT NOT NULL,
	reasons      TEXT[] NOT NULL,
	metrics      JSONB NOT NULL,
	risk         JSONB,
	PRIMARY KEY (run_id, rank)
);
`

// ScanRepository stores ranked scan tables in Postgres
// ⭐ SSOT: scan persistence lives here
type ScanRepository struct {
	pool *pgxpool.Pool
}

// NewScanRepository creates a new scan repository
func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// EnsureSchema creates the screener schema if it does not exist
func (r *ScanRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure screener schema: %w", err)
	}
	return nil
}

// SaveRun writes a run and all of its rows in one transaction
func (r *ScanRepository) SaveRun(ctx context.Context, table *contracts.ResultTable) error {
	summary, err := json.Marshal(table.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	quality, err := json.Marshal(table.Quality)
	if err != nil {
		return fmt.Errorf("marshal quality: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO screener.scan_runs (
			run_id, strategy, generated_at,
			regime_label, regime_close, regime_ema200, regime_distance, regime_at,
			tiered, partial, columns, summary, quality, config_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		table.RunID, table.Strategy, table.GeneratedAt,
		string(table.Regime.Label), table.Regime.BenchmarkClose, table.Regime.BenchmarkEMA200,
		table.Regime.DistancePct, table.Regime.ComputedAt,
		table.Tiered, table.Partial, table.Columns, summary, quality, table.ConfigHash,
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, res := range table.Results {
		row, err := encodeResult(res)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO screener.scan_results (
				run_id, rank, rank_ready, ticker, score, decision, tier, reasons, metrics, risk
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, table.RunID, res.Rank, res.RankReady, res.Ticker, res.Score, res.Decision,
			res.Tier.String(), row.reasons, row.metrics, row.risk)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert scan results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit scan run: %w", err)
	}
	return nil
}

// LatestRun loads the most recent run of a strategy with its rows in rank order
func (r *ScanRepository) LatestRun(ctx context.Context, strategy string) (*contracts.ResultTable, error) {
	var (
		t       contracts.ResultTable
		label   string
		summary []byte
		quality []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT run_id::text, strategy, generated_at,
			regime_label, regime_close, regime_ema200, regime_distance, regime_at,
			tiered, partial, columns, summary, quality, config_hash
		FROM screener.scan_runs
		WHERE strategy = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`, strategy).Scan(
		&t.RunID, &t.Strategy, &t.GeneratedAt,
		&label, &t.Regime.BenchmarkClose, &t.Regime.BenchmarkEMA200, &t.Regime.DistancePct, &t.Regime.ComputedAt,
		&t.Tiered, &t.Partial, &t.Columns, &summary, &quality, &t.ConfigHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	t.Regime.Label = contracts.RegimeLabel(label)

	if err := json.Unmarshal(summary, &t.Summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if err := json.Unmarshal(quality, &t.Quality); err != nil {
		return nil, fmt.Errorf("decode quality: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT rank, rank_ready, ticker, score, decision, tier, reasons, metrics, risk
		FROM screener.scan_results
		WHERE run_id = $1
		ORDER BY rank ASC
	`, t.RunID)
	if err != nil {
		return nil, fmt.Errorf("query scan results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res  contracts.ScreenerResult
			tier string
			row  resultRow
		)
		if err := rows.Scan(&res.Rank, &res.RankReady, &res.Ticker, &res.Score, &res.Decision,
			&tier, &row.reasons, &row.metrics, &row.risk); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		res.Tier = contracts.ParseTier(tier)
		if err := row.decode(&res); err != nil {
			return nil, err
		}
		t.Results = append(t.Results, res)
	}
	return &t, rows.Err()
}

// resultRow holds the encoded columns of one result
type resultRow struct {
	reasons []string
	metrics []byte
	risk    []byte
}

func encodeResult(res contracts.ScreenerResult) (resultRow, error) {
	metrics, err := json.Marshal(storedMetrics(res.Metrics))
	if err != nil {
		return resultRow{}, fmt.Errorf("marshal metrics for %s: %w", res.Ticker, err)
	}

	row := resultRow{reasons: res.ReasonCodes, metrics: metrics}
	if row.reasons == nil {
		row.reasons = []string{}
	}
	if res.Risk != nil {
		if row.risk, err = json.Marshal(res.Risk); err != nil {
			return resultRow{}, fmt.Errorf("marshal risk for %s: %w", res.Ticker, err)
		}
	}
	return row, nil
}

func (row resultRow) decode(res *contracts.ScreenerResult) error {
	res.ReasonCodes = row.reasons

	var stored []storedMetric
	if err := json.Unmarshal(row.metrics, &stored); err != nil {
		return fmt.Errorf("decode metrics for %s: %w", res.Ticker, err)
	}
	res.Metrics = loadMetrics(stored)

	if len(row.risk) > 0 {
		var risk contracts.RiskLevels
		if err := json.Unmarshal(row.risk, &risk); err != nil {
			return fmt.Errorf("decode risk for %s: %w", res.Ticker, err)
		}
		res.Risk = &risk
	}
	return nil
}
