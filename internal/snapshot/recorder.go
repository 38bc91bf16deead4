// Package snapshot persists one row per instrument per scan cycle to a
// SQLite database, so a cycle's output can be inspected after the run.
package snapshot

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aristath/sepascan/internal/domain"
)

// Recorder writes scan snapshots to SQLite.
type Recorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRecorder opens (or creates) the database and runs migrations.
func NewRecorder(dbPath string) (*Recorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block a running scan.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &Recorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *Recorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_snapshots (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id              TEXT NOT NULL,
			timestamp             INTEGER NOT NULL,
			ticker                TEXT NOT NULL,
			eligible              INTEGER NOT NULL,
			grade                 TEXT NOT NULL,
			composite_score       REAL,
			trend_score           REAL,
			base_score            REAL,
			rs_score              REAL,
			volume_score          REAL,
			breakout_score        REAL,
			power_rank            REAL,
			base_type             TEXT,
			length_weeks          REAL,
			depth_pct             REAL,
			prior_run_pct         REAL,
			rs_3m                 REAL,
			rs_percentile         REAL,
			rsi_14                REAL,
			pivot_price           REAL,
			pivot_source          TEXT,
			distance_to_pivot_pct REAL,
			in_breakout           INTEGER,
			stop_price            REAL,
			risk_per_share        REAL,
			reward_to_risk        REAL,
			atr_14                REAL,
			stop_method           TEXT,
			reject_reason         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_cycle ON scan_snapshots(cycle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ticker ON scan_snapshots(ticker, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Record persists one cycle's results in a single transaction.
func (r *Recorder) Record(cycleID string, results []domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO scan_snapshots (
		cycle_id, timestamp, ticker, eligible, grade,
		composite_score, trend_score, base_score, rs_score, volume_score, breakout_score,
		power_rank, base_type, length_weeks, depth_pct, prior_run_pct,
		rs_3m, rs_percentile, rsi_14,
		pivot_price, pivot_source, distance_to_pivot_pct, in_breakout,
		stop_price, risk_per_share, reward_to_risk, atr_14, stop_method,
		reject_reason
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, res := range results {
		if _, err := stmt.Exec(snapshotArgs(cycleID, now, res)...); err != nil {
			return fmt.Errorf("insert snapshot for %s: %w", res.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

func snapshotArgs(cycleID string, ts int64, r domain.Result) []any {
	args := []any{
		cycleID, ts, r.Symbol, boolInt(r.Eligible), string(r.Grade),
		r.CompositeScore, r.TrendScore, r.BaseScore, r.RSScore, r.VolumeScore, r.BreakoutScore,
		nullFloat(r.PowerRank),
	}

	if r.Base != nil {
		args = append(args, r.Base.Type, r.Base.LengthWeeks, r.Base.DepthPct, nullFloat(r.Base.PriorRunPct))
	} else {
		args = append(args, nil, nil, nil, nil)
	}
	if r.RelativeStrength != nil {
		args = append(args, nullFloat(r.RelativeStrength.RS3M), nullFloat(r.RelativeStrength.RSPercentile), nullFloat(r.RelativeStrength.RSI14))
	} else {
		args = append(args, nil, nil, nil)
	}
	if r.Breakout != nil {
		args = append(args, r.Breakout.PivotPrice, r.Breakout.PivotSource, r.Breakout.DistanceToPivotPct, boolInt(r.Breakout.InBreakout))
	} else {
		args = append(args, nil, nil, nil, nil)
	}
	if r.Risk != nil {
		args = append(args, r.Risk.StopPrice, r.Risk.RiskPerShare, r.Risk.RewardToRisk, nullFloat(r.Risk.ATR14), r.Risk.StopMethod)
	} else {
		args = append(args, nil, nil, nil, nil, nil)
	}

	return append(args, r.RejectReason)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
