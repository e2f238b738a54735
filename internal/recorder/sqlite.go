package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists tick history to a SQLite database. Rows are tagged
// with a run id so restarts do not interleave.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	runID  string
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString(), logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath), zap.String("run_id", r.runID))
	return r, nil
}

// RunID identifies this process's rows.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ticks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			tick           INTEGER NOT NULL,
			stage_index    INTEGER NOT NULL,
			price          REAL,
			target         REAL,
			trend_up       INTEGER,
			phrase         TEXT,
			percent_change TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_run ON ticks(run_id, tick)`,

		`CREATE TABLE IF NOT EXISTS stage_advances (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			tick       INTEGER NOT NULL,
			from_stage INTEGER,
			to_stage   INTEGER,
			price      REAL,
			message    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_run ON stage_advances(run_id, tick)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(rec *TickRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	trend := 0
	if rec.TrendUp {
		trend = 1
	}
	_, err := r.db.Exec(`INSERT INTO ticks
		(run_id, timestamp, tick, stage_index, price, target, trend_up, phrase, percent_change)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		r.runID, ts.UnixMilli(), rec.Tick, rec.StageIndex,
		rec.Price, rec.Target, trend, rec.Phrase, rec.PercentChange,
	)
	return err
}

func (r *SQLiteRecorder) RecordStageAdvance(evt *StageEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO stage_advances
		(run_id, timestamp, tick, from_stage, to_stage, price, message)
		VALUES (?,?,?,?,?,?,?)`,
		r.runID, time.Now().UnixMilli(), evt.Tick,
		evt.FromStage, evt.ToStage, evt.Price, evt.Message,
	)
	return err
}

// RecentTicks returns up to limit ticks of the current run, newest first.
func (r *SQLiteRecorder) RecentTicks(limit int) ([]TickRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, tick, stage_index, price, target, trend_up, phrase, percent_change
		FROM ticks WHERE run_id = ? ORDER BY tick DESC LIMIT ?`, r.runID, limit)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var (
			rec   TickRecord
			ms    int64
			trend int
		)
		if err := rows.Scan(&rec.RunID, &ms, &rec.Tick, &rec.StageIndex, &rec.Price,
			&rec.Target, &trend, &rec.Phrase, &rec.PercentChange); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ms)
		rec.TrendUp = trend == 1
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
