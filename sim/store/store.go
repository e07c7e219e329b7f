// Package store provides SQLite-backed persistence for evaluation runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/inventory-sim/inventory-sim/sim"
	"github.com/inventory-sim/inventory-sim/sim/trace"
)

// Run identifies one evaluation of a scenario.
type Run struct {
	ID        string
	Scenario  string
	Seed      int64
	Episodes  int
	Workers   int
	CreatedAt time.Time
}

// Store provides access to the results database.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		episodes INTEGER NOT NULL,
		workers INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS episodes (
		run_id TEXT NOT NULL,
		episode INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		periods INTEGER NOT NULL,
		total_reward REAL NOT NULL,
		total_demand REAL NOT NULL,
		sales REAL NOT NULL,
		lost_sales REAL NOT NULL,
		fill_rate REAL NOT NULL,
		orders_placed INTEGER NOT NULL,
		units_ordered REAL NOT NULL,
		average_inventory REAL NOT NULL,
		stockout_periods INTEGER NOT NULL,
		PRIMARY KEY (run_id, episode),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores run and its episode summaries in one transaction. An empty
// ID is replaced by a fresh UUID and a zero CreatedAt by the current time.
// Returns the stored run.
func (s *Store) SaveRun(ctx context.Context, run Run, episodes []sim.EpisodeSummary) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Episodes = len(episodes)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, seed, episodes, workers, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.Seed, run.Episodes, run.Workers, run.CreatedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO episodes (
		run_id, episode, seed, periods, total_reward, total_demand, sales, lost_sales,
		fill_rate, orders_placed, units_ordered, average_inventory, stockout_periods
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare episode insert: %w", err)
	}
	defer stmt.Close()

	for _, ep := range episodes {
		_, err := stmt.ExecContext(ctx,
			run.ID, ep.Episode, ep.Seed, ep.Periods, ep.TotalReward, ep.TotalDemand, ep.Sales, ep.LostSales,
			ep.FillRate, ep.OrdersPlaced, ep.UnitsOrdered, ep.AverageInventory, ep.StockoutPeriods,
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert episode %d: %w", ep.Episode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, seed, episodes, workers, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Seed, &r.Episodes, &r.Workers, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Episodes returns the episode summaries of a run ordered by episode.
// An unknown run yields an empty slice.
func (s *Store) Episodes(ctx context.Context, runID string) ([]sim.EpisodeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		episode, seed, periods, total_reward, total_demand, sales, lost_sales,
		fill_rate, orders_placed, units_ordered, average_inventory, stockout_periods
		FROM episodes WHERE run_id = ? ORDER BY episode`, runID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var out []sim.EpisodeSummary
	for rows.Next() {
		var ep sim.EpisodeSummary
		var sum trace.Summary
		if err := rows.Scan(&ep.Episode, &ep.Seed, &sum.Periods, &sum.TotalReward, &sum.TotalDemand, &sum.Sales, &sum.LostSales,
			&sum.FillRate, &sum.OrdersPlaced, &sum.UnitsOrdered, &sum.AverageInventory, &sum.StockoutPeriods); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		ep.Summary = sum
		out = append(out, ep)
	}
	return out, rows.Err()
}
