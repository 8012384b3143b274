package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Database persists statistics snapshots in SQLite so counters survive a
// restart.
type Database struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

// Schema for the database tables
const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    start_time TIMESTAMP NOT NULL,
    saved_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS request_counts (
    url TEXT PRIMARY KEY CHECK(length(url) <= 2048 AND length(url) > 0),
    count INTEGER NOT NULL CHECK(count > 0)
);

CREATE TABLE IF NOT EXISTS session_counts (
    host TEXT PRIMARY KEY CHECK(length(host) <= 255 AND length(host) > 0),
    count INTEGER NOT NULL CHECK(count > 0)
);
`

// NewDatabase opens (or creates) the statistics database at dbPath and
// initializes the schema.
func NewDatabase(dbPath string, logger *slog.Logger) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Statistics database initialized", "path", dbPath)

	return &Database{
		db:     db,
		logger: logger,
	}, nil
}

// SaveSnapshot stores the snapshot, replacing the counts saved earlier.
//
// Counts in a snapshot are totals (restored counts included), so a stored
// count is overwritten rather than added to.
func (d *Database) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot (id, start_time, saved_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_time = excluded.start_time,
			saved_at = excluded.saved_at
	`, snap.StartTime, snap.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	for _, e := range snap.Requests {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO request_counts (url, count)
			VALUES (?, ?)
			ON CONFLICT(url) DO UPDATE SET count = excluded.count
		`, e.Key, e.Count)
		if err != nil {
			return fmt.Errorf("failed to save request count for %s: %w", e.Key, err)
		}
	}

	for _, e := range snap.Sessions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_counts (host, count)
			VALUES (?, ?)
			ON CONFLICT(host) DO UPDATE SET count = excluded.count
		`, e.Key, e.Count)
		if err != nil {
			return fmt.Errorf("failed to save session count for %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSnapshot returns the last saved snapshot.
//
// An empty snapshot (zero SavedAt) is returned when nothing was saved yet.
func (d *Database) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var snap Snapshot
	err := d.db.QueryRowContext(ctx, `
		SELECT start_time, saved_at
		FROM snapshot
		WHERE id = 1
	`).Scan(&snap.StartTime, &snap.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap.Requests, err = d.queryCounts(ctx, `SELECT url, count FROM request_counts ORDER BY url`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query request counts: %w", err)
	}
	snap.Sessions, err = d.queryCounts(ctx, `SELECT host, count FROM session_counts ORDER BY host`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query session counts: %w", err)
	}
	return snap, nil
}

func (d *Database) queryCounts(ctx context.Context, query string) ([]CountEntry, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CountEntry
	for rows.Next() {
		var entry CountEntry
		if err := rows.Scan(&entry.Key, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Close closes the database connection.
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Persister saves statistics snapshots to a Database periodically and once
// more when stopped.
type Persister struct {
	db       *Database
	stats    *Stats
	interval time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewPersister creates a persister. Call Start to begin periodic saving.
func NewPersister(db *Database, stats *Stats, interval time.Duration, logger *slog.Logger) *Persister {
	return &Persister{
		db:       db,
		stats:    stats,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Restore loads the last saved snapshot into the statistics.
func (p *Persister) Restore(ctx context.Context) error {
	snap, err := p.db.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		p.logger.Debug("No saved statistics found")
		return nil
	}
	p.stats.Restore(snap)
	return nil
}

// Save stores a snapshot of the current statistics.
func (p *Persister) Save(ctx context.Context) error {
	return p.db.SaveSnapshot(ctx, p.stats.Snapshot())
}

// Start starts the periodic save loop in a background goroutine.
func (p *Persister) Start() {
	if p.started.CompareAndSwap(false, true) {
		go p.run()
	}
}

func (p *Persister) run() {
	defer close(p.done)
	if p.interval <= 0 {
		<-p.stopChan
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.interval)
			if err := p.Save(ctx); err != nil {
				p.logger.Warn("Failed to save statistics", "error", err)
			}
			cancel()
		case <-p.stopChan:
			return
		}
	}
}

// Stop stops the save loop and saves a final snapshot.
//
// Safe to call multiple times; only the first call saves.
func (p *Persister) Stop(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopChan)
		if p.started.Load() {
			<-p.done
		}
		err = p.Save(ctx)
	})
	return err
}
