// Package storage exports dashboard data into a sqlite file for ad-hoc
// querying. The export is an offline artifact: the server never reads it
// back, the date directories stay the single source of truth.
package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/auditdash/auditdash/pkg/report"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS findings (
  id           INTEGER PRIMARY KEY,
  finding_id   TEXT NOT NULL,
  title        TEXT NOT NULL,
  severity     TEXT NOT NULL,
  repo         TEXT,
  agent        TEXT NOT NULL,
  first_seen   TEXT NOT NULL,
  last_seen    TEXT NOT NULL,
  occurrences  INTEGER NOT NULL,
  status       TEXT NOT NULL CHECK (status IN ('new','recurring','resolved'))
);
CREATE INDEX IF NOT EXISTS idx_findings_severity ON findings(severity);
CREATE INDEX IF NOT EXISTS idx_findings_status ON findings(status);
CREATE TABLE IF NOT EXISTS health_history (
  date         TEXT PRIMARY KEY,
  health_score INTEGER,
  agent_count  INTEGER NOT NULL
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ReplaceTimeline rewrites the findings table from a freshly built timeline.
func (d *DB) ReplaceTimeline(ctx context.Context, findings []report.TimelineFinding) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM findings"); err != nil {
		return err
	}
	for _, f := range findings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO findings(finding_id, title, severity, repo, agent, first_seen, last_seen, occurrences, status) VALUES(?,?,?,?,?,?,?,?,?)`,
			f.ID, f.Title, f.Severity, nullIfEmpty(f.Repo), f.Agent, f.FirstSeen, f.LastSeen, f.Occurrences, f.Status)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// HealthEntry is one day's portfolio health for the history table.
type HealthEntry struct {
	Date       string
	Score      *int
	AgentCount int
}

// ReplaceHealthHistory rewrites the per-day health table.
func (d *DB) ReplaceHealthHistory(ctx context.Context, entries []HealthEntry) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM health_history"); err != nil {
		return err
	}
	for _, e := range entries {
		var score any
		if e.Score != nil {
			score = *e.Score
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO health_history(date, health_score, agent_count) VALUES(?,?,?)`,
			e.Date, score, e.AgentCount)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Stats summarizes the exported findings per severity.
type Stat struct {
	Severity string
	Count    int
}

func (d *DB) GetStats(ctx context.Context) ([]Stat, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT severity, COUNT(*) FROM findings GROUP BY severity ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var s Stat
		if err := rows.Scan(&s.Severity, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
