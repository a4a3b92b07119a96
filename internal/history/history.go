// internal/history/history.go
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nthenge/sokoreach/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS delivery_log (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    phone         TEXT NOT NULL,
    business_name TEXT NOT NULL,
    message_type  TEXT NOT NULL,
    status        TEXT NOT NULL,
    error         TEXT NOT NULL DEFAULT '',
    preview       TEXT NOT NULL DEFAULT '',
    duration_ms   INTEGER NOT NULL DEFAULT 0,
    attempted_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_delivery_log_attempted_at ON delivery_log (attempted_at);
`

// Log is a local archive of every delivery attempt across runs, kept
// in a SQLite file next to the campaign state. It is best-effort
// bookkeeping: callers log append failures and move on.
type Log struct {
	db *sql.DB
}

func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Append(r model.AttemptResult) error {
	_, err := l.db.Exec(`
        INSERT INTO delivery_log (phone, business_name, message_type, status, error, preview, duration_ms, attempted_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Phone, r.Name, string(r.MessageType), string(r.Outcome), r.Error, r.Preview,
		r.Duration.Milliseconds(), r.Timestamp.UTC().Format(time.RFC3339),
	)
	return err
}

// Recent returns the newest attempts first.
func (l *Log) Recent(limit int) ([]model.AttemptResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(`
        SELECT phone, business_name, message_type, status, error, preview, duration_ms, attempted_at
        FROM delivery_log
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AttemptResult{}
	for rows.Next() {
		var (
			r          model.AttemptResult
			msgType    string
			status     string
			durationMS int64
			attempted  string
		)
		if err := rows.Scan(&r.Phone, &r.Name, &msgType, &status, &r.Error, &r.Preview, &durationMS, &attempted); err != nil {
			return nil, err
		}
		r.MessageType = model.MessageType(msgType)
		r.Outcome = model.AttemptOutcome(status)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339, attempted); err == nil {
			r.Timestamp = ts
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Counts aggregates all archived attempts by status.
func (l *Log) Counts() (map[string]int, error) {
	rows, err := l.db.Query(`SELECT status, COUNT(*) FROM delivery_log GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (l *Log) Close() error {
	return l.db.Close()
}
