package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	position      INTEGER NOT NULL,
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL,
	cost          TEXT NOT NULL,
	billing_cycle TEXT NOT NULL,
	custom_months INTEGER NOT NULL DEFAULT 0,
	start_date    TEXT NOT NULL,
	end_date      TEXT,
	status        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS store_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteRepository stores subscriptions in a SQLite database. The collection is
// rewritten as a whole on every Write; position keeps the caller's ordering.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLiteRepository opens (creating if needed) the database at path
func OpenSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to SQLite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Read(ctx context.Context) ([]Subscription, error) {
	var initialized string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = 'initialized'`).Scan(&initialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("reading store metadata: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, cost, billing_cycle, custom_months, start_date, end_date, status
		FROM subscriptions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying subscriptions: %w", err)
	}
	defer rows.Close()

	var records []subscriptionRecord
	for rows.Next() {
		var rec subscriptionRecord
		var cost string
		var endDate sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Category, &cost, &rec.BillingCycle,
			&rec.CustomMonths, &rec.StartDate, &endDate, &rec.Status); err != nil {
			return nil, fmt.Errorf("scanning subscription: %w", err)
		}
		rec.Cost = json.Number(cost)
		rec.EndDate = endDate.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscriptions: %w", err)
	}

	return fromRecords(records)
}

func (r *SQLiteRepository) Write(ctx context.Context, subs []Subscription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("clearing subscriptions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscriptions (position, id, name, category, cost, billing_cycle, custom_months, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range toRecords(subs) {
		endDate := sql.NullString{String: rec.EndDate, Valid: rec.EndDate != ""}
		if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Name, rec.Category, rec.Cost.String(),
			rec.BillingCycle, rec.CustomMonths, rec.StartDate, endDate, rec.Status); err != nil {
			return fmt.Errorf("inserting subscription %s: %w", rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO store_meta (key, value) VALUES ('initialized', 'true')
		ON CONFLICT (key) DO NOTHING`); err != nil {
		return fmt.Errorf("marking store initialized: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing subscriptions: %w", err)
	}
	return nil
}
