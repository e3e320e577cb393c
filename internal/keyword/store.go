package keyword

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists the keyword registry in SQLite via modernc.org/sqlite
// (pure Go). Use ":memory:" as the path in tests.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the keyword database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("keyword: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keyword: ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS keywords (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			word        TEXT NOT NULL,
			type        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT 'general',
			risk_level  INTEGER NOT NULL DEFAULT 3,
			source      TEXT NOT NULL DEFAULT 'default',
			added_at    TEXT NOT NULL,
			updated_at  TEXT NOT NULL,
			active      INTEGER NOT NULL DEFAULT 1,
			UNIQUE(word, type)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("keyword: create table: %w", err)
	}

	return &Store{db: db}, nil
}

// LoadAll returns every keyword in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]Keyword, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, word, type, category, risk_level, source, added_at, updated_at, active
		FROM keywords ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("keyword: load: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Keyword
	for rows.Next() {
		var (
			kw             Keyword
			added, updated string
			active         int
		)
		if err := rows.Scan(&kw.ID, &kw.Word, &kw.Type, &kw.Category, &kw.RiskLevel,
			&kw.Source, &added, &updated, &active); err != nil {
			return nil, fmt.Errorf("keyword: scan row: %w", err)
		}
		kw.AddedAt, _ = time.Parse(time.RFC3339, added)
		kw.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		kw.Active = active != 0
		out = append(out, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword: iterate rows: %w", err)
	}
	return out, nil
}

// InsertDefaults inserts the given keywords, ignoring entries whose
// word+type already exist.
func (s *Store) InsertDefaults(ctx context.Context, keywords []Keyword) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("keyword: begin insert: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, kw := range keywords {
		active := 0
		if kw.Active {
			active = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO keywords
				(word, type, category, risk_level, source, added_at, updated_at, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, kw.Word, kw.Type, kw.Category, kw.RiskLevel, kw.Source, now, now, active)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("keyword: insert %q: %w", kw.Word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("keyword: commit insert: %w", err)
	}
	return nil
}

// Count returns the number of stored keywords.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keywords`).Scan(&n); err != nil {
		return 0, fmt.Errorf("keyword: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
