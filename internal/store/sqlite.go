package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS research_records (
	id           TEXT PRIMARY KEY,
	contact_name TEXT NOT NULL,
	company_name TEXT NOT NULL,
	fit_score    INTEGER NOT NULL,
	priority     TEXT NOT NULL,
	record       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_research_company ON research_records(company_name);
CREATE INDEX IF NOT EXISTS idx_research_priority ON research_records(priority);
CREATE INDEX IF NOT EXISTS idx_research_created_at ON research_records(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, rec *model.CompositeResearchRecord) error {
	r, err := toRow(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO research_records (id, contact_name, company_name, fit_score, priority, record, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact_name = excluded.contact_name,
			company_name = excluded.company_name,
			fit_score = excluded.fit_score,
			priority = excluded.priority,
			record = excluded.record`,
		r.id, r.contact, r.company, r.fitScore, r.priority, string(r.record), r.createdAt,
	)
	return eris.Wrapf(err, "sqlite: save record %s", r.id)
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.CompositeResearchRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM research_records WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}
	return decodeRecord([]byte(data))
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]model.CompositeResearchRecord, error) {
	query := `SELECT record FROM research_records WHERE 1=1`
	var args []any

	if f.Company != "" {
		query += ` AND company_name = ? COLLATE NOCASE`
		args = append(args, f.Company)
	}
	if f.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(f.Priority))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, f.limit())

	if f.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var out []model.CompositeResearchRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		rec, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}
