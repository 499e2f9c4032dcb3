package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS research_records (
	id           TEXT PRIMARY KEY,
	contact_name TEXT NOT NULL,
	company_name TEXT NOT NULL,
	fit_score    INTEGER NOT NULL,
	priority     TEXT NOT NULL,
	record       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_research_company ON research_records(lower(company_name));
CREATE INDEX IF NOT EXISTS idx_research_priority ON research_records(priority);
CREATE INDEX IF NOT EXISTS idx_research_created_at ON research_records(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec *model.CompositeResearchRecord) error {
	r, err := toRow(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO research_records (id, contact_name, company_name, fit_score, priority, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			contact_name = EXCLUDED.contact_name,
			company_name = EXCLUDED.company_name,
			fit_score = EXCLUDED.fit_score,
			priority = EXCLUDED.priority,
			record = EXCLUDED.record`,
		r.id, r.contact, r.company, r.fitScore, r.priority, r.record, r.createdAt,
	)
	return eris.Wrapf(err, "postgres: save record %s", r.id)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.CompositeResearchRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT record FROM research_records WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get record %s", id)
	}
	return decodeRecord(data)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]model.CompositeResearchRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM research_records
		WHERE ($1 = '' OR lower(company_name) = lower($1))
		  AND ($2 = '' OR priority = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		f.Company, string(f.Priority), f.limit(), max(f.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var out []model.CompositeResearchRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list records iterate")
}
